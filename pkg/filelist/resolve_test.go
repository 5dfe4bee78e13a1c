package filelist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distkit/sdist/pkg/manifest"
)

func mustParse(t *testing.T, src string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse(strings.NewReader(src), "MANIFEST.in")
	require.NoError(t, err)
	return m
}

var sampleTree = []string{
	"LICENSE",
	"README.md",
	"build/output.bin",
	"data/labels.json",
	"data/raw/extra.csv",
	"data/train.csv",
	"docs/guide.md",
	"docs/img/arch.png",
	"notebooks/explore.ipynb",
	"proto/schema.proto",
	"src/pkg/__init__.py",
	"src/pkg/model.py",
	"src/pkg/model.pyc",
	"src/util.py",
}

func TestResolveInclude(t *testing.T) {
	m := mustParse(t, "include README.md LICENSE\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"LICENSE", "README.md"}, res.Selected)
}

func TestResolveIncludeGlob(t *testing.T) {
	m := mustParse(t, "include data/*.csv\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"data/train.csv"}, res.Selected)
}

func TestResolveRecursiveInclude(t *testing.T) {
	m := mustParse(t, "recursive-include data *.csv\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"data/raw/extra.csv",
		"data/train.csv",
	}, res.Selected)
}

func TestResolveGlobalInclude(t *testing.T) {
	m := mustParse(t, "global-include *.py\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"src/pkg/__init__.py",
		"src/pkg/model.py",
		"src/util.py",
	}, res.Selected)
}

func TestResolveGraft(t *testing.T) {
	m := mustParse(t, "graft docs\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"docs/guide.md",
		"docs/img/arch.png",
	}, res.Selected)
}

func TestResolveGraftDoubleStar(t *testing.T) {
	tree := []string{"a/b/c.txt", "a/b/d/e.txt", "a/x.txt"}
	m := mustParse(t, "graft a/**\n")
	res, err := Resolve(tree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b/c.txt", "a/b/d/e.txt"}, res.Selected)
}

func TestResolveRecursiveIncludeDoubleStarDir(t *testing.T) {
	tree := []string{"src/a/deep/x.csv", "src/b/y.csv", "src/b/z.txt", "src/top.csv"}
	m := mustParse(t, "recursive-include src/** *.csv\n")
	res, err := Resolve(tree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a/deep/x.csv", "src/b/y.csv"}, res.Selected)
}

func TestResolvePrune(t *testing.T) {
	m := mustParse(t, "graft data\nprune data/raw\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"data/labels.json",
		"data/train.csv",
	}, res.Selected)
}

func TestResolveExcludeWins(t *testing.T) {
	m := mustParse(t, `global-include *.py
recursive-exclude src *
include src/util.py
`)
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Empty(t, res.Selected)
}

func TestResolveGlobalExclude(t *testing.T) {
	m := mustParse(t, "graft src\nglobal-exclude *.pyc\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"src/pkg/__init__.py",
		"src/pkg/model.py",
		"src/util.py",
	}, res.Selected)
}

func TestResolveDeepGlob(t *testing.T) {
	m := mustParse(t, "include **/*.proto\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"proto/schema.proto"}, res.Selected)
}

func TestResolveOrderIndependent(t *testing.T) {
	lines := []string{
		"include README.md",
		"graft data",
		"prune data/raw",
		"global-include *.py",
		"global-exclude *.pyc",
		"recursive-exclude src *util*",
		"graft docs",
		"exclude docs/img/arch.png",
	}
	base := mustParse(t, strings.Join(lines, "\n")+"\n")
	want, err := Resolve(sampleTree, base)
	require.NoError(t, err)
	require.NotEmpty(t, want.Selected)

	perms := [][]string{
		{lines[7], lines[6], lines[5], lines[4], lines[3], lines[2], lines[1], lines[0]},
		{lines[3], lines[0], lines[7], lines[2], lines[5], lines[1], lines[4], lines[6]},
		{lines[4], lines[5], lines[2], lines[7], lines[0], lines[6], lines[1], lines[3]},
	}
	for _, p := range perms {
		m := mustParse(t, strings.Join(p, "\n")+"\n")
		res, err := Resolve(sampleTree, m)
		require.NoError(t, err)
		assert.Equal(t, want.Selected, res.Selected)
	}
}

func TestResolveStats(t *testing.T) {
	m := mustParse(t, `include README.md
include missing.txt
graft src
global-exclude *.pyc
exclude notebooks/explore.ipynb
`)
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	require.Len(t, res.Stats, 5)

	assert.Equal(t, 1, res.Stats[0].Matched)
	assert.Equal(t, 1, res.Stats[0].Effective)

	assert.Equal(t, 0, res.Stats[1].Matched)
	assert.Equal(t, 0, res.Stats[1].Effective)

	assert.Equal(t, 4, res.Stats[2].Matched)
	assert.Equal(t, 3, res.Stats[2].Effective)

	assert.Equal(t, 1, res.Stats[3].Matched)
	assert.Equal(t, 1, res.Stats[3].Effective)

	assert.Equal(t, 1, res.Stats[4].Matched)
	assert.Equal(t, 0, res.Stats[4].Effective)
}

func TestResolveEmptyManifest(t *testing.T) {
	m := mustParse(t, "# nothing here\n")
	res, err := Resolve(sampleTree, m)
	require.NoError(t, err)
	assert.Empty(t, res.Selected)
	assert.Empty(t, res.Stats)
}

func TestResolveEmptyTree(t *testing.T) {
	m := mustParse(t, "include README.md\n")
	res, err := Resolve(nil, m)
	require.NoError(t, err)
	assert.Empty(t, res.Selected)
	assert.Equal(t, 0, res.Stats[0].Matched)
}

func TestResolveSelectedSorted(t *testing.T) {
	tree := []string{"b.txt", "a.txt", "c.txt"}
	m := mustParse(t, "global-include *.txt\n")
	res, err := Resolve(tree, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, res.Selected)
}
