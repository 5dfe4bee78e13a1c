package harness

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distkit/sdist/pkg/archive"
	"github.com/distkit/sdist/pkg/treegen"
)

func TestCornerUnicodeAndSpaces(t *testing.T) {
	p := New(t.TempDir())
	for rel, content := range map[string]string{
		"data/résumé.csv":        "a\n",
		"data/深い/テスト.csv":       "b\n",
		"data/file with spaces.csv": "c\n",
	} {
		require.NoError(t, p.WriteFile(rel, content))
	}
	require.NoError(t, p.WriteManifest("recursive-include data *.csv\n"))

	o, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"data/file with spaces.csv",
		"data/résumé.csv",
		"data/深い/テスト.csv",
	}, o.Result.Selected)

	lockPath := filepath.Join(p.Root, "sdist.lock")
	_, err = p.Lock(o, lockPath)
	require.NoError(t, err)
	drift, err := p.Drift(o, lockPath)
	require.NoError(t, err)
	assert.True(t, drift.Clean())
}

func TestCornerEmptyFiles(t *testing.T) {
	p := New(t.TempDir())
	require.NoError(t, p.WriteFile("empty.txt", ""))
	require.NoError(t, p.WriteManifest("include empty.txt\n"))

	o, err := p.Resolve()
	require.NoError(t, err)
	require.Equal(t, []string{"empty.txt"}, o.Result.Selected)

	lockPath := filepath.Join(p.Root, "sdist.lock")
	lock, err := p.Lock(o, lockPath)
	require.NoError(t, err)
	require.Len(t, lock.Files, 1)
	assert.Zero(t, lock.Files[0].Size)
	assert.NotEmpty(t, lock.Files[0].Digest)
}

func TestCornerDeepNesting(t *testing.T) {
	p := New(t.TempDir())
	deep := strings.Repeat("d/", 20) + "leaf.yaml"
	require.NoError(t, p.WriteFile(deep, "x: 1\n"))
	require.NoError(t, p.WriteManifest("global-include *.yaml\n"))

	o, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{deep}, o.Result.Selected)

	out := filepath.Join(t.TempDir(), "deep-1.0.tar.gz")
	sum, err := archive.Create(
		p.Root, o.Result.Selected, out,
		archive.Options{
			Prefix: "deep-1.0",
			Format: archive.FormatGzip,
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Files)

	count, err := archive.Extract(out, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCornerVCSDirsSkipped(t *testing.T) {
	p := New(t.TempDir())
	require.NoError(t, p.WriteFile(".git/config", "[core]\n"))
	require.NoError(t, p.WriteFile(".hg/hgrc", ""))
	require.NoError(t, p.WriteFile("a.txt", "x"))
	require.NoError(t, p.WriteManifest("global-include *\n"))

	o, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"MANIFEST.in",
		"a.txt",
	}, o.Result.Selected)
}

func TestCornerGeneratedTree(t *testing.T) {
	p := New(t.TempDir())
	files := treegen.Generate(treegen.Options{
		Seed:   101,
		Dirs:   15,
		PerDir: 10,
	})
	require.NoError(t, p.WriteTree(files))
	require.NoError(t, p.WriteManifest(`global-include *.proto *.yaml
global-include *.csv
global-exclude *.bin
`))

	o, err := p.Resolve()
	require.NoError(t, err)

	for _, sel := range o.Result.Selected {
		assert.False(t, strings.HasSuffix(sel, ".bin"), sel)
	}
	for _, f := range files {
		switch filepath.Ext(f.Path) {
		case ".proto", ".yaml", ".csv":
			assert.Contains(t, o.Result.Selected, f.Path)
		}
	}

	if len(o.Result.Selected) == 0 {
		t.Skip("seed generated no matching files")
	}
	lockPath := filepath.Join(p.Root, "sdist.lock")
	lock, err := p.Lock(o, lockPath)
	require.NoError(t, err)
	assert.Len(t, lock.Files, len(o.Result.Selected))

	out := filepath.Join(
		t.TempDir(), fmt.Sprintf("gen-%d.tar.zst", 101),
	)
	sum, err := archive.Create(
		p.Root, o.Result.Selected, out,
		archive.Options{Prefix: "gen-101", Format: archive.FormatZstd},
	)
	require.NoError(t, err)
	assert.Equal(t, len(o.Result.Selected), sum.Files)

	entries, err := archive.List(out)
	require.NoError(t, err)
	assert.Len(t, entries, sum.Files)
}

func TestCornerDuplicateDirectives(t *testing.T) {
	p := New(t.TempDir())
	require.NoError(t, p.WriteFile("a.txt", "x"))
	require.NoError(t, p.WriteManifest(
		"include a.txt\ninclude a.txt\ninclude a.txt\n",
	))

	o, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, o.Result.Selected)
}
