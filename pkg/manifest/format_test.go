package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	m, err := Parse(
		strings.NewReader("include   README.md\ngraft docs/\n"),
		"MANIFEST.in",
	)
	require.NoError(t, err)
	assert.Equal(t, "include README.md\ngraft docs\n", m.Format())
}

func TestFormatEmpty(t *testing.T) {
	m := &Manifest{Path: "MANIFEST.in"}
	assert.Equal(t, "", m.Format())
}

func TestCanonical(t *testing.T) {
	src := []byte(
		"# header comment\n" +
			"\n" +
			"include\tREADME.md    LICENSE\n" +
			"   # indented comment   \n" +
			"recursive-include  data/  *.csv\n",
	)
	got, err := Canonical(src, "MANIFEST.in")
	require.NoError(t, err)
	assert.Equal(
		t,
		"# header comment\n"+
			"\n"+
			"include README.md LICENSE\n"+
			"# indented comment\n"+
			"recursive-include data *.csv\n",
		string(got),
	)
}

func TestCanonicalIdempotent(t *testing.T) {
	src := []byte("# keep\ninclude README.md\n\ngraft docs\n")
	once, err := Canonical(src, "MANIFEST.in")
	require.NoError(t, err)
	twice, err := Canonical(once, "MANIFEST.in")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestCanonicalNoTrailingNewline(t *testing.T) {
	got, err := Canonical([]byte("include  README.md"), "MANIFEST.in")
	require.NoError(t, err)
	assert.Equal(t, "include README.md\n", string(got))
}

func TestCanonicalEmpty(t *testing.T) {
	got, err := Canonical(nil, "MANIFEST.in")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCanonicalBadLine(t *testing.T) {
	_, err := Canonical(
		[]byte("include README.md\nbogus stuff\n"),
		"MANIFEST.in",
	)
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}
