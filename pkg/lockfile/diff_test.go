package lockfile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/distkit/sdist/pkg/filelist"
)

func TestDiff(t *testing.T) {
	locked := New(filelist.DigestSHA256, []filelist.Entry{
		{Path: "same.py", Size: 10, Mode: 0644, Digest: "aaa"},
		{Path: "changed.py", Size: 20, Mode: 0644, Digest: "bbb"},
		{Path: "removed.py", Size: 30, Mode: 0644, Digest: "ccc"},
	})
	current := []filelist.Entry{
		{Path: "same.py", Size: 10, Mode: 0644, Digest: "aaa"},
		{Path: "changed.py", Size: 20, Mode: 0644, Digest: "new"},
		{Path: "added.py", Size: 5, Mode: 0644, Digest: "ddd"},
	}

	drift := Diff(current, locked)
	assert.False(t, drift.Clean())
	assert.Empty(t, cmp.Diff(Drift{
		Added:   []string{"added.py"},
		Removed: []string{"removed.py"},
		Changed: []string{"changed.py"},
	}, drift))
}

func TestDiffIdentical(t *testing.T) {
	entries := []filelist.Entry{
		{Path: "a.py", Size: 1, Mode: 0644, Digest: "x"},
	}
	drift := Diff(entries, New(filelist.DigestSHA256, entries))
	assert.True(t, drift.Clean())
	assert.Nil(t, drift.Added)
	assert.Nil(t, drift.Removed)
	assert.Nil(t, drift.Changed)
}

func TestDiffDisjoint(t *testing.T) {
	locked := New(filelist.DigestSHA256, []filelist.Entry{
		{Path: "old.py", Digest: "x"},
	})
	drift := Diff([]filelist.Entry{
		{Path: "new.py", Digest: "y"},
	}, locked)
	assert.Equal(t, []string{"new.py"}, drift.Added)
	assert.Equal(t, []string{"old.py"}, drift.Removed)
	assert.Empty(t, drift.Changed)
}

func TestDiffModeChange(t *testing.T) {
	locked := New(filelist.DigestSHA256, []filelist.Entry{
		{Path: "run.sh", Size: 9, Mode: 0644, Digest: "x"},
	})
	drift := Diff([]filelist.Entry{
		{Path: "run.sh", Size: 9, Mode: 0755, Digest: "x"},
	}, locked)
	assert.Equal(t, []string{"run.sh"}, drift.Changed)
}

func TestDiffSizeChangeWithoutDigest(t *testing.T) {
	locked := New(filelist.DigestNone, []filelist.Entry{
		{Path: "a.txt", Size: 4, Mode: 0644},
	})
	drift := Diff([]filelist.Entry{
		{Path: "a.txt", Size: 5, Mode: 0644},
	}, locked)
	assert.Equal(t, []string{"a.txt"}, drift.Changed)
}

func TestDiffSorted(t *testing.T) {
	locked := New(filelist.DigestSHA256, nil)
	drift := Diff([]filelist.Entry{
		{Path: "z.py", Digest: "1"},
		{Path: "a.py", Digest: "2"},
		{Path: "m.py", Digest: "3"},
	}, locked)
	assert.Equal(t, []string{"a.py", "m.py", "z.py"}, drift.Added)
}
