package lockfile

import (
	"sort"

	"github.com/distkit/sdist/pkg/filelist"
)

type Drift struct {
	Added   []string
	Removed []string
	Changed []string
}

func (d Drift) Clean() bool {
	return len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Changed) == 0
}

func Diff(current []filelist.Entry, locked *Lock) Drift {
	have := make(map[string]filelist.Entry, len(current))
	for _, e := range current {
		have[e.Path] = e
	}
	want := make(map[string]filelist.Entry, len(locked.Files))
	for _, e := range locked.Files {
		want[e.Path] = e
	}

	var drift Drift
	for path, cur := range have {
		rec, exists := want[path]
		if !exists {
			drift.Added = append(drift.Added, path)
			continue
		}
		if cur.Digest != rec.Digest ||
			cur.Size != rec.Size ||
			cur.Mode != rec.Mode {
			drift.Changed = append(drift.Changed, path)
		}
	}
	for path := range want {
		if _, exists := have[path]; !exists {
			drift.Removed = append(drift.Removed, path)
		}
	}

	sort.Strings(drift.Added)
	sort.Strings(drift.Removed)
	sort.Strings(drift.Changed)
	return drift
}
