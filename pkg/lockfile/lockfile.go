package lockfile

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/distkit/sdist/pkg/filelist"
	"github.com/distkit/sdist/pkg/paths"
)

const (
	Version     = 1
	DefaultName = "sdist.lock"
)

type Lock struct {
	Version int                `yaml:"version"`
	Digest  filelist.DigestAlg `yaml:"digest,omitempty"`
	Files   []filelist.Entry   `yaml:"files"`
}

func New(alg filelist.DigestAlg, entries []filelist.Entry) *Lock {
	files := make([]filelist.Entry, len(entries))
	copy(files, entries)
	sortEntries(files)
	return &Lock{Version: Version, Digest: alg, Files: files}
}

func Write(path string, l *Lock) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode lock: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l Lock
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if l.Version != Version {
		return nil, fmt.Errorf(
			"%s: unsupported lock version %d", path, l.Version,
		)
	}
	if _, err := filelist.ParseDigestAlg(string(l.Digest)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, e := range l.Files {
		if err := paths.ValidateRel(e.Path); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	sortEntries(l.Files)
	return &l, nil
}

func sortEntries(entries []filelist.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
}
