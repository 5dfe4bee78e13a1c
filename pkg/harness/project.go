package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/distkit/sdist/pkg/check"
	"github.com/distkit/sdist/pkg/distmeta"
	"github.com/distkit/sdist/pkg/filelist"
	"github.com/distkit/sdist/pkg/lockfile"
	"github.com/distkit/sdist/pkg/manifest"
	"github.com/distkit/sdist/pkg/treegen"
)

// Project is a scratch source tree driven through the same pipeline
// the CLI runs: manifest parse, walk, resolve, check, lock, pack.
type Project struct {
	Root string
}

func New(root string) *Project {
	return &Project{Root: root}
}

func (p *Project) WriteFile(rel, content string) error {
	full := filepath.Join(p.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0644)
}

func (p *Project) WriteTree(files []treegen.File) error {
	return treegen.Write(p.Root, files)
}

func (p *Project) WriteManifest(src string) error {
	return p.WriteFile("MANIFEST.in", src)
}

func (p *Project) WriteConfig(src string) error {
	return p.WriteFile(distmeta.DefaultName, src)
}

// Outcome is one pipeline pass over the project.
type Outcome struct {
	Meta     *distmeta.Meta
	Manifest *manifest.Manifest
	Tree     []string
	Result   *filelist.Result
}

// Resolve loads MANIFEST.in and dist.toml (defaults when absent),
// walks the tree, and resolves the directives against it.
func (p *Project) Resolve() (*Outcome, error) {
	meta, err := loadMeta(
		filepath.Join(p.Root, distmeta.DefaultName),
	)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(filepath.Join(p.Root, "MANIFEST.in"))
	if err != nil {
		return nil, err
	}

	tree, err := filelist.Walk(p.Root, filelist.WalkOptions{
		Exclude: meta.Walk.Exclude,
	})
	if err != nil {
		return nil, err
	}

	res, err := filelist.Resolve(tree, m)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Meta:     meta,
		Manifest: m,
		Tree:     tree,
		Result:   res,
	}, nil
}

func (o *Outcome) Check() (*check.Report, error) {
	return check.Run(
		o.Manifest, o.Result, o.Tree, o.Meta.Check.Required,
	)
}

func (p *Project) Lock(o *Outcome, path string) (*lockfile.Lock, error) {
	entries, err := filelist.Annotate(
		p.Root, o.Result.Selected, o.Meta.Lock.Digest,
	)
	if err != nil {
		return nil, err
	}
	l := lockfile.New(o.Meta.Lock.Digest, entries)
	if err := lockfile.Write(path, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (p *Project) Drift(o *Outcome, lockPath string) (lockfile.Drift, error) {
	locked, err := lockfile.Load(lockPath)
	if err != nil {
		return lockfile.Drift{}, err
	}
	entries, err := filelist.Annotate(
		p.Root, o.Result.Selected, locked.Digest,
	)
	if err != nil {
		return lockfile.Drift{}, err
	}
	return lockfile.Diff(entries, locked), nil
}

func loadMeta(path string) (*distmeta.Meta, error) {
	meta, err := distmeta.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return distmeta.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return meta, nil
}
