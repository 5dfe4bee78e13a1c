package filelist

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/distkit/sdist/pkg/pattern"
)

var vcsDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

type WalkOptions struct {
	Exclude []string
}

func Walk(root string, opts WalkOptions) ([]string, error) {
	matcher, err := pattern.CompileExcludes(opts.Exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(
		root,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if rel == "." {
				return nil
			}
			if d.IsDir() && vcsDirs[d.Name()] {
				return filepath.SkipDir
			}
			if matcher.Match(rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			files = append(files, rel)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
