package filelist

import (
	"fmt"
	"sort"

	"github.com/distkit/sdist/pkg/manifest"
	"github.com/distkit/sdist/pkg/pattern"
)

type DirectiveStat struct {
	Directive manifest.Directive
	Matched   int
	Effective int
}

type Result struct {
	Selected []string
	Stats    []DirectiveStat
}

func Resolve(tree []string, m *manifest.Manifest) (*Result, error) {
	matchers := make([]matcher, len(m.Directives))
	stats := make([]DirectiveStat, len(m.Directives))
	for i, d := range m.Directives {
		fn, err := compileDirective(d)
		if err != nil {
			return nil, fmt.Errorf(
				"line %d: %s: %w", d.Line, d.Kind, err,
			)
		}
		matchers[i] = fn
		stats[i].Directive = d
	}

	selected := make([]string, 0, len(tree))
	scratch := make([]int, 0, len(matchers))
	for _, f := range tree {
		scratch = scratch[:0]
		inc, exc := false, false
		for i, match := range matchers {
			if match(f) {
				scratch = append(scratch, i)
				if m.Directives[i].Kind.Includes() {
					inc = true
				} else {
					exc = true
				}
			}
		}
		for _, i := range scratch {
			stats[i].Matched++
			kind := m.Directives[i].Kind
			if kind.Includes() && !exc {
				stats[i].Effective++
			}
			if kind.Excludes() && inc {
				stats[i].Effective++
			}
		}
		if inc && !exc {
			selected = append(selected, f)
		}
	}
	sort.Strings(selected)

	return &Result{Selected: selected, Stats: stats}, nil
}

type matcher func(rel string) bool

func compileDirective(d manifest.Directive) (matcher, error) {
	switch d.Kind {
	case manifest.KindInclude, manifest.KindExclude:
		pats, err := compileAll(d.Patterns, pattern.Anchored)
		if err != nil {
			return nil, err
		}
		return anyOf(pats), nil
	case manifest.KindGlobalInclude, manifest.KindGlobalExclude:
		pats, err := compileAll(d.Patterns, pattern.Suffix)
		if err != nil {
			return nil, err
		}
		return anyOf(pats), nil
	case manifest.KindRecursiveInclude, manifest.KindRecursiveExclude:
		dirPat, err := pattern.Compile(d.Dir, pattern.Prefix)
		if err != nil {
			return nil, err
		}
		pats, err := compileAll(d.Patterns, pattern.Suffix)
		if err != nil {
			return nil, err
		}
		under := anyOf(pats)
		return func(rel string) bool {
			rest, ok := dirPat.Trim(rel)
			if !ok {
				return false
			}
			return under(rest)
		}, nil
	case manifest.KindGraft, manifest.KindPrune:
		dirPat, err := pattern.Compile(d.Dir, pattern.Prefix)
		if err != nil {
			return nil, err
		}
		return dirPat.Match, nil
	}
	return nil, fmt.Errorf("unknown directive %q", d.Kind)
}

func compileAll(
	pats []string,
	mode pattern.Mode,
) ([]*pattern.Pattern, error) {
	out := make([]*pattern.Pattern, len(pats))
	for i, p := range pats {
		compiled, err := pattern.Compile(p, mode)
		if err != nil {
			return nil, err
		}
		out[i] = compiled
	}
	return out, nil
}

func anyOf(pats []*pattern.Pattern) matcher {
	return func(rel string) bool {
		for _, p := range pats {
			if p.Match(rel) {
				return true
			}
		}
		return false
	}
}
