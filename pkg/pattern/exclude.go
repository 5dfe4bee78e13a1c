package pattern

import "strings"

func CompileAuto(pat string) (*Pattern, error) {
	mode := Suffix
	if strings.Contains(pat, "/") {
		mode = Anchored
	}
	return Compile(pat, mode)
}

type Excludes struct {
	patterns []*Pattern
}

func CompileExcludes(pats []string) (*Excludes, error) {
	e := &Excludes{}
	for _, raw := range pats {
		pat := strings.TrimSuffix(raw, "/")
		if pat == "" {
			continue
		}
		p, err := CompileAuto(pat)
		if err != nil {
			return nil, err
		}
		e.patterns = append(e.patterns, p)
	}
	return e, nil
}

func (e *Excludes) Match(rel string) bool {
	for _, p := range e.patterns {
		if p.Match(rel) {
			return true
		}
	}
	return false
}
