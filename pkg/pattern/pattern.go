package pattern

import (
	"fmt"
	"regexp"
)

type Mode int

const (
	Anchored Mode = iota
	Suffix
	Prefix
)

func (m Mode) String() string {
	switch m {
	case Anchored:
		return "anchored"
	case Suffix:
		return "suffix"
	case Prefix:
		return "prefix"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

type Pattern struct {
	src  string
	mode Mode
	re   *regexp.Regexp
}

func Compile(pat string, mode Mode) (*Pattern, error) {
	inner, err := Translate(pat)
	if err != nil {
		return nil, err
	}

	var expr string
	switch mode {
	case Anchored, Prefix:
		expr = `\A(?:` + inner + `)\z`
	case Suffix:
		expr = `(?:\A|/)(?:` + inner + `)\z`
	default:
		return nil, fmt.Errorf("unknown match mode %d", int(mode))
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pat, err)
	}
	return &Pattern{src: pat, mode: mode, re: re}, nil
}

func MustCompile(pat string, mode Mode) *Pattern {
	p, err := Compile(pat, mode)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) Match(rel string) bool {
	if p.mode == Prefix {
		_, ok := p.Trim(rel)
		return ok
	}
	return p.re.MatchString(rel)
}

// Trim strips the directory prefix matched by a Prefix-mode pattern
// and returns the remainder. The match must end on a component
// boundary, so rel itself never qualifies: a directory pattern only
// selects entries strictly below the matched directory.
func (p *Pattern) Trim(rel string) (string, bool) {
	if p.mode != Prefix {
		return "", false
	}
	for i := 0; i < len(rel); i++ {
		if rel[i] != '/' {
			continue
		}
		if p.re.MatchString(rel[:i]) {
			return rel[i+1:], true
		}
	}
	return "", false
}

func (p *Pattern) String() string {
	return p.src
}

func (p *Pattern) Mode() Mode {
	return p.mode
}
