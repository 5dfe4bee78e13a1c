package manifest

import "strings"

type Kind string

const (
	KindInclude          Kind = "include"
	KindExclude          Kind = "exclude"
	KindRecursiveInclude Kind = "recursive-include"
	KindRecursiveExclude Kind = "recursive-exclude"
	KindGlobalInclude    Kind = "global-include"
	KindGlobalExclude    Kind = "global-exclude"
	KindGraft            Kind = "graft"
	KindPrune            Kind = "prune"
)

func (k Kind) Valid() bool {
	switch k {
	case KindInclude, KindExclude,
		KindRecursiveInclude, KindRecursiveExclude,
		KindGlobalInclude, KindGlobalExclude,
		KindGraft, KindPrune:
		return true
	}
	return false
}

func (k Kind) Includes() bool {
	switch k {
	case KindInclude, KindRecursiveInclude,
		KindGlobalInclude, KindGraft:
		return true
	}
	return false
}

func (k Kind) Excludes() bool {
	return k.Valid() && !k.Includes()
}

func (k Kind) HasDir() bool {
	switch k {
	case KindRecursiveInclude, KindRecursiveExclude,
		KindGraft, KindPrune:
		return true
	}
	return false
}

type Directive struct {
	Kind     Kind
	Dir      string
	Patterns []string
	Line     int
}

func (d Directive) String() string {
	parts := make([]string, 0, len(d.Patterns)+2)
	parts = append(parts, string(d.Kind))
	if d.Kind.HasDir() {
		parts = append(parts, d.Dir)
	}
	parts = append(parts, d.Patterns...)
	return strings.Join(parts, " ")
}

type Manifest struct {
	Path       string
	Directives []Directive
}
