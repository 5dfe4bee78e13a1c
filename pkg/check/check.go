package check

import (
	"fmt"

	"github.com/distkit/sdist/pkg/filelist"
	"github.com/distkit/sdist/pkg/manifest"
	"github.com/distkit/sdist/pkg/pattern"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Kind string

const (
	KindEmptyDirective    Kind = "empty-directive"
	KindUselessExclude    Kind = "useless-exclude"
	KindUnmatchedRequired Kind = "unmatched-required"
	KindUncoveredFile     Kind = "uncovered-file"
	KindEmptySelection    Kind = "empty-selection"
)

type Problem struct {
	Kind      Kind     `json:"kind"`
	Severity  Severity `json:"severity"`
	Line      int      `json:"line,omitempty"`
	Directive string   `json:"directive,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Path      string   `json:"path,omitempty"`
	Message   string   `json:"message"`
}

type Report struct {
	ManifestPath   string    `json:"manifest"`
	FileCount      int       `json:"files"`
	DirectiveCount int       `json:"directives"`
	SelectedCount  int       `json:"selected"`
	Problems       []Problem `json:"problems,omitempty"`
}

func Run(
	m *manifest.Manifest,
	res *filelist.Result,
	tree []string,
	required []string,
) (*Report, error) {
	r := &Report{
		ManifestPath:   m.Path,
		FileCount:      len(tree),
		DirectiveCount: len(m.Directives),
		SelectedCount:  len(res.Selected),
	}

	for _, st := range res.Stats {
		d := st.Directive
		switch {
		case st.Matched == 0:
			r.Problems = append(r.Problems, Problem{
				Kind:      KindEmptyDirective,
				Severity:  SeverityWarning,
				Line:      d.Line,
				Directive: d.String(),
				Message: fmt.Sprintf(
					"%q matches no files", d.String(),
				),
			})
		case d.Kind.Excludes() && st.Effective == 0:
			r.Problems = append(r.Problems, Problem{
				Kind:      KindUselessExclude,
				Severity:  SeverityWarning,
				Line:      d.Line,
				Directive: d.String(),
				Message: fmt.Sprintf(
					"%q excludes nothing that another directive includes",
					d.String(),
				),
			})
		}
	}

	selected := make(map[string]bool, len(res.Selected))
	for _, f := range res.Selected {
		selected[f] = true
	}
	for _, req := range required {
		p, err := pattern.CompileAuto(req)
		if err != nil {
			return nil, fmt.Errorf(
				"required pattern %q: %w", req, err,
			)
		}
		matched := false
		for _, f := range tree {
			if !p.Match(f) {
				continue
			}
			matched = true
			if !selected[f] {
				r.Problems = append(r.Problems, Problem{
					Kind:     KindUncoveredFile,
					Severity: SeverityError,
					Pattern:  req,
					Path:     f,
					Message: fmt.Sprintf(
						"%s is required by %q but no directive selects it",
						f, req,
					),
				})
			}
		}
		if !matched {
			r.Problems = append(r.Problems, Problem{
				Kind:     KindUnmatchedRequired,
				Severity: SeverityError,
				Pattern:  req,
				Message: fmt.Sprintf(
					"required pattern %q matches no files in the tree",
					req,
				),
			})
		}
	}

	if len(res.Selected) == 0 {
		r.Problems = append(r.Problems, Problem{
			Kind:     KindEmptySelection,
			Severity: SeverityError,
			Message:  "manifest selects no files",
		})
	}

	return r, nil
}

func (r *Report) Count(sev Severity) int {
	n := 0
	for _, p := range r.Problems {
		if p.Severity == sev {
			n++
		}
	}
	return n
}

func (r *Report) Failed(strict bool) bool {
	if r.Count(SeverityError) > 0 {
		return true
	}
	return strict && r.Count(SeverityWarning) > 0
}
