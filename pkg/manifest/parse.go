package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/distkit/sdist/pkg/paths"
	"github.com/distkit/sdist/pkg/pattern"
)

type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

func Parse(r io.Reader, name string) (*Manifest, error) {
	m := &Manifest{Path: name}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d, err := parseLine(name, lineNo, line)
		if err != nil {
			return nil, err
		}
		m.Directives = append(m.Directives, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return m, nil
}

func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

func parseLine(
	name string,
	lineNo int,
	line string,
) (Directive, error) {
	fields := strings.Fields(line)
	kind := Kind(fields[0])
	args := fields[1:]
	if !kind.Valid() {
		return Directive{}, &ParseError{
			Path: name,
			Line: lineNo,
			Msg:  fmt.Sprintf("unknown directive %q", fields[0]),
		}
	}

	d := Directive{Kind: kind, Line: lineNo}
	switch {
	case kind == KindGraft || kind == KindPrune:
		if len(args) != 1 {
			return Directive{}, &ParseError{
				Path: name,
				Line: lineNo,
				Msg: fmt.Sprintf(
					"%s requires exactly one directory", kind,
				),
			}
		}
		d.Dir = strings.TrimSuffix(args[0], "/")
	case kind.HasDir():
		if len(args) < 2 {
			return Directive{}, &ParseError{
				Path: name,
				Line: lineNo,
				Msg: fmt.Sprintf(
					"%s requires a directory and at least one pattern",
					kind,
				),
			}
		}
		d.Dir = strings.TrimSuffix(args[0], "/")
		d.Patterns = args[1:]
	default:
		if len(args) < 1 {
			return Directive{}, &ParseError{
				Path: name,
				Line: lineNo,
				Msg: fmt.Sprintf(
					"%s requires at least one pattern", kind,
				),
			}
		}
		d.Patterns = args
	}

	if err := vetDirective(d); err != nil {
		return Directive{}, &ParseError{
			Path: name,
			Line: lineNo,
			Msg:  fmt.Sprintf("%s: %v", kind, err),
		}
	}
	return d, nil
}

func vetDirective(d Directive) error {
	if d.Kind.HasDir() {
		if err := vetPattern(d.Dir, pattern.Prefix); err != nil {
			return err
		}
	}
	mode := pattern.Anchored
	switch d.Kind {
	case KindGlobalInclude, KindGlobalExclude,
		KindRecursiveInclude, KindRecursiveExclude:
		mode = pattern.Suffix
	}
	for _, p := range d.Patterns {
		if err := vetPattern(p, mode); err != nil {
			return err
		}
	}
	return nil
}

func vetPattern(p string, mode pattern.Mode) error {
	if err := paths.ValidatePattern(p); err != nil {
		return err
	}
	if _, err := pattern.Compile(p, mode); err != nil {
		return fmt.Errorf("bad pattern %q: %w", p, err)
	}
	return nil
}
