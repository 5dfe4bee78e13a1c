package manifest

import "strings"

func (m *Manifest) Format() string {
	if len(m.Directives) == 0 {
		return ""
	}
	var b strings.Builder
	for _, d := range m.Directives {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func Canonical(src []byte, name string) ([]byte, error) {
	lines := strings.Split(string(src), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	out := make([]string, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			out = append(out, line)
			continue
		}
		d, err := parseLine(name, i+1, line)
		if err != nil {
			return nil, err
		}
		out = append(out, d.String())
	}
	if len(out) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(out, "\n") + "\n"), nil
}
