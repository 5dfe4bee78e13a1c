package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

func Translate(pat string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(pat) {
		switch c := pat[i]; c {
		case '*':
			if strings.HasPrefix(pat[i:], "**/") {
				b.WriteString(`(?:.*/)?`)
				i += 3
			} else if strings.HasPrefix(pat[i:], "**") {
				b.WriteString(`.*`)
				i += 2
			} else {
				b.WriteString(`[^/]*`)
				i++
			}
		case '?':
			b.WriteString(`[^/]`)
			i++
		case '[':
			n, err := translateClass(&b, pat, i)
			if err != nil {
				return "", err
			}
			i = n
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String(), nil
}

func translateClass(
	b *strings.Builder,
	pat string,
	start int,
) (int, error) {
	j := start + 1
	negated := false
	if j < len(pat) && (pat[j] == '!' || pat[j] == '^') {
		negated = true
		j++
	}
	if j < len(pat) && pat[j] == ']' {
		j++
	}
	for j < len(pat) && pat[j] != ']' {
		j++
	}
	if j >= len(pat) {
		return 0, fmt.Errorf(
			"pattern %q: unterminated character class", pat,
		)
	}

	body := pat[start+1 : j]
	if negated {
		body = body[1:]
	}
	if strings.Contains(body, "/") {
		return 0, fmt.Errorf(
			"pattern %q: character class may not contain '/'", pat,
		)
	}

	b.WriteByte('[')
	if negated {
		b.WriteByte('^')
	}
	for k := 0; k < len(body); k++ {
		switch body[k] {
		case '\\', ']', '^':
			b.WriteByte('\\')
		}
		b.WriteByte(body[k])
	}
	b.WriteByte(']')
	return j + 1, nil
}
