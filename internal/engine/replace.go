package engine

import (
	"strings"
)

// Replace implements String.prototype.replace(regex, template).
// A global pattern replaces every match, any other pattern only the first.
func (r *Regex) Replace(s, template string) (string, error) {
	return r.replace([]rune(s), template)
}

// ReplaceAll implements String.prototype.replaceAll(regex, template).
// It returns ErrNonGlobalReplaceAll for patterns without the g flag.
func (r *Regex) ReplaceAll(s, template string) (string, error) {
	if !r.flags.Global {
		return "", ErrNonGlobalReplaceAll
	}
	return r.replace([]rune(s), template)
}

func (r *Regex) replace(text []rune, template string) (string, error) {
	var matches []Match
	if r.flags.Global {
		all, err := r.execAll(text)
		if err != nil {
			return "", err
		}
		matches = all
	} else {
		m, err := r.exec(text, 0)
		if err != nil {
			return "", err
		}
		if m != nil {
			matches = append(matches, *m)
		}
	}

	if len(matches) == 0 {
		return string(text), nil
	}

	tmpl := []rune(template)
	var sb strings.Builder
	next := 0
	for i := range matches {
		m := &matches[i]
		if m.Index < next {
			continue
		}
		sb.WriteString(string(text[next:m.Index]))
		r.substitute(&sb, text, m, tmpl)
		next = m.End
	}
	sb.WriteString(string(text[next:]))

	return sb.String(), nil
}

// substitute expands a replacement template for one match:
// $$, $&, $`, $', $n, $nn and $<name>. Anything else is copied literally.
func (r *Regex) substitute(sb *strings.Builder, text []rune, m *Match, tmpl []rune) {
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 >= len(tmpl) {
			sb.WriteRune(c)
			continue
		}

		switch next := tmpl[i+1]; {
		case next == '$':
			sb.WriteRune('$')
			i++
		case next == '&':
			sb.WriteString(m.Groups[0].Value)
			i++
		case next == '`':
			sb.WriteString(string(text[:m.Index]))
			i++
		case next == '\'':
			sb.WriteString(string(text[m.End:]))
			i++
		case isDigit(next):
			consumed, value, ok := captureRef(tmpl[i+1:], m)
			if !ok {
				sb.WriteRune('$')
				continue
			}
			sb.WriteString(value)
			i += consumed
		case next == '<':
			if !r.named {
				sb.WriteRune('$')
				continue
			}
			end := indexRune(tmpl[i+2:], '>')
			if end < 0 {
				sb.WriteRune('$')
				continue
			}
			if g, ok := m.group(string(tmpl[i+2 : i+2+end])); ok && g.Matched {
				sb.WriteString(g.Value)
			}
			i += 2 + end
		default:
			sb.WriteRune('$')
		}
	}
}

// captureRef resolves $n or $nn. digits starts at the first digit.
// A two-digit reference wins when that group exists; otherwise a single
// digit is used and the second digit stays literal. $0 and $00 are literal.
func captureRef(digits []rune, m *Match) (int, string, bool) {
	count := len(m.Groups) - 1
	first := int(digits[0] - '0')

	if len(digits) > 1 && isDigit(digits[1]) {
		n := first*10 + int(digits[1]-'0')
		if n >= 1 && n <= count {
			return 2, m.Groups[n].Value, true
		}
	}
	if first >= 1 && first <= count {
		return 1, m.Groups[first].Value, true
	}
	return 0, "", false
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func indexRune(s []rune, c rune) int {
	for i, r := range s {
		if r == c {
			return i
		}
	}
	return -1
}
