package engine

import "github.com/dlclark/regexp2"

// captureOrder lists the capture groups of pattern in the order their
// opening parentheses appear: the group name, or "" for an unnamed group.
//
// regexp2 numbers unnamed groups before named ones, while a RegExp numbers
// every group by position. The order lets groupsOf restore positional
// numbering for patterns that mix both kinds.
func captureOrder(pattern string) []string {
	var order []string
	rs := []rune(pattern)
	inClass := false

	for i := 0; i < len(rs); i++ {
		switch c := rs[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			if i+1 < len(rs) && rs[i+1] == '?' {
				// (?<name>...) captures; (?:...), (?=...), (?<=...) and friends do not.
				if i+3 < len(rs) && rs[i+2] == '<' && rs[i+3] != '=' && rs[i+3] != '!' {
					if end := indexRune(rs[i+3:], '>'); end >= 0 {
						order = append(order, string(rs[i+3:i+3+end]))
					}
				}
				continue
			}
			order = append(order, "")
		}
	}
	return order
}

// groupsOf returns the groups of m numbered by position in the pattern.
// It falls back to regexp2's numbering when the order does not line up
// with the groups regexp2 reports.
func (r *Regex) groupsOf(m *regexp2.Match) []regexp2.Group {
	groups := m.Groups()
	if r.order == nil || len(r.order) != len(groups)-1 {
		return groups
	}

	ordered := make([]regexp2.Group, len(groups))
	ordered[0] = groups[0]
	unnamed := 1
	for i, name := range r.order {
		var g *regexp2.Group
		if name == "" {
			g = m.GroupByNumber(unnamed)
			unnamed++
		} else {
			g = m.GroupByName(name)
		}
		if g == nil {
			return groups
		}
		ordered[i+1] = *g
	}
	return ordered
}
