package engine

// Split implements String.prototype.split(regex) without a limit.
//
// The g and y flags are ignored, as in JavaScript. Capture groups of each
// separator are spliced into the result; groups that did not participate
// come back with Matched set to false.
func (r *Regex) Split(s string) ([]Group, error) {
	text := []rune(s)
	size := len(text)

	if size == 0 {
		m, err := r.search(text, 0)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return []Group{}, nil
		}
		return []Group{{Matched: true}}, nil
	}

	var parts []Group
	p, q := 0, 0
	for q < size {
		m, err := r.search(text, q)
		if err != nil {
			return nil, err
		}
		if m == nil || m.Index >= size {
			break
		}

		q = m.Index
		end := m.Index + m.Length
		if end == p {
			q++
			continue
		}

		parts = append(parts, Group{Value: string(text[p:q]), Matched: true})
		groups := r.groupsOf(m)
		for i := 1; i < len(groups); i++ {
			parts = append(parts, toGroup(groups[i], false))
		}
		p = end
		q = p
	}

	parts = append(parts, Group{Value: string(text[p:]), Matched: true})
	return parts, nil
}
