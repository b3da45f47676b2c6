package docschema

import (
	"strings"
)

// TableMarker is the header cell introducing a member table.
const TableMarker = "- Description"

// a table cell line ("- value"), as found in a list-table row
func cellValue(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "-") {
		return "", false
	}
	return strings.TrimSpace(t[1:]), true
}

// a row line ("* - ``name``") starts a new member; emphasis such as
// "*n* is the index" does not
func isRowStart(line string) bool {
	t := strings.TrimSpace(line)
	return t == "*" || strings.HasPrefix(t, "* -") || strings.HasPrefix(t, "*\t-")
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// nextContent returns the index of the first non-blank line at or after i.
func nextContent(lines []string, i int) int {
	for i < len(lines) && isBlank(lines[i]) {
		i++
	}
	return i
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// parseMember consumes one member block starting at the name line
// lines[i] and returns the member along with the index of the next
// unconsumed line.
//
// A block is: a name line carrying the name between ``...``, a
// multiplicity cell, a type cell, and zero or more description lines
// ending at the next row. A blank line ends the description unless the
// following line is indented past the cell markers, in which case it
// continues the same cell as another paragraph.
func parseMember(file string, lines []string, i int) (Member, int, error) {
	parts := strings.Split(lines[i], "``")
	if !isRowStart(lines[i]) || len(parts) < 3 || strings.TrimSpace(parts[1]) == "" {
		return Member{}, i, &ParseError{File: file, Line: i + 1, Msg: "expected member name line, got: " + strings.TrimSpace(lines[i])}
	}
	name := strings.TrimSpace(parts[1])

	cell := func(j int, what string) (string, error) {
		if j >= len(lines) || isBlank(lines[j]) || isRowStart(lines[j]) {
			return "", &ParseError{File: file, Line: j + 1, Member: name, Msg: "missing " + what + " line"}
		}
		v, ok := cellValue(lines[j])
		if !ok {
			return "", &ParseError{File: file, Line: j + 1, Member: name, Msg: "malformed " + what + " line"}
		}
		return v, nil
	}

	mult, err := cell(i+1, "multiplicity")
	if err != nil {
		return Member{}, i, err
	}
	rawType, err := cell(i+2, "type")
	if err != nil {
		return Member{}, i, err
	}

	kind, ref, err := NormalizeType(rawType)
	if err != nil {
		if ute, ok := err.(*UnknownTypeError); ok {
			ute.Member, ute.File, ute.Line = name, file, i+3
		}
		return Member{}, i, err
	}

	cellIndent := indentOf(lines[i+1])
	var desc []string
	j := i + 3
	for ; j < len(lines) && !isRowStart(lines[j]); j++ {
		if isBlank(lines[j]) {
			k := nextContent(lines, j)
			if j == i+3 || k >= len(lines) || isRowStart(lines[k]) || indentOf(lines[k]) <= cellIndent {
				break
			}
			j = k
		}
		l := strings.TrimSpace(lines[j])
		if j == i+3 {
			if v, ok := cellValue(l); ok {
				l = v
			}
		}
		if l != "" {
			desc = append(desc, l)
		}
	}

	m := Member{
		Name:     name,
		Type:     kind,
		Ref:      ref,
		Optional: strings.HasPrefix(mult, "0.."),
		line:     i + 1,
	}
	if d := strings.TrimSpace(strings.Join(desc, " ")); d != "" {
		m.Description = &d
	}
	return m, j, nil
}

// parseTable reads member blocks starting at lines[i]. Blank lines
// between rows are skipped; the table ends at the first other line or the
// end of input. Member order equals table order.
func parseTable(file string, lines []string, i int) ([]Member, int, error) {
	var out []Member
	for i < len(lines) && !isBlank(lines[i]) {
		m, next, err := parseMember(file, lines, i)
		if err != nil {
			return nil, i, err
		}
		out = append(out, m)
		i = next
		if k := nextContent(lines, i); k < len(lines) && isRowStart(lines[k]) {
			i = k
		}
	}
	if len(out) == 0 {
		return nil, i, &ParseError{File: file, Line: i + 1, Msg: "member table has no rows"}
	}
	return out, i, nil
}

// checkTableEnd fails if a member row appears in lines[i:] after the
// table has ended, since its member would otherwise be lost.
func checkTableEnd(file string, lines []string, i int) error {
	for ; i < len(lines); i++ {
		if !isRowStart(lines[i]) {
			continue
		}
		if parts := strings.Split(lines[i], "``"); len(parts) >= 3 {
			return &ParseError{File: file, Line: i + 1, Member: strings.TrimSpace(parts[1]), Msg: "member row outside of the member table"}
		}
	}
	return nil
}
