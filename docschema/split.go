package docschema

import (
	"strings"
)

// Section is one class boundary found in a document.
type Section struct {
	Title     string
	Name      string
	Reference string
	Parent    string
	Depth     int
	// Line is the index of the delimiter line under the title.
	Line int
	// End is the index one past the last line of the section body.
	End int
}

// reports whether line consists solely of the repeated delimiter
// character, at least as long as the delimiter sequence
func isUnderline(line, delim string) bool {
	t := strings.TrimRight(line, " \t\r\n")
	if delim == "" || len(t) < len(delim) {
		return false
	}
	return strings.Trim(t, delim[:1]) == ""
}

// returns the reference key of a ".. _key:" anchor line
func anchorKey(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, ".. _") || !strings.HasSuffix(t, ":") {
		return "", false
	}
	return strings.TrimSuffix(t[len(".. _"):], ":"), true
}

// SplitSections finds class boundaries in a document. delims is indexed by
// nesting depth: delims[0] marks top-level classes, delims[1] subsections
// and so on.
//
// A boundary is a delimiter line directly under a non-blank title line.
// A subsection is attached to the most recently opened class one level up.
func SplitSections(file string, lines []string, delims []string) ([]Section, error) {
	var out []Section
	// open ancestors, indexed by depth
	var open []string

	for i := 1; i < len(lines); i++ {
		depth := -1
		for d, delim := range delims {
			if isUnderline(lines[i], delim) {
				depth = d
				break
			}
		}
		if depth < 0 {
			continue
		}
		title := strings.TrimSpace(lines[i-1])
		if title == "" || isUnderline(lines[i-1], delims[depth]) {
			continue
		}

		name := ClassName(title)
		if name == "" {
			return nil, &ParseError{File: file, Line: i, Msg: "section title does not yield a class name: " + title}
		}
		if depth > len(open) {
			return nil, &ParseError{File: file, Line: i + 1, Msg: "subsection " + name + " has no enclosing class"}
		}

		sec := Section{
			Title: title,
			Name:  name,
			Depth: depth,
			Line:  i,
			End:   len(lines),
		}
		if depth > 0 {
			sec.Parent = open[depth-1]
		}
		open = append(open[:depth], name)

		// an anchor is the nearest non-blank line above the title
		for j := i - 2; j >= 0; j-- {
			if isBlank(lines[j]) {
				continue
			}
			if key, ok := anchorKey(lines[j]); ok {
				sec.Reference = key
			}
			break
		}

		if n := len(out); n > 0 {
			out[n-1].End = i - 1
		}
		out = append(out, sec)
	}
	return out, nil
}

// TableStart returns the index of the first member line of a section's
// table, the line after the TableMarker header cell.
func (s *Section) TableStart(file string, lines []string) (int, error) {
	for i := s.Line + 1; i < s.End; i++ {
		if strings.TrimSpace(lines[i]) != TableMarker {
			continue
		}
		i++
		for i < s.End && isBlank(lines[i]) {
			i++
		}
		return i, nil
	}
	return 0, &ParseError{File: file, Line: s.Line, Msg: "class " + s.Name + " has no member table (missing \"" + TableMarker + "\" line)"}
}
