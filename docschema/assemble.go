package docschema

import (
	"fmt"
	"slices"
	"strings"
)

// Assemble applies the structural rewrites to a class's normalized
// members, in order: dotted leaves are folded in to composite members,
// decorated names are rewritten, and members are stably re-sorted so
// required members precede optional ones. The keyword capture member, if
// any, always sorts last. Composite fields get the same treatment.
func Assemble(file, class string, raw []Member) ([]Member, error) {
	members := foldDotted(raw)

	var err error
	members, err = rewriteNames(file, class, members)
	if err != nil {
		return nil, err
	}
	if err := arrange(file, class, members); err != nil {
		return nil, err
	}
	return members, nil
}

// arrange rejects duplicate names and sorts members in place, recursing
// in to composite fields.
func arrange(file, owner string, members []Member) error {
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if m.IsCapture() {
			continue
		}
		if seen[m.Name] {
			return &ParseError{File: file, Line: m.line, Member: m.Name, Msg: "duplicate member in " + owner}
		}
		seen[m.Name] = true
	}

	slices.SortStableFunc(members, func(a, b Member) int {
		return sortRank(a) - sortRank(b)
	})

	for i := range members {
		if len(members[i].Fields) == 0 {
			continue
		}
		if err := arrange(file, owner+"."+members[i].Name, members[i].Fields); err != nil {
			return err
		}
	}
	return nil
}

func sortRank(m Member) int {
	switch {
	case m.IsCapture():
		return 2
	case m.Optional:
		return 1
	default:
		return 0
	}
}

// foldDotted replaces leaves named "prefix.rest" with one composite
// member per prefix, placed where the first leaf was. A composite is
// optional iff any of its leaves is. When a standalone member already
// carries the prefix name the leaves are dropped, and kept as its fields
// if it is a mapping. Deeper paths fold recursively.
func foldDotted(raw []Member) []Member {
	standalone := make(map[string]int)
	for i, m := range raw {
		if !strings.Contains(m.Name, ".") {
			standalone[m.Name] = i
		}
	}

	leaves := make(map[string][]Member)
	var out []Member
	composite := make(map[string]int) // prefix -> index in out
	for _, m := range raw {
		prefix, rest, dotted := strings.Cut(m.Name, ".")
		if !dotted {
			out = append(out, m)
			continue
		}
		leaf := m
		leaf.Name = rest
		leaves[prefix] = append(leaves[prefix], leaf)
		if _, ok := standalone[prefix]; ok {
			continue
		}
		if _, ok := composite[prefix]; !ok {
			composite[prefix] = len(out)
			out = append(out, Member{
				Name: prefix,
				Type: KindMapping,
				line: m.line,
			})
		}
	}

	for i := range out {
		ls, ok := leaves[out[i].Name]
		if !ok {
			continue
		}
		if _, synth := composite[out[i].Name]; synth {
			for _, l := range ls {
				if l.Optional {
					out[i].Optional = true
				}
			}
		} else if out[i].Type != KindMapping || len(out[i].Fields) > 0 {
			continue
		}
		out[i].Fields = foldDotted(ls)
	}
	return out
}

// rewriteNames handles the "name{n}" list suffix and the "<name>" keyword
// capture form, on members and composite fields alike.
func rewriteNames(file, class string, members []Member) ([]Member, error) {
	captured := false
	for i := range members {
		m := &members[i]
		switch {
		case strings.HasSuffix(m.Name, "{n}"):
			m.Name = strings.TrimSuffix(m.Name, "{n}")
			m.Type = KindList
			m.Ref = ""
		case len(m.Name) >= 2 && strings.HasPrefix(m.Name, "<") && strings.HasSuffix(m.Name, ">"):
			if captured {
				return nil, &ParseError{File: file, Line: m.line, Member: m.Name, Msg: fmt.Sprintf("class %s has more than one keyword capture member", class)}
			}
			captured = true
			m.Name = ""
			m.Type = KindCapture
			m.Ref = ""
			m.Optional = false
			m.Fields = nil
		}
		if len(m.Fields) > 0 {
			fields, err := rewriteNames(file, class+"."+m.Name, m.Fields)
			if err != nil {
				return nil, err
			}
			m.Fields = fields
		}
	}
	return members, nil
}
