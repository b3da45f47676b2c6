// Package docschema compiles semi-structured API documentation (reStructuredText
// sections with list-table member tables) in to Go type definitions.
//
// The pipeline is: SplitSections, parseTable, NormalizeType, Assemble (per
// document), then Resolve, Order and Emitter.Emit over the whole Corpus.
package docschema

// Kind is the canonical type of a member, or the placeholder state of a
// member which refers to another class.
type Kind string

const (
	KindNone      Kind = ""
	KindString    Kind = "string"
	KindBoolean   Kind = "boolean"
	KindInteger   Kind = "integer"
	KindFloat     Kind = "float"
	KindList      Kind = "list"
	KindMapping   Kind = "mapping"
	KindReference Kind = "reference"
	KindCapture   Kind = "capture"
)

// Member is one documented field of a class.
type Member struct {
	// Name is empty for the keyword capture member. Before assembly it may
	// be dotted ("a.b") or decorated ("tool{n}", "<command>").
	Name string `json:"name"`
	Type Kind   `json:"type"`
	// Ref holds the raw placeholder text of a reference member, e.g.
	// ":ref:`Job <sec-api-datamodel-jobs-job>`".
	Ref string `json:"ref,omitempty"`
	// Class is the resolved class name of a reference member.
	Class       string  `json:"class,omitempty"`
	Description *string `json:"description"`
	Optional    bool    `json:"optional"`
	// Fields of a composite member, produced by folding dotted leaves.
	Fields []Member `json:"fields,omitempty"`

	line int
}

func (m *Member) IsCapture() bool {
	return m.Type == KindCapture
}

func (m *Member) IsComposite() bool {
	return m.Type == KindMapping && len(m.Fields) > 0
}

// Class is the schema of one documented record type.
type Class struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	// Members are ordered: required members first, then optional ones, and
	// the keyword capture member (if any) last.
	Members []Member `json:"members"`
	// Reference is the key this class publishes for other classes to
	// refer to it.
	Reference string `json:"reference,omitempty"`
	Parent    string `json:"parent,omitempty"`
	// File is the grouping key of the generated unit this class belongs to.
	File string `json:"file"`
}

// HasReferences reports whether any member (including composite fields)
// was a reference placeholder.
func (c *Class) HasReferences() bool {
	return anyReference(c.Members)
}

// ReferencedClasses returns the resolved names of referenced classes, in
// member order. Unresolved placeholders are skipped.
func (c *Class) ReferencedClasses() []string {
	var out []string
	walkMembers(c.Members, func(m *Member) {
		if m.Type == KindReference && m.Class != "" {
			out = append(out, m.Class)
		}
	})
	return out
}

// Capture returns the keyword capture member, or nil.
func (c *Class) Capture() *Member {
	for i := range c.Members {
		if c.Members[i].IsCapture() {
			return &c.Members[i]
		}
	}
	return nil
}

func anyReference(ms []Member) bool {
	found := false
	walkMembers(ms, func(m *Member) {
		if m.Type == KindReference {
			found = true
		}
	})
	return found
}

// calls fn on every member, depth first, including composite fields
func walkMembers(ms []Member, fn func(m *Member)) {
	for i := range ms {
		fn(&ms[i])
		if len(ms[i].Fields) > 0 {
			walkMembers(ms[i].Fields, fn)
		}
	}
}
