package docschema

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/tools/imports"
)

// Unit is one generated Go source file.
type Unit struct {
	// File is the corpus grouping key the unit was generated from.
	File string
	// Name is the output file name.
	Name   string
	Source []byte
}

// Emitter renders ordered classes as Go type definitions, one unit per
// file key.
type Emitter struct {
	Package string
	// Corpus is consulted for parent classes; it may be nil, in which
	// case parent names are trusted as-is.
	Corpus *Corpus
}

func printerf(w io.Writer) func(format string, args ...any) {
	return func(format string, args ...any) {
		fmt.Fprintf(w, format, args...)
	}
}

// Emit renders classes in the order given. Units appear in order of the
// first class belonging to them, and classes are only ever appended to
// their unit.
func (e *Emitter) Emit(classes []*Class) ([]Unit, error) {
	var files []string
	bufs := make(map[string]*bytes.Buffer)
	// all units share one package, so type names must be unique across files
	declared := make(map[string]string)
	for _, cls := range classes {
		if prev, ok := declared[cls.Name]; ok {
			return nil, &DuplicateDefinitionError{What: "class", Name: cls.Name, First: prev, Second: cls.File}
		}
		declared[cls.Name] = cls.File

		buf, ok := bufs[cls.File]
		if !ok {
			buf = new(bytes.Buffer)
			e.writeHeader(buf, cls.File)
			bufs[cls.File] = buf
			files = append(files, cls.File)
		}
		if err := e.WriteClass(buf, cls); err != nil {
			return nil, err
		}
	}

	out := make([]Unit, 0, len(files))
	for _, f := range files {
		name := f + ".go"
		src, err := imports.Process(name, bufs[f].Bytes(), nil)
		if err != nil {
			return nil, fmt.Errorf("formatting generated code for %s: %w", name, err)
		}
		out = append(out, Unit{File: f, Name: name, Source: src})
	}
	return out, nil
}

func (e *Emitter) writeHeader(w io.Writer, file string) {
	pf := printerf(w)
	pf("// Code generated by docgen. DO NOT EDIT.\n\n")
	pf("package %s\n\n", e.pkgName())
	pf("// source: %s\n\n", file)
}

func (e *Emitter) pkgName() string {
	if e.Package == "" {
		return DefaultPackage
	}
	return e.Package
}

// WriteClass renders one class: its struct, the nested structs of its
// composite members, and a constructor.
func (e *Emitter) WriteClass(w io.Writer, cls *Class) error {
	pf := printerf(w)

	if cls.Parent != "" && e.Corpus != nil && e.Corpus.Lookup(cls.File, cls.Parent) == nil {
		return fmt.Errorf("class %s.%s: parent class %q not found", cls.File, cls.Name, cls.Parent)
	}

	if cls.Title != "" {
		pf("// %s is a %q in the %s document.\n", cls.Name, cls.Title, cls.File)
	} else {
		pf("// %s is a data model in the %s document.\n", cls.Name, cls.File)
	}
	if cls.Parent != "" {
		pf("//\n// It extends %s, which carries the fields shared with its siblings.\n", cls.Parent)
	}

	bag := e.inheritedBag(cls)
	fields, err := e.writeStruct(w, cls.Name, cls.Parent, cls.Members, bag == "")
	if err != nil {
		return fmt.Errorf("class %s.%s: %w", cls.File, cls.Name, err)
	}
	if err := e.writeComposites(w, cls.Name, cls.Members); err != nil {
		return fmt.Errorf("class %s.%s: %w", cls.File, cls.Name, err)
	}
	e.writeConstructor(w, cls, fields, bag)
	return nil
}

// inheritedBag returns the selector, relative to the embedded parent
// value, of the capture bag declared by the topmost ancestor that has a
// keyword capture member. It is empty when no ancestor has one.
func (e *Emitter) inheritedBag(cls *Class) string {
	if e.Corpus == nil {
		return ""
	}
	var path []string
	found := ""
	for p := e.Corpus.Lookup(cls.File, cls.Parent); p != nil; p = e.Corpus.Lookup(p.File, p.Parent) {
		if len(path) > e.Corpus.Len() {
			// parent cycle in a hand-edited corpus
			break
		}
		if p.Capture() != nil {
			found = strings.Join(append(slices.Clone(path), bagField(p)), ".")
		}
		path = append(path, p.Parent)
	}
	return found
}

// bagField is the Go name writeStruct gives the capture bag of a class
// which declares its own.
func bagField(cls *Class) string {
	names := make(uniqueNames)
	if cls.Parent != "" {
		names.take(cls.Parent)
	}
	for i := range cls.Members {
		if !cls.Members[i].IsCapture() {
			names.take(exportedName(cls.Members[i].Name))
		}
	}
	return names.take("Extra")
}

// a rendered struct field, kept for the constructor
type field struct {
	goName string
	goType string
	member *Member
}

// writeStruct renders a struct and returns its member fields. With ownBag
// unset, a capture member adds no field since the bag is promoted from an
// embedded ancestor.
func (e *Emitter) writeStruct(w io.Writer, name, parent string, members []Member, ownBag bool) ([]field, error) {
	pf := printerf(w)
	names := make(uniqueNames)

	pf("type %s struct {\n", name)
	if parent != "" {
		names.take(parent)
		pf("\t%s\n\n", parent)
	}

	var fields []field
	var capture *Member
	for i := range members {
		m := &members[i]
		if m.IsCapture() {
			capture = m
			continue
		}
		tname, err := goType(name, m)
		if err != nil {
			return nil, err
		}
		goname := exportedName(m.Name)
		if goname == "" {
			return nil, fmt.Errorf("member %q does not yield a field name", m.Name)
		}
		goname = names.take(goname)

		omit := ""
		if m.Optional {
			omit = ",omitempty"
		}
		if m.Description != nil && *m.Description != "" {
			pf("\t// %s: %s\n", m.Name, *m.Description)
		}
		pf("\t%s %s `json:\"%s%s\"`\n", goname, tname, m.Name, omit)
		fields = append(fields, field{goName: goname, goType: tname, member: m})
	}
	if capture != nil && ownBag {
		goname := names.take("Extra")
		pf("\t// %s holds properties not named above.\n", goname)
		pf("\t%s map[string]any `json:\"-\"`\n", goname)
		fields = append(fields, field{goName: goname, goType: "map[string]any", member: capture})
	}
	pf("}\n\n")
	return fields, nil
}

// nested record types for composite members, depth first
func (e *Emitter) writeComposites(w io.Writer, owner string, members []Member) error {
	pf := printerf(w)
	for i := range members {
		m := &members[i]
		if len(m.Fields) == 0 {
			continue
		}
		name := compositeName(owner, m)
		pf("// %s is the %q field of %s.\n", name, m.Name, owner)
		if _, err := e.writeStruct(w, name, "", m.Fields, true); err != nil {
			return err
		}
		if err := e.writeComposites(w, name, m.Fields); err != nil {
			return err
		}
	}
	return nil
}

// writeConstructor renders New<Class>. When an ancestor declares the
// capture bag, extra is merged in to the parent's bag instead.
func (e *Emitter) writeConstructor(w io.Writer, cls *Class, fields []field, bag string) {
	pf := printerf(w)
	names := make(uniqueNames)
	parentParam := names.take("parent")
	extraParam := names.take("extra")
	bagVar := names.take("bag")

	var params, assigns []string
	var ownBag *field
	for i, f := range fields {
		if f.member.IsCapture() {
			ownBag = &fields[i]
			continue
		}
		p := names.take(paramName(f.member.Name))
		params = append(params, p+" "+f.goType)
		assigns = append(assigns, fmt.Sprintf("%s: %s,", f.goName, p))
	}
	if cls.Parent != "" {
		params = append(params, parentParam+" "+cls.Parent)
		assigns = append(assigns, fmt.Sprintf("%s: %s,", cls.Parent, parentParam))
	}
	forward := cls.Capture() != nil && bag != "" && cls.Parent != ""
	switch {
	case ownBag != nil:
		params = append(params, extraParam+" map[string]any")
		assigns = append(assigns, fmt.Sprintf("%s: %s,", ownBag.goName, extraParam))
	case forward:
		params = append(params, extraParam+" map[string]any")
	}

	pf("// New%s returns a %s holding the given members.\n", cls.Name, cls.Name)
	if forward {
		pf("// Properties in %s are merged in to the bag of the embedded %s.\n", extraParam, cls.Parent)
	}
	pf("func New%s(%s) *%s {\n", cls.Name, strings.Join(params, ", "), cls.Name)
	if forward {
		sel := parentParam + "." + bag
		pf("\t%s := make(map[string]any, len(%s)+len(%s))\n", bagVar, sel, extraParam)
		pf("\tmaps.Copy(%s, %s)\n", bagVar, sel)
		pf("\tmaps.Copy(%s, %s)\n", bagVar, extraParam)
		pf("\t%s = %s\n", sel, bagVar)
	}
	pf("\treturn &%s{\n", cls.Name)
	for _, a := range assigns {
		pf("\t\t%s\n", a)
	}
	pf("\t}\n}\n\n")
}

func compositeName(owner string, m *Member) string {
	return owner + "_" + exportedName(m.Name)
}

// goType maps a member's canonical kind to a Go type. Optional members
// become pointers unless the type is already nil-able.
func goType(owner string, m *Member) (string, error) {
	var t string
	switch m.Type {
	case KindString:
		t = "string"
	case KindBoolean:
		t = "bool"
	case KindInteger:
		t = "int64"
	case KindFloat:
		t = "float64"
	case KindList:
		if len(m.Fields) > 0 {
			return "[]" + compositeName(owner, m), nil
		}
		return "[]any", nil
	case KindMapping:
		if len(m.Fields) == 0 {
			return "map[string]any", nil
		}
		t = compositeName(owner, m)
	case KindReference:
		if m.Class == "" {
			return "", fmt.Errorf("member %q: reference %q was not resolved", m.Name, m.Ref)
		}
		t = m.Class
	case KindNone:
		return "any", nil
	default:
		return "", fmt.Errorf("member %q has unrecognized type: %s", m.Name, m.Type)
	}
	if m.Optional {
		t = "*" + t
	}
	return t, nil
}
