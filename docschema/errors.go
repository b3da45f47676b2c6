package docschema

import (
	"fmt"
)

// ParseError is returned when a document does not match the section or
// member table grammar.
type ParseError struct {
	File   string
	Line   int // 1-based, zero when unknown
	Member string
	Msg    string
}

func (e *ParseError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Member != "" {
		return fmt.Sprintf("%s: member %q: %s", loc, e.Member, e.Msg)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

// UnknownTypeError reports a type token outside the recognized vocabulary.
// It is always fatal: coercing the token would silently corrupt the schema.
type UnknownTypeError struct {
	Token  string
	Member string
	File   string
	Line   int
}

func (e *UnknownTypeError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("unknown type token %q", e.Token)
	}
	return fmt.Sprintf("%s:%d: member %q: unknown type token %q", e.File, e.Line, e.Member, e.Token)
}

// UnresolvedReferenceError reports a reference placeholder with no
// publishing class anywhere in the corpus.
type UnresolvedReferenceError struct {
	Placeholder string
	Key         string
	Class       string
	File        string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved class type reference %q (key %q) in %s.%s", e.Placeholder, e.Key, e.File, e.Class)
}

// OutputConflictError is returned when the destination directory already
// exists and overwriting was not requested.
type OutputConflictError struct {
	Dir string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("%q already exists: use --force to write over contents", e.Dir)
}

// DuplicateDefinitionError reports a class name repeated within one file,
// or a reference key published by more than one class.
type DuplicateDefinitionError struct {
	What   string // "class" or "reference key"
	Name   string
	First  string
	Second string // empty when both definitions are in First
}

func (e *DuplicateDefinitionError) Error() string {
	if e.Second == "" {
		return fmt.Sprintf("%s %q defined more than once in %s", e.What, e.Name, e.First)
	}
	return fmt.Sprintf("%s %q defined by both %s and %s", e.What, e.Name, e.First, e.Second)
}
