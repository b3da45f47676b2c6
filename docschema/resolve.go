package docschema

import (
	"strings"
)

// ClassRef locates a class publishing a reference key.
type ClassRef struct {
	Name string
	File string
}

// ReferenceTable maps reference keys to the classes publishing them. It is
// built once the corpus is complete and is read-only afterwards.
type ReferenceTable map[string]ClassRef

// BuildReferenceTable scans every class for a published key. A key
// published twice is a *DuplicateDefinitionError.
func BuildReferenceTable(c *Corpus) (ReferenceTable, error) {
	rt := make(ReferenceTable)
	for _, cls := range c.Classes {
		if cls.Reference == "" {
			continue
		}
		if prev, ok := rt[cls.Reference]; ok {
			return nil, &DuplicateDefinitionError{
				What:   "reference key",
				Name:   cls.Reference,
				First:  prev.File + "." + prev.Name,
				Second: cls.File + "." + cls.Name,
			}
		}
		rt[cls.Reference] = ClassRef{Name: cls.Name, File: cls.File}
	}
	return rt, nil
}

// ReferenceKey extracts the target key from reference placeholder text.
// Two embeddings are accepted:
//
//	:ref:`Title <key>`
//	:ref:`key`
func ReferenceKey(placeholder string) (string, bool) {
	_, after, ok := strings.Cut(placeholder, RefMarker)
	if !ok {
		return "", false
	}
	if _, inner, ok := strings.Cut(after, "<"); ok {
		key, _, closed := strings.Cut(inner, ">")
		if !closed || strings.TrimSpace(key) == "" {
			return "", false
		}
		return strings.TrimSpace(key), true
	}
	if _, inner, ok := strings.Cut(after, "`"); ok {
		key, _, _ := strings.Cut(inner, "`")
		if strings.TrimSpace(key) == "" {
			return "", false
		}
		return strings.TrimSpace(key), true
	}
	return "", false
}

// Resolve rewrites every reference placeholder in the corpus, in place, to
// the name of the class publishing its key. The first unresolvable
// placeholder aborts resolution with an *UnresolvedReferenceError.
func Resolve(c *Corpus) (ReferenceTable, error) {
	rt, err := BuildReferenceTable(c)
	if err != nil {
		return nil, err
	}
	for _, cls := range c.Classes {
		var rerr error
		walkMembers(cls.Members, func(m *Member) {
			if rerr != nil || m.Type != KindReference {
				return
			}
			key, ok := ReferenceKey(m.Ref)
			target, found := rt[key]
			if !ok || !found {
				rerr = &UnresolvedReferenceError{Placeholder: m.Ref, Key: key, Class: cls.Name, File: cls.File}
				return
			}
			m.Class = target.Name
		})
		if rerr != nil {
			return nil, rerr
		}
	}
	return rt, nil
}
