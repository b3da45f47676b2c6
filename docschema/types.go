package docschema

import (
	"strings"
)

// RefMarker introduces a cross reference to another documented class.
const RefMarker = ":ref:"

// documentation type vocabulary, keyed by lower-cased token
var typeSynonyms = map[string]Kind{
	"string":              KindString,
	"str":                 KindString,
	"url":                 KindString,
	"object":              KindMapping,
	"dict":                KindMapping,
	"map":                 KindMapping,
	"string or object":    KindMapping,
	"printer state flags": KindMapping,
	"boolean":             KindBoolean,
	"bool":                KindBoolean,
	"int":                 KindInteger,
	"int or null":         KindInteger,
	"integer":             KindInteger,
	"timestamp":           KindInteger,
	"unix timestamp":      KindInteger,
	"number":              KindFloat,
	"number (float)":      KindFloat,
	"float":               KindFloat,
	"list":                KindList,
	"array":               KindList,
}

// NormalizeType maps a raw documentation type token to its canonical
// kind. For reference tokens the kind is KindReference and ref carries
// the token text for later resolution.
//
// Any token outside the vocabulary is an *UnknownTypeError.
func NormalizeType(token string) (kind Kind, ref string, err error) {
	tok := strings.TrimSpace(strings.Trim(strings.TrimSpace(token), "`"))

	if k, ok := typeSynonyms[strings.ToLower(tok)]; ok {
		return k, "", nil
	}

	switch {
	case strings.HasPrefix(tok, "List of"), strings.HasPrefix(tok, "Array of"):
		return KindList, "", nil
	case strings.HasPrefix(tok, "Map of"),
		strings.HasSuffix(strings.ToLower(strings.ReplaceAll(tok, "`", "")), "or object"):
		return KindMapping, "", nil
	case strings.HasPrefix(tok, "String, "):
		return KindString, "", nil
	case strings.Contains(tok, RefMarker):
		return KindReference, strings.TrimSpace(token), nil
	}

	return KindNone, "", &UnknownTypeError{Token: token}
}
