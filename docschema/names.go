package docschema

import (
	"go/token"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// strips emphasis and literal markup from inline text
var markupReplacer = strings.NewReplacer("`", "", "*", "", "|", "")

// Folds a string to plain letters, removing combining marks.
func foldText(s string) string {
	// transformers are stateful; build a fresh chain on every call
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(normFunc, s)
	if err != nil {
		slog.Warn("unicode normalization error", "text", s, "err", err)
		return s
	}
	return out
}

// ClassName derives a type identifier from a section title: markup is
// stripped, every word is title-cased and whitespace is removed.
//
// For example "printer ``state``" becomes "PrinterState".
func ClassName(title string) string {
	t := cases.Title(language.Und).String(markupReplacer.Replace(title))
	return identifier(t)
}

// keeps letters, digits and underscores
func identifier(s string) string {
	var sb strings.Builder
	for _, r := range foldText(s) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	out := sb.String()
	if out != "" && unicode.IsDigit([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

// exportedName turns a member name in to an exported Go field name,
// upper-casing the first rune only ("printTimeLeft" -> "PrintTimeLeft").
func exportedName(name string) string {
	id := identifier(strings.ReplaceAll(strings.ReplaceAll(name, "-", "_"), " ", "_"))
	if id == "" {
		return ""
	}
	r := []rune(id)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// paramName turns a member name in to an unexported Go identifier which
// is safe to use as a function parameter.
func paramName(name string) string {
	id := identifier(strings.ReplaceAll(strings.ReplaceAll(name, "-", "_"), " ", "_"))
	if id == "" {
		return "v"
	}
	r := []rune(id)
	r[0] = unicode.ToLower(r[0])
	id = string(r)
	if token.IsKeyword(id) {
		id += "_"
	}
	return id
}

// uniqueNames hands out identifiers, suffixing "_" on collisions.
type uniqueNames map[string]bool

func (u uniqueNames) take(id string) string {
	for u[id] {
		id += "_"
	}
	u[id] = true
	return id
}
