package docschema

import (
	"path/filepath"
	"strings"
)

const (
	DefaultPackage   = "datamodel"
	DefaultExtension = ".rst"

	DefaultClassDelimiter      = "-----"
	DefaultSubsectionDelimiter = "'''''"
)

// Conventions describe how documents mark class boundaries and how the
// generated package is named.
type Conventions struct {
	// Extension selects the documents to read from the input directory.
	Extension string `yaml:"extension"`
	// ClassDelimiter underlines top-level class titles, unless overridden
	// for a file in FileDelimiters.
	ClassDelimiter      string            `yaml:"class_delimiter"`
	SubsectionDelimiter string            `yaml:"subsection_delimiter"`
	FileDelimiters      map[string]string `yaml:"file_delimiters"`
	Package             string            `yaml:"package"`
}

func DefaultConventions() Conventions {
	return Conventions{
		Extension:           DefaultExtension,
		ClassDelimiter:      DefaultClassDelimiter,
		SubsectionDelimiter: DefaultSubsectionDelimiter,
		FileDelimiters: map[string]string{
			"access.rst": "~~~~~",
		},
		Package: DefaultPackage,
	}
}

// Delimiters returns the boundary delimiters for a document, indexed by
// nesting depth.
func (c Conventions) Delimiters(filename string) []string {
	top := c.ClassDelimiter
	if top == "" {
		top = DefaultClassDelimiter
	}
	if d, ok := c.FileDelimiters[filepath.Base(filename)]; ok && d != "" {
		top = d
	}
	sub := c.SubsectionDelimiter
	if sub == "" {
		sub = DefaultSubsectionDelimiter
	}
	return []string{top, sub}
}

// FileKey is the grouping key for classes parsed from a document: its
// base name without extension.
func FileKey(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
