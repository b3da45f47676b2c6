package docschema

// Corpus accumulates every class parsed during one compiler run, in
// insertion order.
//
// Class names are unique within a file. Reference key uniqueness is
// checked when the reference table is built, since a corpus may be
// extended from a stored snapshot.
type Corpus struct {
	Classes []*Class

	index map[string]*Class
}

func NewCorpus() *Corpus {
	return &Corpus{
		index: make(map[string]*Class),
	}
}

func classKey(file, name string) string {
	return file + "#" + name
}

// Add appends a class to the corpus.
func (c *Corpus) Add(cls *Class) error {
	if c.index == nil {
		c.index = make(map[string]*Class)
	}
	k := classKey(cls.File, cls.Name)
	if _, ok := c.index[k]; ok {
		return &DuplicateDefinitionError{What: "class", Name: cls.Name, First: cls.File}
	}
	c.index[k] = cls
	c.Classes = append(c.Classes, cls)
	return nil
}

// Lookup finds a class by file and name.
func (c *Corpus) Lookup(file, name string) *Class {
	return c.index[classKey(file, name)]
}

func (c *Corpus) Len() int {
	return len(c.Classes)
}

// Files returns the distinct file keys, in order of first appearance.
func (c *Corpus) Files() []string {
	var out []string
	seen := make(map[string]bool)
	for _, cls := range c.Classes {
		if !seen[cls.File] {
			seen[cls.File] = true
			out = append(out, cls.File)
		}
	}
	return out
}
