package docschema

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// DefaultCorpusFile is the name of the corpus snapshot written in to the
// output directory.
const DefaultCorpusFile = "all_datamodels.json"

// ReadCorpus decodes a corpus snapshot: a JSON array with one object per
// class.
func ReadCorpus(r io.Reader) (*Corpus, error) {
	var classes []*Class
	if err := json.NewDecoder(r).Decode(&classes); err != nil {
		return nil, fmt.Errorf("decoding corpus: %w", err)
	}
	c := NewCorpus()
	for i, cls := range classes {
		if cls == nil {
			return nil, fmt.Errorf("decoding corpus: element %d is null", i)
		}
		if err := c.Add(cls); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadCorpus reads a corpus snapshot from disk.
func LoadCorpus(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	c, err := ReadCorpus(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteJSON encodes the corpus as a JSON array.
func (c *Corpus) WriteJSON(w io.Writer) error {
	classes := c.Classes
	if classes == nil {
		classes = []*Class{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(classes)
}

// Save writes the corpus snapshot to path. The file is written to a
// temporary sibling first and renamed in to place, so a failed run never
// leaves a truncated snapshot behind.
func (c *Corpus) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := c.WriteJSON(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing corpus: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
