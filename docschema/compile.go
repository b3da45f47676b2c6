package docschema

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Compiler runs the document-to-Go pipeline. A run is strictly
// sequential: each document is parsed and assembled completely before the
// next one is read, and resolution, ordering and emission happen once
// over the complete corpus.
type Compiler struct {
	Conventions Conventions
	Logger      *slog.Logger
}

func NewCompiler(conv Conventions, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		Conventions: conv,
		Logger:      logger,
	}
}

// ParseDocument splits a document in to sections and assembles one class
// per section. filename selects the delimiter convention and the file key.
func (cc *Compiler) ParseDocument(filename string, lines []string) ([]*Class, error) {
	file := FileKey(filename)
	sections, err := SplitSections(filename, lines, cc.Conventions.Delimiters(filename))
	if err != nil {
		return nil, err
	}

	var out []*Class
	for _, sec := range sections {
		start, err := sec.TableStart(filename, lines)
		if err != nil {
			return nil, err
		}
		body := lines[:sec.End]
		raw, end, err := parseTable(filename, body, start)
		if err != nil {
			return nil, err
		}
		if err := checkTableEnd(filename, body, end); err != nil {
			return nil, err
		}
		members, err := Assemble(filename, sec.Name, raw)
		if err != nil {
			return nil, err
		}
		cls := &Class{
			Name:      sec.Name,
			Title:     sec.Title,
			Members:   members,
			Reference: sec.Reference,
			Parent:    sec.Parent,
			File:      file,
		}
		cc.Logger.Debug("parsed class", "file", file, "class", cls.Name, "members", len(members), "parent", cls.Parent)
		out = append(out, cls)
	}
	return out, nil
}

// ReadDocument parses one document from r.
func (cc *Compiler) ReadDocument(filename string, r io.Reader) ([]*Class, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return cc.ParseDocument(filename, lines)
}

// IngestFile parses a document from disk and appends its classes to the
// corpus.
func (cc *Compiler) IngestFile(path string, corpus *Corpus) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	classes, err := cc.ReadDocument(filepath.Base(path), f)
	if err != nil {
		return 0, err
	}
	for _, cls := range classes {
		if err := corpus.Add(cls); err != nil {
			return 0, err
		}
	}
	return len(classes), nil
}

// IngestDir parses every document in dir (not recursing) in name order.
// Documents without classes contribute nothing.
func (cc *Compiler) IngestDir(dir string, corpus *Corpus) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	ext := cc.Conventions.Extension
	for _, ent := range entries {
		if ent.IsDir() || (ext != "" && !strings.HasSuffix(ent.Name(), ext)) {
			continue
		}
		n, err := cc.IngestFile(filepath.Join(dir, ent.Name()), corpus)
		if err != nil {
			return err
		}
		if n == 0 {
			cc.Logger.Debug("skipping document without classes", "file", ent.Name())
			continue
		}
		cc.Logger.Info("ingested document", "file", ent.Name(), "classes", n)
	}
	return nil
}

// Build resolves references, orders classes and renders the output units.
// The corpus is modified in place by resolution.
func (cc *Compiler) Build(corpus *Corpus) ([]Unit, error) {
	rt, err := Resolve(corpus)
	if err != nil {
		return nil, err
	}
	cc.Logger.Debug("resolved references", "keys", len(rt))

	ordered := Order(corpus, cc.Logger)
	em := &Emitter{
		Package: cc.Conventions.Package,
		Corpus:  corpus,
	}
	return em.Emit(ordered)
}

// OutputOptions control how results are written.
type OutputOptions struct {
	// Force permits replacing an existing output directory.
	Force bool
	// CorpusFile names the corpus snapshot in the output directory. Empty
	// means DefaultCorpusFile.
	CorpusFile string
}

// CheckOutput fails with an *OutputConflictError if dir exists and
// overwriting was not requested.
func CheckOutput(dir string, force bool) error {
	_, err := os.Stat(dir)
	switch {
	case err == nil:
		if !force {
			return &OutputConflictError{Dir: dir}
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return err
	}
}

// WriteOutput writes the units and the corpus snapshot to dir. Everything
// is staged in a temporary sibling directory which replaces dir only once
// fully written; on failure dir is left untouched.
func WriteOutput(dir string, units []Unit, corpus *Corpus, opts OutputOptions) error {
	if err := CheckOutput(dir, opts.Force); err != nil {
		return err
	}
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return err
	}
	staging, err := os.MkdirTemp(filepath.Dir(dir), "."+filepath.Base(dir)+".staging-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(staging) }()
	if err := os.Chmod(staging, 0755); err != nil {
		return err
	}

	for _, u := range units {
		if err := writeFile(filepath.Join(staging, u.Name), u.Source); err != nil {
			return fmt.Errorf("writing %s: %w", u.Name, err)
		}
	}

	name := opts.CorpusFile
	if name == "" {
		name = DefaultCorpusFile
	}
	if err := corpus.Save(filepath.Join(staging, name)); err != nil {
		return err
	}

	if opts.Force {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return os.Rename(staging, dir)
}

func writeFile(path string, b []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Close()
}
