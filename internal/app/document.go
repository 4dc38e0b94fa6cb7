package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/rstedit/internal/engine"
)

// Document is a file opened in an engine.
type Document struct {
	// Path is the file path; empty for a scratch buffer.
	Path string

	// Name is the display name (file name or "Untitled").
	Name string

	// Engine holds the text, selections and undo history.
	Engine *engine.Engine

	mu    sync.Mutex
	saved engine.RevisionID
	isNew bool
}

// OpenDocument reads path into a new engine. A missing file opens as an
// empty document that Save creates.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	if path == "" {
		return NewScratchDocument(opts...), nil
	}

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		d := newDocument(path, engine.New(opts...))
		d.isNew = true
		return d, nil
	case err != nil:
		return nil, NewOperationError("open", path, err)
	}
	defer f.Close()

	eng, err := engine.NewFromReader(f, opts...)
	if err != nil {
		return nil, NewOperationError("read", path, err)
	}
	return newDocument(path, eng), nil
}

// NewScratchDocument creates a document with no file.
func NewScratchDocument(opts ...engine.Option) *Document {
	return newDocument("", engine.New(opts...))
}

func newDocument(path string, eng *engine.Engine) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}
	return &Document{Path: path, Name: name, Engine: eng, saved: eng.RevisionID()}
}

// IsScratch reports whether the document has no file.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsNew reports whether the file did not exist when opened.
func (d *Document) IsNew() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isNew
}

// IsModified reports whether the text changed since it was opened or saved.
func (d *Document) IsModified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Engine.RevisionID() != d.saved
}

// Content returns the document text with its line endings.
func (d *Document) Content() string {
	return d.Engine.Text()
}

// Save writes the document to its file. The text goes to a temporary file
// in the same directory that replaces the original, keeping its mode.
func (d *Document) Save() error {
	if d.IsScratch() {
		return ErrNoFile
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	rev := d.Engine.RevisionID()
	if err := writeFileAtomic(d.Path, []byte(d.Engine.Text())); err != nil {
		return NewOperationError("save", d.Path, err)
	}
	d.saved = rev
	d.isNew = false
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
