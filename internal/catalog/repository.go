package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Repository stores the catalog. Update must run fn atomically with respect
// to other Update calls on the same catalog.
type Repository interface {
	Load() ([]Entry, error)
	Update(fn func([]Entry) ([]Entry, error)) ([]Entry, error)
}

// FileRepository keeps the catalog as a single JSON array file. Updates hold
// an exclusive advisory lock on a sidecar .lock file for the whole
// read-modify-write and replace the catalog via rename.
type FileRepository struct {
	path string
}

// NewFileRepository returns a repository backed by the JSON file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the catalog file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the catalog. A missing file is an empty catalog.
func (r *FileRepository) Load() ([]Entry, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", r.path, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Update loads the catalog under lock, applies fn, and writes the result.
func (r *FileRepository) Update(fn func([]Entry) ([]Entry, error)) ([]Entry, error) {
	unlock, err := lockFile(r.path + ".lock")
	if err != nil {
		return nil, fmt.Errorf("locking catalog: %w", err)
	}
	defer unlock()

	current, err := r.Load()
	if err != nil {
		return nil, err
	}
	updated, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := r.save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *FileRepository) save(entries []Entry) error {
	data, err := encodeCatalog(entries)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}

// encodeCatalog writes entries as a JSON array. Entries read from the file
// are copied byte for byte; new ones are indented to match.
func encodeCatalog(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		if e.raw != nil {
			buf.Write(e.raw)
			continue
		}
		data, err := json.MarshalIndent(plainEntry(e), "    ", "    ")
		if err != nil {
			return nil, fmt.Errorf("marshaling catalog entry %q: %w", e.ID, err)
		}
		buf.Write(data)
	}
	if len(entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}
