// Package catalog maintains the local list of installed demos.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/battlewithbytes/demoize/internal/logging"
	"github.com/battlewithbytes/demoize/internal/stager"
)

var (
	// ErrNotFound means the demos directory or a demo's staging directory is missing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID means the catalog already holds an entry with the same Id.
	ErrDuplicateID = errors.New("duplicate demo id")
	// ErrInvalidID means the id is not a single directory name under the demos root.
	ErrInvalidID = errors.New("invalid demo id")
)

// Policy decides what Archive does when the demo id is already cataloged.
type Policy string

const (
	PolicyReject  Policy = "reject"  // fail with ErrDuplicateID
	PolicyReplace Policy = "replace" // drop the old entries, append the new one
	PolicyAllow   Policy = "allow"   // append regardless
)

// ParsePolicy validates a policy name. Empty means reject.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return PolicyReject, nil
	case PolicyReject, PolicyReplace, PolicyAllow:
		return Policy(s), nil
	}
	return "", fmt.Errorf("duplicate policy must be %q, %q, or %q", PolicyReject, PolicyReplace, PolicyAllow)
}

// Archiver merges staged demos into the catalog. Repo is the only writer
// of the catalog; concurrent Archive calls are serialized by Repo.Update.
type Archiver struct {
	Repo       Repository
	DemosDir   string
	Duplicates Policy
	Logger     *log.Logger
}

// NewArchiver returns an Archiver using the file catalog inside demosDir.
func NewArchiver(demosDir string, duplicates Policy, logger *log.Logger) *Archiver {
	return &Archiver{
		Repo:       NewFileRepository(filepath.Join(demosDir, FileName)),
		DemosDir:   demosDir,
		Duplicates: duplicates,
		Logger:     logger,
	}
}

// Archive appends the staged demo id to the catalog with the given tags and
// returns the whole updated catalog.
func (a *Archiver) Archive(id string, tags []string) ([]Entry, error) {
	logger := logging.OrDiscard(a.Logger)

	if err := CheckID(id); err != nil {
		return nil, err
	}
	if !isDir(a.DemosDir) {
		return nil, fmt.Errorf("no demos directory found at %q: %w", a.DemosDir, ErrNotFound)
	}
	demoDir, err := filepath.Abs(filepath.Join(a.DemosDir, id))
	if err != nil {
		return nil, fmt.Errorf("resolving demo directory: %w", err)
	}
	if !isDir(demoDir) {
		return nil, fmt.Errorf("no demo information found at %q: %w", demoDir, ErrNotFound)
	}

	meta, err := stager.ReadMetadata(demoDir)
	if err != nil {
		return nil, err
	}
	entry := buildEntry(id, demoDir, meta, tags)

	return a.Repo.Update(func(current []Entry) ([]Entry, error) {
		next := make([]Entry, 0, len(current)+1)
		for _, e := range current {
			if e.ID != id {
				next = append(next, e)
				continue
			}
			switch a.policy() {
			case PolicyReject:
				return nil, fmt.Errorf("demo %q is already in the catalog: %w", id, ErrDuplicateID)
			case PolicyReplace:
				logger.Info("replacing catalog entry", "id", id)
				continue
			default:
				next = append(next, e)
			}
		}
		next = append(next, entry)
		logger.Info("cataloged demo", "id", id, "entries", len(next))
		return next, nil
	})
}

// CheckID rejects ids that would resolve outside their own directory
// under the demos root.
func CheckID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("demo id is required: %w", ErrInvalidID)
	}
	if id != filepath.Base(id) || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("demo id %q must not contain path separators: %w", id, ErrInvalidID)
	}
	return nil
}

func (a *Archiver) policy() Policy {
	if a.Duplicates == "" {
		return PolicyReject
	}
	return a.Duplicates
}

// buildEntry converts staged metadata into a catalog entry, rewriting file
// names into absolute paths under demoDir.
func buildEntry(id, demoDir string, meta *stager.Metadata, tags []string) Entry {
	version := meta.Version
	if version == 0 {
		version = 1
	}
	if tags == nil {
		tags = []string{}
	}

	expand := func(refs []stager.FileRef) []stager.FileRef {
		out := make([]stager.FileRef, 0, len(refs))
		for _, r := range refs {
			out = append(out, stager.FileRef{Local: filepath.Join(demoDir, r.Local)})
		}
		return out
	}

	return Entry{
		ID:         id,
		Name:       meta.Name,
		Downloaded: true,
		Version:    version,
		Tags:       tags,
		Icon:       stager.FileRef{Local: filepath.Join(demoDir, meta.Icon.Local)},
		Code:       expand(meta.Code),
		Data:       expand(meta.Data),
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
