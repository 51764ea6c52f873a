// Package stager prepares a demo bundle: it copies a source directory's
// children into a fresh staging directory, zips subdirectories, supplies an
// icon when none exists, and writes metadata.json.
package stager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/battlewithbytes/demoize/internal/analyzer"
	"github.com/battlewithbytes/demoize/internal/logging"
)

// GeneratedIcon is the file name used for a synthesized icon.
const GeneratedIcon = "icon.png"

// ErrNameCollision means two staged files would share a name, or a source
// child would overwrite a file the stager writes itself.
var ErrNameCollision = errors.New("staged name collision")

// IconMaker renders label as an icon image at path.
type IconMaker interface {
	Make(label, path string) error
}

// Stager builds staging directories.
type Stager struct {
	Icons     IconMaker
	SourceExt string
	Logger    *log.Logger
}

// New returns a Stager that generates missing icons with icons.
func New(icons IconMaker, sourceExt string, logger *log.Logger) *Stager {
	return &Stager{Icons: icons, SourceExt: sourceExt, Logger: logger}
}

// Stage replaces stagingDir with a packaged copy of srcDir and returns the
// metadata written alongside. Children are processed in name order; the
// first icon file by name becomes the icon and any further icon files are
// recorded as data.
func (s *Stager) Stage(name, srcDir, stagingDir string, version float64) (*Metadata, error) {
	logger := logging.OrDiscard(s.Logger)

	entries, err := analyzer.Analyze(srcDir, analyzer.WithSourceExt(s.SourceExt))
	if err != nil {
		return nil, err
	}
	if err := checkNames(entries); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		return nil, fmt.Errorf("clearing staging directory: %w", err)
	}
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}

	meta := &Metadata{
		Name:    name,
		Version: version,
		Code:    []FileRef{},
		Data:    []FileRef{},
	}
	haveIcon := false

	for _, e := range analyzer.Sorted(entries) {
		local, err := s.stageEntry(e, stagingDir)
		if err != nil {
			return nil, err
		}
		logger.Debug("staged", "name", e.Name, "category", e.Category, "local", local)

		ref := FileRef{Local: local}
		switch {
		case e.Category == analyzer.CategoryIcon && !haveIcon:
			meta.Icon = ref
			haveIcon = true
		case e.Category == analyzer.CategoryIcon:
			logger.Warn("extra icon file recorded as data", "name", e.Name, "icon", meta.Icon.Local)
			meta.Data = append(meta.Data, ref)
		case e.Category == analyzer.CategoryCode:
			meta.Code = append(meta.Code, ref)
		default:
			meta.Data = append(meta.Data, ref)
		}
	}

	if !haveIcon {
		if s.Icons == nil {
			return nil, fmt.Errorf("no icon in %s and no icon generator configured", srcDir)
		}
		path := filepath.Join(stagingDir, GeneratedIcon)
		if err := s.Icons.Make(name, path); err != nil {
			return nil, fmt.Errorf("generating icon: %w", err)
		}
		logger.Info("generated icon", "label", name, "path", path)
		meta.Icon = FileRef{Local: GeneratedIcon}
	}

	if err := WriteMetadata(stagingDir, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// checkNames fails when staging entries would write the same file twice.
// A directory occupies both its own name and name.zip.
func checkNames(entries map[string]analyzer.Entry) error {
	owner := map[string]string{MetadataFile: "metadata"}
	if !analyzer.HasIcon(entries) {
		owner[GeneratedIcon] = "generated icon"
	}
	for _, e := range analyzer.Sorted(entries) {
		names := []string{e.Name}
		if e.IsDir {
			names = append(names, e.Name+".zip")
		}
		for _, n := range names {
			if prev, ok := owner[n]; ok {
				return fmt.Errorf("%s from %q clashes with %s: %w", n, e.Name, prev, ErrNameCollision)
			}
			owner[n] = fmt.Sprintf("%q", e.Name)
		}
	}
	return nil
}

// stageEntry copies one analyzed child into stagingDir and returns the name
// to record for it.
func (s *Stager) stageEntry(e analyzer.Entry, stagingDir string) (string, error) {
	dest := filepath.Join(stagingDir, e.Name)
	if !e.IsDir {
		if err := copyFile(e.Path, dest); err != nil {
			return "", fmt.Errorf("copying %s: %w", e.Path, err)
		}
		return e.Name, nil
	}

	if err := copyDir(e.Path, dest); err != nil {
		return "", fmt.Errorf("copying directory %s: %w", e.Path, err)
	}
	zipName, err := zipDir(stagingDir, e.Name)
	if err != nil {
		return "", err
	}
	return zipName, nil
}
