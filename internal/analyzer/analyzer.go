// Package analyzer classifies the immediate children of a demo source
// directory as code, data, or icon.
package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Categories assigned to directory children.
const (
	CategoryData = "data"
	CategoryCode = "code"
	CategoryIcon = "icon"
)

// DefaultSourceExt marks source modules and package directories.
const DefaultSourceExt = ".py"

// iconNames are the exact file names recognized as a supplied icon.
var iconNames = map[string]bool{
	"icon.gif": true,
	"icon.png": true,
	"icon.jpg": true,
}

// Entry describes one child of an analyzed directory.
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Category string `json:"category"`
	IsDir    bool   `json:"is_dir"`
}

type options struct {
	sourceExt string
}

// Option customizes Analyze.
type Option func(*options)

// WithSourceExt sets the extension used to detect source modules and the
// package marker file (__init__ + ext). An empty ext keeps the default.
func WithSourceExt(ext string) Option {
	return func(o *options) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		o.sourceExt = ext
	}
}

// Analyze lists dir one level deep and classifies every child. Nested
// content of subdirectories is not inspected beyond the package marker.
func Analyze(dir string, opts ...Option) (map[string]Entry, error) {
	o := options{sourceExt: DefaultSourceExt}
	for _, opt := range opts {
		opt(&o)
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading demo directory %s: %w", dir, err)
	}

	result := make(map[string]Entry, len(children))
	for _, child := range children {
		name := child.Name()
		path := filepath.Join(dir, name)

		// Follow symlinks so a linked directory is treated like a directory.
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", path, err)
		}

		entry := Entry{Name: name, Path: path, Category: CategoryData, IsDir: info.IsDir()}
		if entry.IsDir {
			if isFile(filepath.Join(path, "__init__"+o.sourceExt)) {
				entry.Category = CategoryCode
			}
		} else {
			if strings.HasSuffix(name, o.sourceExt) {
				entry.Category = CategoryCode
			}
			if iconNames[name] {
				entry.Category = CategoryIcon
			}
		}
		result[name] = entry
	}
	return result, nil
}

// Sorted returns the entries ordered by name.
func Sorted(entries map[string]Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// HasIcon reports whether any entry was classified as an icon.
func HasIcon(entries map[string]Entry) bool {
	for _, e := range entries {
		if e.Category == CategoryIcon {
			return true
		}
	}
	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
