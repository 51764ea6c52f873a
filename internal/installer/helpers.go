package installer

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/battlewithbytes/demoize/internal/analyzer"
	"github.com/battlewithbytes/demoize/internal/config"
)

// Answers holds raw string values from the install form.
// The version is a string because huh.Input binds to *string.
type Answers struct {
	ID         string
	Name       string
	Tags       string
	Dir        string
	VersionStr string

	Confirmed bool
}

var idPrefix = regexp.MustCompile(`^[a-zA-Z0-9]+`)

// ValidateID returns nil if s is a usable demo identifier.
func ValidateID(s string) error {
	if len(s) < 4 {
		return errors.New("Demo id should be longer than 4 letters.")
	}
	loc := idPrefix.FindStringIndex(s)
	if loc == nil {
		return errors.New("Demo id should have one or more letters and numbers.")
	}
	if loc[1] < len(s) {
		return errors.New("Demo id should contain only letters or numbers.")
	}
	return nil
}

// ValidateName returns nil if s is a usable display name.
func ValidateName(s string) error {
	if len(s) < 4 {
		return errors.New("Name should be more than 3 letters.")
	}
	return nil
}

// ParseTags splits s on whitespace and commas.
func ParseTags(s string) ([]string, error) {
	var tags []string
	for _, field := range strings.Fields(s) {
		for _, t := range strings.Split(field, ",") {
			if t == "" {
				continue
			}
			if len(t) < 2 {
				return nil, fmt.Errorf("Tag names should be more than 1 letters long: '%s'", t)
			}
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// ValidateTags is ParseTags for form fields.
func ValidateTags(s string) error {
	_, err := ParseTags(s)
	return err
}

// ValidateDir returns nil if s names an existing directory.
func ValidateDir(s string) error {
	info, err := os.Stat(config.ExpandHome(strings.TrimSpace(s)))
	if err != nil || !info.IsDir() {
		return errors.New("Directory not found.")
	}
	return nil
}

// ParseVersion parses a positive version number. Empty means the default.
func ParseVersion(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return config.DefaultVersion, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("Version should be a number.")
	}
	if v <= 0 {
		return 0, errors.New("Version should be greater than zero.")
	}
	return v, nil
}

// ValidateVersion is ParseVersion for form fields.
func ValidateVersion(s string) error {
	_, err := ParseVersion(s)
	return err
}

// Report is the result of checking a set of answers against the source directory.
type Report struct {
	Dir     string
	Tags    []string
	Version float64
	Lines   []string
}

// String joins the report lines.
func (r *Report) String() string {
	return strings.Join(r.Lines, "\n")
}

// Check validates every answer and describes how the source directory will
// be packaged. The returned error is the first validation message.
func (a *Answers) Check(sourceExt string) (*Report, error) {
	if sourceExt == "" {
		sourceExt = analyzer.DefaultSourceExt
	}
	if err := ValidateDir(a.Dir); err != nil {
		return nil, err
	}
	tags, err := ParseTags(a.Tags)
	if err != nil {
		return nil, err
	}
	if err := ValidateName(a.Name); err != nil {
		return nil, err
	}
	if err := ValidateID(a.ID); err != nil {
		return nil, err
	}
	version, err := ParseVersion(a.VersionStr)
	if err != nil {
		return nil, err
	}

	dir := config.ExpandHome(strings.TrimSpace(a.Dir))
	entries, err := analyzer.Analyze(dir, analyzer.WithSourceExt(sourceExt))
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", dir, err)
	}

	r := &Report{Dir: dir, Tags: tags, Version: version}
	for _, e := range analyzer.Sorted(entries) {
		if e.IsDir {
			r.Lines = append(r.Lines, fmt.Sprintf("%s (zipped %s directory)", e.Name, e.Category))
		} else {
			r.Lines = append(r.Lines, fmt.Sprintf("%s (%s)", e.Name, e.Category))
		}
	}
	if !analyzer.HasIcon(entries) {
		r.Lines = append(r.Lines, "WARNING: Icon file will be generated.")
	}
	script := a.ID + "Demo" + sourceExt
	if _, ok := entries[script]; !ok {
		r.Lines = append(r.Lines, fmt.Sprintf("WARNING: No '%s' default script found", script))
	}
	return r, nil
}
