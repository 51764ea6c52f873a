package stager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MetadataFile is the per-demo descriptor written into every staging directory.
const MetadataFile = "metadata.json"

// FileRef points at a staged file. Local is a bare file name inside the
// staging directory, or an absolute path once cataloged.
type FileRef struct {
	Local string `json:"local"`
}

// Metadata describes a staged demo.
type Metadata struct {
	Name    string    `json:"Name"`
	Version float64   `json:"version"`
	Icon    FileRef   `json:"icon"`
	Code    []FileRef `json:"code"`
	Data    []FileRef `json:"data"`
}

// WriteMetadata writes m as indented JSON to dir/metadata.json.
func WriteMetadata(dir string, m *Metadata) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	path := filepath.Join(dir, MetadataFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadMetadata loads dir/metadata.json.
func ReadMetadata(dir string) (*Metadata, error) {
	path := filepath.Join(dir, MetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}
