package engine

import (
	"time"

	"github.com/battlewithbytes/demoize/internal/catalog"
	"github.com/battlewithbytes/demoize/internal/stager"
)

// Install states recorded in the journal.
const (
	StateStaging   = "staging"
	StateArchiving = "archiving"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Install is one journaled install attempt.
type Install struct {
	ID          string     `json:"id"`
	DemoID      string     `json:"demo_id"`
	DemoName    string     `json:"demo_name"`
	Version     float64    `json:"version"`
	Tags        []string   `json:"tags"`
	SourceDir   string     `json:"source_dir"`
	StagingDir  string     `json:"staging_dir"`
	Digest      string     `json:"digest,omitempty"` // blake2b-256 of metadata.json
	State       string     `json:"state"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// InstallRequest is the input for installing a demo.
type InstallRequest struct {
	FromDir string   `json:"from_dir"`
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Tags    []string `json:"tags,omitempty"`
	Version float64  `json:"version,omitempty"`
}

// Result is what a successful install produced.
type Result struct {
	Install  *Install
	Metadata *stager.Metadata
	Catalog  []catalog.Entry
}
