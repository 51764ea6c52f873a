// Package engine installs demos: it stages a source directory, merges the
// result into the catalog, and journals every attempt.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/blake2b"

	"github.com/battlewithbytes/demoize/internal/catalog"
	"github.com/battlewithbytes/demoize/internal/config"
	"github.com/battlewithbytes/demoize/internal/icon"
	"github.com/battlewithbytes/demoize/internal/logging"
	"github.com/battlewithbytes/demoize/internal/stager"
)

// Engine wires the stager, archiver, and install journal together.
type Engine struct {
	cfg      *config.Config
	stager   *stager.Stager
	archiver *catalog.Archiver
	store    *Store
	logger   *log.Logger
}

// New creates the demos directory if needed and opens the install journal.
func New(cfg *config.Config, logger *log.Logger) (*Engine, error) {
	logger = logging.OrDiscard(logger)

	policy, err := catalog.ParsePolicy(cfg.Duplicates)
	if err != nil {
		return nil, err
	}

	demosDir := cfg.DemosPath()
	if err := os.MkdirAll(demosDir, 0755); err != nil {
		return nil, fmt.Errorf("creating demos directory: %w", err)
	}

	store, err := NewStore(cfg.JournalPath())
	if err != nil {
		return nil, fmt.Errorf("opening install journal: %w", err)
	}

	return &Engine{
		cfg:    cfg,
		stager: stager.New(IconGenerator(cfg.Icon, logger), cfg.SourceExt, logger),
		archiver: &catalog.Archiver{
			Repo:       catalog.NewFileRepository(cfg.CatalogPath()),
			DemosDir:   demosDir,
			Duplicates: policy,
			Logger:     logger,
		},
		store:  store,
		logger: logger,
	}, nil
}

// IconGenerator builds an icon generator from the icon settings.
func IconGenerator(ic config.IconConfig, logger *log.Logger) *icon.Generator {
	return &icon.Generator{
		Params: icon.Params{
			MinLen:     ic.MinLen,
			MaxLen:     ic.MaxLen,
			MaxLines:   ic.MaxLines,
			LineHeight: ic.LineHeight,
		},
		Style: icon.Style{
			FontPath:   config.ExpandHome(ic.FontPath),
			FontScale:  ic.FontScale,
			FontRadius: ic.FontRadius,
			Frame:      rgb(ic.FrameColor),
			Text:       rgb(ic.TextColor),
		},
		Logger: logger,
	}
}

func rgb(c [3]int) icon.RGB {
	return icon.RGB{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])}
}

// Close closes the engine's resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Catalog returns the catalog repository the engine writes to.
func (e *Engine) Catalog() catalog.Repository {
	return e.archiver.Repo
}

// Install stages req.FromDir into the demos directory under req.ID and adds
// it to the catalog. The attempt is journaled whether or not it succeeds.
func (e *Engine) Install(ctx context.Context, req InstallRequest) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Version == 0 {
		req.Version = config.DefaultVersion
	}
	if req.Tags == nil {
		req.Tags = append([]string(nil), e.cfg.DefaultTags...)
	}
	if err := e.checkDuplicate(req.ID); err != nil {
		return nil, err
	}

	stagingDir := filepath.Join(e.cfg.DemosPath(), req.ID)
	inst := &Install{
		ID:         generateID(),
		DemoID:     req.ID,
		DemoName:   req.Name,
		Version:    req.Version,
		Tags:       req.Tags,
		SourceDir:  req.FromDir,
		StagingDir: stagingDir,
		State:      StateStaging,
		CreatedAt:  time.Now(),
	}
	if err := e.store.CreateInstall(inst); err != nil {
		return nil, fmt.Errorf("recording install: %w", err)
	}

	e.logger.Info("staging demo", "id", req.ID, "from", req.FromDir, "to", stagingDir)
	if err := ctx.Err(); err != nil {
		return nil, e.fail(inst, err)
	}
	meta, err := e.stager.Stage(req.Name, req.FromDir, stagingDir, req.Version)
	if err != nil {
		return nil, e.fail(inst, fmt.Errorf("staging %s: %w", req.ID, err))
	}

	digest, err := metadataDigest(stagingDir)
	if err != nil {
		return nil, e.fail(inst, err)
	}
	inst.Digest = digest
	inst.State = StateArchiving
	if err := e.store.UpdateInstall(inst); err != nil {
		return nil, fmt.Errorf("recording install: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, e.fail(inst, err)
	}
	entries, err := e.archiver.Archive(req.ID, req.Tags)
	if err != nil {
		return nil, e.fail(inst, fmt.Errorf("cataloging %s: %w", req.ID, err))
	}

	now := time.Now()
	inst.State = StateCompleted
	inst.CompletedAt = &now
	if err := e.store.UpdateInstall(inst); err != nil {
		return nil, fmt.Errorf("recording install: %w", err)
	}
	e.logger.Info("installed demo", "id", req.ID, "catalog_size", len(entries))

	return &Result{Install: inst, Metadata: meta, Catalog: entries}, nil
}

// ListInstalls returns journaled installs, newest first.
func (e *Engine) ListInstalls(demoID string) ([]*Install, error) {
	return e.store.ListInstalls(demoID)
}

// fail marks inst failed and returns cause.
func (e *Engine) fail(inst *Install, cause error) error {
	now := time.Now()
	inst.State = StateFailed
	inst.Error = cause.Error()
	inst.CompletedAt = &now
	if err := e.store.UpdateInstall(inst); err != nil {
		e.logger.Error("could not record failed install", "id", inst.ID, "err", err)
	}
	e.logger.Error("install failed", "demo", inst.DemoID, "err", cause)
	return cause
}

// checkDuplicate refuses an already cataloged id before its staging
// directory is overwritten. Archive repeats the check under the lock.
func (e *Engine) checkDuplicate(id string) error {
	if e.archiver.Duplicates != catalog.PolicyReject {
		return nil
	}
	entries, err := e.archiver.Repo.Load()
	if err != nil {
		return err
	}
	if _, ok := catalog.Find(entries, id); ok {
		return fmt.Errorf("demo %q is already in the catalog: %w", id, catalog.ErrDuplicateID)
	}
	return nil
}

func validateRequest(req InstallRequest) error {
	if err := catalog.CheckID(req.ID); err != nil {
		return err
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("demo name is required")
	}
	if req.FromDir == "" {
		return fmt.Errorf("source directory is required")
	}
	if req.Version < 0 {
		return fmt.Errorf("version must not be negative")
	}
	return nil
}

func metadataDigest(stagingDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(stagingDir, stager.MetadataFile))
	if err != nil {
		return "", fmt.Errorf("reading staged metadata: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
