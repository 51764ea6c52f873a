package engine

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrInstallNotFound is returned by GetInstall for unknown ids.
var ErrInstallNotFound = errors.New("install not found")

// Store persists the install journal to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS installs (
			id           TEXT PRIMARY KEY,
			demo_id      TEXT NOT NULL,
			demo_name    TEXT NOT NULL DEFAULT '',
			version      REAL NOT NULL DEFAULT 1,
			tags_json    TEXT NOT NULL DEFAULT '[]',
			source_dir   TEXT NOT NULL DEFAULT '',
			staging_dir  TEXT NOT NULL DEFAULT '',
			digest       TEXT NOT NULL DEFAULT '',
			state        TEXT NOT NULL,
			error        TEXT NOT NULL DEFAULT '',
			created_at   TEXT NOT NULL,
			completed_at TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_installs_demo_id ON installs(demo_id);
	`)
	return err
}

// CreateInstall inserts a new journal row.
func (s *Store) CreateInstall(inst *Install) error {
	tagsJSON, _ := json.Marshal(inst.Tags)
	if inst.Tags == nil {
		tagsJSON = []byte("[]")
	}

	_, err := s.db.Exec(`
		INSERT INTO installs (id, demo_id, demo_name, version, tags_json, source_dir, staging_dir, digest, state, error, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inst.ID, inst.DemoID, inst.DemoName, inst.Version, string(tagsJSON),
		inst.SourceDir, inst.StagingDir, inst.Digest, inst.State, inst.Error,
		formatTime(&inst.CreatedAt), formatTime(inst.CompletedAt),
	)
	return err
}

// UpdateInstall updates an install's mutable fields.
func (s *Store) UpdateInstall(inst *Install) error {
	res, err := s.db.Exec(`
		UPDATE installs SET state=?, digest=?, error=?, completed_at=?
		WHERE id=?`,
		inst.State, inst.Digest, inst.Error, formatTime(inst.CompletedAt), inst.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrInstallNotFound, inst.ID)
	}
	return nil
}

const installColumns = `id, demo_id, demo_name, version, tags_json, source_dir, staging_dir, digest, state, error, created_at, completed_at`

// GetInstall retrieves an install by ID.
func (s *Store) GetInstall(id string) (*Install, error) {
	row := s.db.QueryRow(`SELECT `+installColumns+` FROM installs WHERE id=?`, id)
	inst, err := scanInstall(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrInstallNotFound, id)
	}
	return inst, err
}

// ListInstalls returns all installs, most recent first. A non-empty demoID
// limits the result to that demo.
func (s *Store) ListInstalls(demoID string) ([]*Install, error) {
	query := `SELECT ` + installColumns + ` FROM installs`
	var args []any
	if demoID != "" {
		query += ` WHERE demo_id=?`
		args = append(args, demoID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installs []*Install
	for rows.Next() {
		inst, err := scanInstall(rows)
		if err != nil {
			return nil, err
		}
		installs = append(installs, inst)
	}
	return installs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInstall(sc scanner) (*Install, error) {
	var inst Install
	var tagsJSON, createdAt, completedAt string
	err := sc.Scan(&inst.ID, &inst.DemoID, &inst.DemoName, &inst.Version, &tagsJSON,
		&inst.SourceDir, &inst.StagingDir, &inst.Digest, &inst.State, &inst.Error,
		&createdAt, &completedAt)
	if err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(tagsJSON), &inst.Tags)
	inst.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if completedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, completedAt)
		if err == nil {
			inst.CompletedAt = &t
		}
	}
	return &inst, nil
}

// timeLayout keeps a fixed width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
