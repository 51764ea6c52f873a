package engine

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeInstall(id, demoID string, created time.Time) *Install {
	return &Install{
		ID:         id,
		DemoID:     demoID,
		DemoName:   "Test Demo",
		Version:    1.5,
		Tags:       []string{"General", "Graphics"},
		SourceDir:  "/src/" + demoID,
		StagingDir: "/demos/" + demoID,
		State:      StateStaging,
		CreatedAt:  created,
	}
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestNewStoreBadPath(t *testing.T) {
	_, err := NewStore("/nonexistent/dir/test.db")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestCreateAndGetInstall(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Truncate(time.Second)
	inst := makeInstall("i-1", "hello", now)

	if err := s.CreateInstall(inst); err != nil {
		t.Fatalf("CreateInstall: %v", err)
	}

	got, err := s.GetInstall("i-1")
	if err != nil {
		t.Fatalf("GetInstall: %v", err)
	}
	if got.DemoID != "hello" || got.DemoName != "Test Demo" {
		t.Errorf("got demo %q/%q", got.DemoID, got.DemoName)
	}
	if got.Version != 1.5 {
		t.Errorf("Version = %v, want 1.5", got.Version)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "Graphics" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.State != StateStaging {
		t.Errorf("State = %q, want %q", got.State, StateStaging)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
	}
	if got.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", got.CompletedAt)
	}
}

func TestCreateInstallNilTags(t *testing.T) {
	s := newTestStore(t)
	inst := makeInstall("i-1", "hello", time.Now())
	inst.Tags = nil
	if err := s.CreateInstall(inst); err != nil {
		t.Fatalf("CreateInstall: %v", err)
	}
	got, err := s.GetInstall("i-1")
	if err != nil {
		t.Fatalf("GetInstall: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", got.Tags)
	}
}

func TestGetInstallNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetInstall("missing")
	if !errors.Is(err, ErrInstallNotFound) {
		t.Fatalf("err = %v, want ErrInstallNotFound", err)
	}
}

func TestUpdateInstall(t *testing.T) {
	s := newTestStore(t)
	inst := makeInstall("i-1", "hello", time.Now())
	if err := s.CreateInstall(inst); err != nil {
		t.Fatalf("CreateInstall: %v", err)
	}

	done := time.Now().Truncate(time.Second)
	inst.State = StateFailed
	inst.Error = "boom"
	inst.Digest = "abc123"
	inst.CompletedAt = &done
	if err := s.UpdateInstall(inst); err != nil {
		t.Fatalf("UpdateInstall: %v", err)
	}

	got, err := s.GetInstall("i-1")
	if err != nil {
		t.Fatalf("GetInstall: %v", err)
	}
	if got.State != StateFailed || got.Error != "boom" || got.Digest != "abc123" {
		t.Errorf("got state=%q error=%q digest=%q", got.State, got.Error, got.Digest)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, done)
	}
}

func TestUpdateInstallNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateInstall(makeInstall("ghost", "hello", time.Now()))
	if !errors.Is(err, ErrInstallNotFound) {
		t.Fatalf("err = %v, want ErrInstallNotFound", err)
	}
}

func TestListInstalls(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().Truncate(time.Second)
	for i, demo := range []string{"a", "b", "a"} {
		inst := makeInstall(string(rune('1'+i)), demo, base.Add(time.Duration(i)*time.Minute))
		if err := s.CreateInstall(inst); err != nil {
			t.Fatalf("CreateInstall: %v", err)
		}
	}

	all, err := s.ListInstalls("")
	if err != nil {
		t.Fatalf("ListInstalls: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].ID != "3" || all[2].ID != "1" {
		t.Errorf("order = %s,%s,%s; want newest first", all[0].ID, all[1].ID, all[2].ID)
	}

	onlyA, err := s.ListInstalls("a")
	if err != nil {
		t.Fatalf("ListInstalls(a): %v", err)
	}
	if len(onlyA) != 2 {
		t.Fatalf("len = %d, want 2", len(onlyA))
	}
	for _, inst := range onlyA {
		if inst.DemoID != "a" {
			t.Errorf("unexpected demo %q", inst.DemoID)
		}
	}

	none, err := s.ListInstalls("zzz")
	if err != nil {
		t.Fatalf("ListInstalls(zzz): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len = %d, want 0", len(none))
	}
}
