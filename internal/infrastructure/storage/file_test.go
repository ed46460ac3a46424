package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.Get("token"); ok {
		t.Fatalf("fresh store must be empty")
	}

	if err := s.Set("token", "jwt-abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("darkMode", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A second open sees everything the first one wrote.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok := reopened.Get("token"); !ok || v != "jwt-abc" {
		t.Fatalf("token = %q, %v", v, ok)
	}
	if v, ok := reopened.Get("darkMode"); !ok || v != "true" {
		t.Fatalf("darkMode = %q, %v", v, ok)
	}
}

func TestFileStore_DeletePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set("user", `{"id":"u1"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete("user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("never-existed"); err != nil {
		t.Fatalf("Delete of absent key: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := reopened.Get("user"); ok {
		t.Fatalf("deleted key survived reopen")
	}
}

func TestFileStore_CorruptFileDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open with corrupt file: %v", err)
	}
	if _, ok := s.Get("token"); ok {
		t.Fatalf("corrupt store must read as empty")
	}
	if err := s.Set("token", "fresh"); err != nil {
		t.Fatalf("Set after corruption: %v", err)
	}
}

func TestFileStore_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set("token", "secret"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}
}
