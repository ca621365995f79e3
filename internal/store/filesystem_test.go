package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "store.json"))
}

func TestFileStoreSetGet(t *testing.T) {
	s := tempStore(t)

	if err := s.Set("alpha", json.RawMessage(`{"n":1}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := s.Get("alpha")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if string(value) != `{"n":1}` {
		t.Errorf("Get = %s, want {\"n\":1}", value)
	}

	// Overwrite is last-write-wins
	if err := s.Set("alpha", json.RawMessage(`{"n":2}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _, _ = s.Get("alpha")
	if string(value) != `{"n":2}` {
		t.Errorf("Get after overwrite = %s, want {\"n\":2}", value)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	s := tempStore(t)

	_, ok, err := s.Get("nothing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected missing key to report ok=false")
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	first := NewFileStore(path)
	if err := first.Set("key", json.RawMessage(`"v"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second := NewFileStore(path)
	value, ok, _ := second.Get("key")
	if !ok || string(value) != `"v"` {
		t.Errorf("expected value to survive reopen, got ok=%v value=%s", ok, value)
	}
}

func TestFileStoreGetAllAndRemove(t *testing.T) {
	s := tempStore(t)

	s.Set("a", json.RawMessage(`1`))
	s.Set("b", json.RawMessage(`2`))
	s.Set("c", json.RawMessage(`3`))

	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("GetAll returned %d entries, want 3", len(all))
	}

	if err := s.Remove([]string{"a", "c", "missing"}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	all, _ = s.GetAll()
	if len(all) != 1 {
		t.Errorf("after Remove got %d entries, want 1", len(all))
	}
	if _, ok := all["b"]; !ok {
		t.Error("expected key b to survive Remove")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := NewFileStore(path)
	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("corrupt file should read as empty, got %d entries", len(all))
	}

	// Store is usable again after the corrupt document is discarded.
	if err := s.Set("fresh", json.RawMessage(`true`)); err != nil {
		t.Fatalf("Set after corruption failed: %v", err)
	}
	if _, ok, _ := s.Get("fresh"); !ok {
		t.Error("expected write to succeed after corruption recovery")
	}
}

func TestMemoryStoreFailure(t *testing.T) {
	s := NewMemoryStore()
	s.Set("k", json.RawMessage(`1`))

	s.Fail = true
	if err := s.Set("k2", json.RawMessage(`2`)); err == nil {
		t.Error("expected Set to fail when store unavailable")
	}
	if _, _, err := s.Get("k"); err == nil {
		t.Error("expected Get to fail when store unavailable")
	}
	if _, err := s.GetAll(); err == nil {
		t.Error("expected GetAll to fail when store unavailable")
	}

	s.Fail = false
	if _, ok, _ := s.Get("k"); !ok {
		t.Error("expected data to remain after simulated outage")
	}
}
