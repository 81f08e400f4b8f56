package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestSQLiteSlots verifies get/put overwrite semantics and that data
// survives reopening the store.
func TestSQLiteSlots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenSQLite(dir)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	if _, ok, err := s.Get(ctx, KeyProfile); err != nil || ok {
		t.Fatalf("empty slot: ok=%v err=%v", ok, err)
	}

	if err := s.Put(ctx, KeyProfile, []byte(`{"name":"A"}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, KeyProfile, []byte(`{"name":"B"}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, KeyWorkouts, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.Get(ctx, KeyProfile)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"name":"B"}` {
		t.Errorf("profile = %s, want last write", v)
	}
	if v, _, _ := s.Get(ctx, KeyWorkouts); string(v) != `[]` {
		t.Errorf("workouts = %s", v)
	}
}

func TestImportedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := OpenSQLite(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	csv := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(csv, []byte("a;b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	hash, err := HashFile(csv)
	if err != nil {
		t.Fatal(err)
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d", len(hash))
	}

	done, err := s.IsImported(ctx, csv, hash)
	if err != nil || done {
		t.Fatalf("before mark: done=%v err=%v", done, err)
	}
	if err := s.MarkImported(ctx, csv, hash, 3); err != nil {
		t.Fatal(err)
	}
	if done, _ := s.IsImported(ctx, csv, hash); !done {
		t.Error("expected file to be marked imported")
	}
	if done, _ := s.IsImported(ctx, csv, "other"); done {
		t.Error("changed hash should not count as imported")
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("x")
	if err := m.Put(ctx, "k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'y'
	v, ok, _ := m.Get(ctx, "k")
	if !ok || string(v) != "x" {
		t.Errorf("Get = %q, %v; store must copy input", v, ok)
	}
	if m.Keys() != 1 {
		t.Errorf("Keys = %d", m.Keys())
	}
}
