package importer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateDBRoundTrip(t *testing.T) {
	dir := t.TempDir()
	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	imported, err := state.IsImported("workout.json", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if imported {
		t.Error("fresh state reports file as imported")
	}

	if err := state.MarkImported("workout.json", 100, "abc"); err != nil {
		t.Fatal(err)
	}

	imported, err = state.IsImported("workout.json", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !imported {
		t.Error("marked file not reported as imported")
	}

	// A changed file (different size or hash) must be re-imported
	imported, err = state.IsImported("workout.json", 200, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if imported {
		t.Error("file with different size reported as imported")
	}
	imported, err = state.IsImported("workout.json", 100, "def")
	if err != nil {
		t.Fatal(err)
	}
	if imported {
		t.Error("file with different hash reported as imported")
	}
}

func TestStateDBPersists(t *testing.T) {
	dir := t.TempDir()
	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := state.MarkImported("a.json", 1, "x"); err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	imported, err := reopened.IsImported("a.json", 1, "x")
	if err != nil {
		t.Fatal(err)
	}
	if !imported {
		t.Error("state lost across reopen")
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.json")
	if err := os.WriteFile(path, []byte(`{"start":"2026-03-01T17:00:00Z"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("hash not deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}

	if err := os.WriteFile(path, []byte(`changed`), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h3 == h1 {
		t.Error("hash unchanged after content change")
	}
}
