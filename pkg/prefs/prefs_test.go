package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.ShowSubtypes() {
		t.Error("default ShowSubtypes should be false")
	}
}

func TestTogglePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	v, err := s.ToggleShowSubtypes()
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !v {
		t.Fatal("toggle should return true")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "show_subtypes: true") {
		t.Errorf("file = %q", data)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.ShowSubtypes() {
		t.Error("preference not restored on reopen")
	}

	if err := reopened.SetShowSubtypes(false); err != nil {
		t.Fatal(err)
	}
	again, _ := Open(path)
	if again.ShowSubtypes() {
		t.Error("SetShowSubtypes(false) not persisted")
	}
}

func TestInMemoryStore(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	if v, err := s.ToggleShowSubtypes(); err != nil || !v {
		t.Errorf("Toggle = %v, %v", v, err)
	}
}

func TestOpenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("show_subtypes: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected parse error")
	}
}
