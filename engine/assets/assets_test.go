package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestShaderWatcherIndexesExistingBinaries(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "object.vert.spv"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sw, err := NewShaderWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()
	if err := sw.Initialize(dir); err != nil {
		t.Fatal(err)
	}

	shaders := sw.Shaders()
	if len(shaders) != 1 {
		t.Fatalf("indexed %d shaders, want 1 (non-.spv files skipped)", len(shaders))
	}
	if filepath.Base(shaders[0].Path) != "object.vert.spv" {
		t.Errorf("indexed %q", shaders[0].Path)
	}
}

func TestShaderWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	sw, err := NewShaderWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()
	if err := sw.Initialize(dir); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "pass.frag.spv")
	if err := os.WriteFile(path, []byte{0xDE, 0xAD}, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-sw.Changes():
		if filepath.Base(got) != "pass.frag.spv" {
			t.Errorf("change reported for %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for a new shader binary")
	}
}
