package localfs

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFS(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	if err := os.WriteFile(file, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	empty := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	missing := filepath.Join(dir, "missing.png")

	fs := New()

	if !fs.Exists(file) || !fs.Exists(dir) {
		t.Error("expected file and directory to exist")
	}
	if fs.Exists(missing) || fs.Exists("") {
		t.Error("expected missing path not to exist")
	}
	if !fs.IsDir(dir) || fs.IsDir(file) || fs.IsDir(missing) {
		t.Error("unexpected IsDir result")
	}
	if !fs.IsReadable(file) || fs.IsReadable(missing) {
		t.Error("unexpected IsReadable result")
	}
	if got := fs.Size(file); got != 4 {
		t.Errorf("Size() = %d, want 4", got)
	}
	if got := fs.Size(empty); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
	if got := fs.Size(missing); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}

	data, err := fs.ReadFile(file)
	if err != nil || string(data) != "data" {
		t.Errorf("ReadFile() = %q, %v", data, err)
	}
	if _, err := fs.ReadFile(missing); err == nil {
		t.Error("expected error reading missing file")
	}

	r, err := fs.Open(file)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	data, err = io.ReadAll(r)
	if err != nil || string(data) != "data" {
		t.Errorf("read from Open() = %q, %v", data, err)
	}
}

func TestFS_Unreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	file := filepath.Join(t.TempDir(), "locked.png")
	if err := os.WriteFile(file, []byte("data"), 0o000); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	fs := New()
	if !fs.Exists(file) {
		t.Fatal("expected file to exist")
	}
	if fs.IsReadable(file) {
		t.Error("expected file to be unreadable")
	}
}
