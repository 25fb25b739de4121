package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExcluded(t *testing.T) {
	for _, name := range []string{".git", ".DS_Store", "node_modules"} {
		if !Excluded(name) {
			t.Errorf("Excluded(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"devcontainer.json", "scripts", ".env", "install.sh"} {
		if Excluded(name) {
			t.Errorf("Excluded(%q) = true, want false", name)
		}
	}
}

func TestCopyFilePreservesBytes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte{0x00, 0xff, 0x10, 0x20}
	if err := os.WriteFile(src, content, 0600); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("copied bytes = %v, want %v", got, content)
	}
}

func TestIsEmptyDir(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsEmptyDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !empty {
		t.Error("fresh temp dir should be empty")
	}

	mustWrite(t, filepath.Join(dir, "f"), "x")
	empty, err = IsEmptyDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if empty {
		t.Error("dir with a file should not be empty")
	}

	empty, err = IsEmptyDir(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatal(err)
	}
	if empty {
		t.Error("missing dir should report not-empty (caller creates it)")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
