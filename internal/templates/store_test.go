package templates

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbeddedFallback(t *testing.T) {
	store := NewAt(t.TempDir()) // empty dir, everything falls back

	for _, name := range []string{
		Devcontainer,
		MCP,
		EnvExample,
		"scripts/setup-certificates.sh",
		"scripts/init-firewall.sh",
		"scripts/setup-superclaude.sh",
		"docs/claude-setup-prompts.md",
		"docs/firewall-allowlist.txt",
	} {
		data, err := store.Load(name)
		if err != nil {
			t.Errorf("Load(%q) error: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("Load(%q) returned empty template", name)
		}
		if store.Source(name) != "embedded" {
			t.Errorf("Source(%q) = %q, want embedded", name, store.Source(name))
		}
	}
}

func TestLoadDiskOverride(t *testing.T) {
	dir := t.TempDir()
	override := []byte("# patched allowlist\nexample.com\n")
	if err := os.MkdirAll(filepath.Join(dir, "docs"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "docs", "firewall-allowlist.txt"), override, 0644); err != nil {
		t.Fatal(err)
	}

	store := NewAt(dir)
	data, err := store.Load("docs/firewall-allowlist.txt")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != string(override) {
		t.Error("disk override not preferred over embedded copy")
	}
	if store.Source("docs/firewall-allowlist.txt") != "disk" {
		t.Error("Source() should report disk for overridden template")
	}
	// Non-overridden names still resolve.
	if _, err := store.Load(Devcontainer); err != nil {
		t.Errorf("embedded fallback broken by disk root: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := NewAt(t.TempDir()).Load("no-such-template.json")
	if !errors.Is(err, ErrTemplateMissing) {
		t.Errorf("Load() error = %v, want ErrTemplateMissing", err)
	}
}

func TestCopyDirFeatures(t *testing.T) {
	dest := t.TempDir()
	files, err := NewAt(t.TempDir()).CopyDir(FeaturesDir, dest)
	if err != nil {
		t.Fatalf("CopyDir() error: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("CopyDir() wrote no files")
	}

	manifest := filepath.Join(dest, "agent-tools", "devcontainer-feature.json")
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("feature manifest not copied: %v", err)
	}
	if !strings.Contains(string(data), `"id": "agent-tools"`) {
		t.Error("feature manifest content wrong")
	}
}

func TestCopyDirSkipsJunkInDiskRoot(t *testing.T) {
	dir := t.TempDir()
	feat := filepath.Join(dir, "features", "agent-tools")
	if err := os.MkdirAll(filepath.Join(feat, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(feat, "node_modules", "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	for path, content := range map[string]string{
		filepath.Join(feat, "devcontainer-feature.json"):   `{"id": "agent-tools"}`,
		filepath.Join(feat, "install.sh"):                  "#!/bin/bash\n",
		filepath.Join(feat, ".DS_Store"):                   "junk",
		filepath.Join(feat, ".git", "config"):              "[core]",
		filepath.Join(feat, "node_modules", "pkg", "x.js"): "module.exports = {}",
	} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	dest := t.TempDir()
	files, err := NewAt(dir).CopyDir(FeaturesDir, dest)
	if err != nil {
		t.Fatalf("CopyDir() error: %v", err)
	}

	for _, rel := range []string{"agent-tools/devcontainer-feature.json", "agent-tools/install.sh"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	for _, rel := range []string{"agent-tools/.DS_Store", "agent-tools/.git", "agent-tools/node_modules"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); !os.IsNotExist(err) {
			t.Errorf("%s should not be copied", rel)
		}
	}
	for _, f := range files {
		if strings.Contains(f, ".DS_Store") || strings.Contains(f, ".git") || strings.Contains(f, "node_modules") {
			t.Errorf("written list contains junk entry %s", f)
		}
	}
}

func TestCopyDirMissing(t *testing.T) {
	_, err := NewAt(t.TempDir()).CopyDir("nonexistent-tree", t.TempDir())
	if !errors.Is(err, ErrTemplateMissing) {
		t.Errorf("CopyDir() error = %v, want ErrTemplateMissing", err)
	}
}
