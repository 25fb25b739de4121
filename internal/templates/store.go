// Package templates is the read-only store for the scaffolding templates:
// the container definition, the MCP server template, the runtime scripts,
// the onboarding docs, and the build-time feature tree.
//
// Templates resolve against a "templates" directory next to the installed
// binary so a packaged install can patch them in place; when that directory
// is absent the copies embedded in the binary are used.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/agentpod-labs/agentpod/internal/fsutil"
)

//go:embed all:assets
var embedded embed.FS

// ErrTemplateMissing indicates a template name that neither the on-disk
// store nor the embedded fallback can resolve. It means the installation is
// broken, not that the user did anything wrong.
var ErrTemplateMissing = errors.New("template missing")

// Well-known template names.
const (
	Devcontainer = "devcontainer.json"
	MCP          = "mcp.json"
	EnvExample   = "env.example"
	FeaturesDir  = "features"
	ScriptsDir   = "scripts"
	DocsDir      = "docs"
)

// RuntimeScripts are the scripts copied into <project>/.devcontainer/scripts/
// and marked executable.
var RuntimeScripts = []string{
	"setup-certificates.sh",
	"init-firewall.sh",
	"setup-superclaude.sh",
}

// Docs are the onboarding documents copied into <project>/docs/.
var Docs = []string{
	"claude-setup-prompts.md",
	"firewall-allowlist.txt",
}

// Store resolves template names to bytes. The zero value is not usable;
// construct with New or NewAt.
type Store struct {
	dir string // on-disk root, "" when only the embedded copies exist
}

// New locates the template store relative to the running binary's directory.
// It never fails: when <exedir>/templates does not exist the store serves
// the embedded copies.
func New() *Store {
	exe, err := os.Executable()
	if err != nil {
		return &Store{}
	}
	dir := filepath.Join(filepath.Dir(exe), "templates")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return &Store{}
	}
	return &Store{dir: dir}
}

// NewAt returns a store rooted at an explicit directory, falling back to the
// embedded copies for names the directory does not carry. Used by tests and
// by installs that relocate templates.
func NewAt(dir string) *Store {
	return &Store{dir: dir}
}

// Root returns the on-disk root, or "" when the store is embedded-only.
func (s *Store) Root() string { return s.dir }

// Load returns the bytes of the named template. Names use forward slashes
// relative to the store root (e.g. "scripts/init-firewall.sh").
func (s *Store) Load(name string) ([]byte, error) {
	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(name)))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
	}
	data, err := embedded.ReadFile(path.Join("assets", name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, name)
	}
	return data, nil
}

// CopyDir copies the named template subtree into dest, creating directories
// as needed and skipping junk entries (.git, .DS_Store, node_modules).
// Returns the slash-separated relative paths of the files written.
func (s *Store) CopyDir(name, dest string) ([]string, error) {
	root, err := s.subFS(name)
	if err != nil {
		return nil, err
	}

	var written []string
	err = fs.WalkDir(root, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		// Disk roots can carry editor/VCS junk; never copy it into a project.
		if p != "." && fsutil.Excluded(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		target := filepath.Join(dest, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := fs.ReadFile(root, p)
		if err != nil {
			return fmt.Errorf("reading template %s/%s: %w", name, p, err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		written = append(written, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

// Source reports where the named template resolves from: "disk" or
// "embedded". Used by doctor output.
func (s *Store) Source(name string) string {
	if s.dir != "" {
		if _, err := os.Stat(filepath.Join(s.dir, filepath.FromSlash(name))); err == nil {
			return "disk"
		}
	}
	return "embedded"
}

func (s *Store) subFS(name string) (fs.FS, error) {
	if s.dir != "" {
		dir := filepath.Join(s.dir, filepath.FromSlash(name))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), nil
		}
	}
	sub, err := fs.Sub(embedded, path.Join("assets", name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, name)
	}
	// fs.Sub succeeds for nonexistent dirs; probe before walking.
	if _, err := fs.Stat(sub, "."); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, name)
	}
	return sub, nil
}
