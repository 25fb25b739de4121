// Package scaffold sequences the scaffolding pipeline: materialise the
// destination tree, render the container definition, resolve the toggle
// vector from it, assemble the MCP manifest, splice the lifecycle command,
// and probe the host for a corporate certificate.
//
// The pipeline state travels in an immutable Job value; nothing here keeps
// process-wide state.
package scaffold

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/agentpod-labs/agentpod/internal/certs"
	"github.com/agentpod-labs/agentpod/internal/devcontainer"
	"github.com/agentpod-labs/agentpod/internal/fsutil"
	"github.com/agentpod-labs/agentpod/internal/mcp"
	"github.com/agentpod-labs/agentpod/internal/platform"
	"github.com/agentpod-labs/agentpod/internal/templates"
)

// Job is the full input of one scaffolding run.
type Job struct {
	// Name is the container name: the basename of the project argument.
	Name string
	// Dest is the absolute path of the project tree to create.
	Dest string
	// Home is the host home directory used by the certificate probe.
	Home string
	// ExtraCertPaths are probed before the built-in certificate locations.
	ExtraCertPaths []string
	// Store resolves template names.
	Store *templates.Store
}

// Report summarises a completed run.
type Report struct {
	Dest       string
	Files      []string // relative paths written, in write order
	Toggles    devcontainer.Toggles
	Servers    []string // manifest server ids, in manifest order
	Lifecycle  string
	CertSource string   // host path the certificate came from, "" on miss
	Advisories []string // non-fatal diagnostics
}

// NewJob builds a Job from the CLI arguments. workdir defaults to cwd; a
// relative workdir resolves against exeDir (the scaffolder's own directory),
// which is the documented invocation semantics.
func NewJob(projectArg, workdir, exeDir, cwd, home string, extraCertPaths []string, store *templates.Store) Job {
	resolved := ResolveWorkdir(workdir, exeDir, cwd)
	return Job{
		Name:           path.Base(filepath.ToSlash(projectArg)),
		Dest:           filepath.Join(resolved, filepath.FromSlash(projectArg)),
		Home:           home,
		ExtraCertPaths: extraCertPaths,
		Store:          store,
	}
}

// ResolveWorkdir returns the absolute working directory for a run.
func ResolveWorkdir(workdir, exeDir, cwd string) string {
	if workdir == "" {
		return cwd
	}
	if filepath.IsAbs(workdir) {
		return workdir
	}
	return filepath.Join(exeDir, workdir)
}

// Run executes the pipeline. Any step's error aborts the run; the partially
// written destination tree is left as-is for inspection, never rolled back.
func (job Job) Run() (*Report, error) {
	report := &Report{Dest: job.Dest}

	// Refuse to scaffold over existing work. An empty pre-existing
	// directory is fine.
	if info, err := os.Stat(job.Dest); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("destination %s exists and is not a directory", job.Dest)
		}
		empty, err := fsutil.IsEmptyDir(job.Dest)
		if err != nil {
			return nil, err
		}
		if !empty {
			return nil, fmt.Errorf("destination %s is not empty; remove existing files first", job.Dest)
		}
	}

	for _, dir := range []string{
		"",
		"docs",
		filepath.Join(".devcontainer", "certs"),
		filepath.Join(".devcontainer", "scripts"),
	} {
		target := filepath.Join(job.Dest, dir)
		if err := os.MkdirAll(target, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", target, err)
		}
	}

	// Build-time feature tree: opaque passthrough for the container build.
	featureFiles, err := job.Store.CopyDir(templates.FeaturesDir, filepath.Join(job.Dest, ".devcontainer", "features"))
	if err != nil {
		return nil, err
	}
	for _, f := range featureFiles {
		rel := path.Join(".devcontainer", "features", f)
		report.Files = append(report.Files, rel)
		if path.Ext(f) == ".sh" {
			if err := platform.MarkExecutable(filepath.Join(job.Dest, filepath.FromSlash(rel))); err != nil {
				return nil, fmt.Errorf("marking %s executable: %w", rel, err)
			}
		}
	}

	if err := job.copyStatic(report); err != nil {
		return nil, err
	}

	// Render the container definition. It is the source of truth for the
	// toggle vector: everything downstream derives from the rendered bytes.
	dcTemplate, err := job.Store.Load(templates.Devcontainer)
	if err != nil {
		return nil, err
	}
	rendered, err := devcontainer.Render(dcTemplate, job.Name)
	if err != nil {
		return nil, err
	}
	dcPath := path.Join(".devcontainer", "devcontainer.json")
	if err := job.write(dcPath, rendered, 0644, report); err != nil {
		return nil, err
	}

	toggles, err := devcontainer.ResolveToggles(rendered)
	if err != nil {
		return nil, err
	}
	report.Toggles = toggles

	mcpTemplate, err := job.Store.Load(templates.MCP)
	if err != nil {
		return nil, err
	}
	manifest, err := mcp.Assemble(mcpTemplate, toggles)
	if err != nil {
		return nil, err
	}
	if err := job.write(".mcp.json", manifest, 0644, report); err != nil {
		return nil, err
	}
	report.Servers = mcp.ServerIDs(manifest)

	// The lifecycle command goes back into the already-written definition.
	report.Lifecycle = devcontainer.ComposeLifecycle(toggles)
	spliced, err := devcontainer.SpliceLifecycle(rendered, report.Lifecycle)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(job.Dest, filepath.FromSlash(dcPath)), spliced, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", dcPath, err)
	}

	if src, found := certs.Probe(job.Home, job.ExtraCertPaths); found {
		if err := certs.Install(src, filepath.Join(job.Dest, ".devcontainer", "certs")); err != nil {
			return nil, err
		}
		report.CertSource = src
		report.Files = append(report.Files, path.Join(".devcontainer", "certs", certs.DestName))
	} else {
		report.Advisories = append(report.Advisories,
			"no corporate certificate found on host; setup-certificates.sh will skip installation")
	}

	return report, nil
}

// copyStatic writes the env template, the onboarding docs, and the runtime
// scripts (executable) into the destination tree.
func (job Job) copyStatic(report *Report) error {
	env, err := job.Store.Load(templates.EnvExample)
	if err != nil {
		return err
	}
	if err := job.write(".env", env, 0644, report); err != nil {
		return err
	}

	for _, doc := range templates.Docs {
		data, err := job.Store.Load(path.Join(templates.DocsDir, doc))
		if err != nil {
			return err
		}
		if err := job.write(path.Join("docs", doc), data, 0644, report); err != nil {
			return err
		}
	}

	for _, script := range templates.RuntimeScripts {
		data, err := job.Store.Load(path.Join(templates.ScriptsDir, script))
		if err != nil {
			return err
		}
		rel := path.Join(".devcontainer", "scripts", script)
		if err := job.write(rel, data, 0755, report); err != nil {
			return err
		}
	}

	return nil
}

// write stores data at the relative path under Dest and records it in the
// report. The exec bits of mode are applied via the platform shim.
func (job Job) write(rel string, data []byte, mode os.FileMode, report *Report) error {
	target := filepath.Join(job.Dest, filepath.FromSlash(rel))
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if mode&0111 != 0 {
		if err := platform.Chmod(target, mode); err != nil {
			return fmt.Errorf("marking %s executable: %w", target, err)
		}
	}
	report.Files = append(report.Files, rel)
	return nil
}
