package scaffold

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/agentpod-labs/agentpod/internal/templates"
)

func testJob(t *testing.T) Job {
	t.Helper()
	return Job{
		Name:  "api-service",
		Dest:  filepath.Join(t.TempDir(), "api-service"),
		Home:  t.TempDir(),
		Store: templates.NewAt(t.TempDir()),
	}
}

func TestRunProducesTree(t *testing.T) {
	job := testJob(t)
	report, err := job.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, rel := range []string{
		".devcontainer/devcontainer.json",
		".devcontainer/scripts/setup-certificates.sh",
		".devcontainer/scripts/init-firewall.sh",
		".devcontainer/scripts/setup-superclaude.sh",
		".devcontainer/features/agent-tools/devcontainer-feature.json",
		".devcontainer/features/agent-tools/install.sh",
		"docs/claude-setup-prompts.md",
		"docs/firewall-allowlist.txt",
		".env",
		".mcp.json",
	} {
		if _, err := os.Stat(filepath.Join(job.Dest, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	// certs/ exists even when the probe misses.
	info, err := os.Stat(filepath.Join(job.Dest, ".devcontainer", "certs"))
	if err != nil || !info.IsDir() {
		t.Error(".devcontainer/certs directory missing")
	}
	if _, err := os.Stat("/usr/local/share/ca-certificates/zscaler.crt"); err != nil {
		if report.CertSource != "" {
			t.Errorf("CertSource = %q with empty home", report.CertSource)
		}
		if len(report.Advisories) == 0 {
			t.Error("probe miss should produce an advisory")
		}
	}
}

func TestRunScriptsAreExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no exec bits on windows")
	}
	job := testJob(t)
	if _, err := job.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, script := range []string{"setup-certificates.sh", "init-firewall.sh", "setup-superclaude.sh"} {
		info, err := os.Stat(filepath.Join(job.Dest, ".devcontainer", "scripts", script))
		if err != nil {
			t.Fatalf("stat %s: %v", script, err)
		}
		if info.Mode().Perm()&0111 == 0 {
			t.Errorf("%s is not executable", script)
		}
	}
}

func TestRunArtefactsAgree(t *testing.T) {
	job := testJob(t)
	report, err := job.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	dc, err := os.ReadFile(filepath.Join(job.Dest, ".devcontainer", "devcontainer.json"))
	if err != nil {
		t.Fatal(err)
	}
	manifest, err := os.ReadFile(filepath.Join(job.Dest, ".mcp.json"))
	if err != nil {
		t.Fatal(err)
	}

	// Template defaults: all SuperClaude categories on, task-master off.
	if got := gjson.GetBytes(dc, "name").String(); got != "api-service" {
		t.Errorf("container name = %q", got)
	}

	servers := gjson.GetBytes(manifest, "mcpServers").Map()
	for _, id := range []string{"context7", "sequential-thinking", "magic", "playwright", "morphllm-fast-apply", "serena"} {
		if _, ok := servers[id]; !ok {
			t.Errorf("manifest missing %s", id)
		}
	}
	if _, ok := servers["task-master-ai"]; ok {
		t.Error("task-master-ai present despite toggle off")
	}

	// Lifecycle in the written definition matches the report and the toggles.
	cmd := gjson.GetBytes(dc, "postCreateCommand").String()
	if cmd != report.Lifecycle {
		t.Errorf("postCreateCommand = %q, report says %q", cmd, report.Lifecycle)
	}
	steps := strings.Split(cmd, " && ")
	if len(steps) != 3 {
		t.Errorf("postCreateCommand has %d steps, want 3: %q", len(steps), cmd)
	}
}

func TestRunRefusesNonEmptyDest(t *testing.T) {
	job := testJob(t)
	if err := os.MkdirAll(job.Dest, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(job.Dest, "existing.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := job.Run(); err == nil {
		t.Fatal("Run() into non-empty destination should fail")
	}
}

func TestRunAcceptsEmptyExistingDest(t *testing.T) {
	job := testJob(t)
	if err := os.MkdirAll(job.Dest, 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := job.Run(); err != nil {
		t.Fatalf("Run() into empty existing dir error: %v", err)
	}
}

func TestRunCopiesHostCertificate(t *testing.T) {
	job := testJob(t)
	certPath := filepath.Join(job.Home, ".ssl", "certs", "zscaler.crt")
	content := "-----BEGIN CERTIFICATE-----\nAAA\n-----END CERTIFICATE-----\n"
	if err := os.MkdirAll(filepath.Dir(certPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(certPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := job.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.CertSource != certPath {
		t.Errorf("CertSource = %q, want %q", report.CertSource, certPath)
	}

	got, err := os.ReadFile(filepath.Join(job.Dest, ".devcontainer", "certs", "zscaler.crt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Error("certificate not copied byte-for-byte")
	}
}

func TestResolveWorkdir(t *testing.T) {
	cases := []struct {
		name    string
		workdir string
		want    string
	}{
		{"empty defaults to cwd", "", "/cwd"},
		{"absolute stays", "/abs/path", "/abs/path"},
		{"relative resolves against exe dir", "projects", filepath.Join("/exe", "projects")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveWorkdir(tc.workdir, "/exe", "/cwd"); got != tc.want {
				t.Errorf("ResolveWorkdir(%q) = %q, want %q", tc.workdir, got, tc.want)
			}
		})
	}
}

func TestNewJobUsesBasename(t *testing.T) {
	job := NewJob("team/api-service", "", "/exe", "/cwd", "/home/u", nil, templates.NewAt(t.TempDir()))
	if job.Name != "api-service" {
		t.Errorf("Name = %q, want basename", job.Name)
	}
	if job.Dest != filepath.Join("/cwd", "team", "api-service") {
		t.Errorf("Dest = %q", job.Dest)
	}
}
