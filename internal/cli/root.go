// Package cli wires the cobra command tree: the scaffolding operation on the
// root command plus version, doctor, and config subcommands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentpod-labs/agentpod/internal/branding"
	"github.com/agentpod-labs/agentpod/internal/config"
	"github.com/agentpod-labs/agentpod/internal/scaffold"
	"github.com/agentpod-labs/agentpod/internal/templates"
	"github.com/agentpod-labs/agentpod/internal/ui"
	"github.com/agentpod-labs/agentpod/internal/updater"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// errUsage marks argument errors that should reproduce the usage text.
var errUsage = errors.New("usage error")

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <project_name> [workdir]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` materialises a new dev-container workspace for an AI coding
agent: container definition, build-time features, runtime setup scripts, MCP
server manifest, environment template, and onboarding docs.

The workdir defaults to the current directory; a relative workdir resolves
against the directory the ` + branding.CLIName() + ` binary is installed in.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("%w: missing required <project_name>", errUsage)
		}
		if len(args) > 2 {
			return fmt.Errorf("%w: expected <project_name> [workdir], got %d arguments", errUsage, len(args))
		}
		return nil
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		ui.SetMode(config.Get(config.KeyColor))

		// Skip the banner for commands that report their own version state.
		if cmd.Name() == "version" {
			return
		}

		// Non-blocking banner from the cached version check.
		u := updater.New(buildVersion)
		u.CheckAndPrintBanner(os.Stderr, config.Dir())
	},
	RunE: runScaffold,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, rootCmd.UsageString())
	}
	return err
}

func runScaffold(cmd *cobra.Command, args []string) error {
	workdir := ""
	if len(args) == 2 {
		workdir = args[1]
	}

	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	var extraCerts []string
	if p := config.Get(config.KeyCertExtraPath); p != "" {
		extraCerts = append(extraCerts, p)
	}

	job := scaffold.NewJob(args[0], workdir, exeDir, cwd, home, extraCerts, templates.New())
	report, err := job.Run()
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, report *scaffold.Report) {
	fmt.Fprintln(w, ui.Success(fmt.Sprintf("Scaffolded workspace at %s", report.Dest)))
	for _, f := range report.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}

	fmt.Fprintf(w, "\n%s %s\n", ui.Accent("MCP servers:"), serverList(report.Servers))
	fmt.Fprintf(w, "%s %s\n", ui.Accent("postCreate:"), ui.Dim(report.Lifecycle))
	if report.CertSource != "" {
		fmt.Fprintf(w, "%s %s\n", ui.Accent("certificate:"), report.CertSource)
	}

	for _, adv := range report.Advisories {
		fmt.Fprintln(w, ui.Warn("  advisory: "+adv))
	}

	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  1. cd %s and fill in .env\n", report.Dest)
	fmt.Fprintln(w, "  2. Open in your editor and reopen in container")
	fmt.Fprintln(w, "  3. Work through docs/claude-setup-prompts.md")
}

func serverList(ids []string) string {
	if len(ids) == 0 {
		return ui.Dim("(none)")
	}
	return strings.Join(ids, ", ")
}
