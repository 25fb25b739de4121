package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/agentpod-labs/agentpod/internal/branding"
	"github.com/agentpod-labs/agentpod/internal/certs"
	"github.com/agentpod-labs/agentpod/internal/config"
	"github.com/agentpod-labs/agentpod/internal/templates"
	"github.com/agentpod-labs/agentpod/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the scaffolding environment",
	Long: `Check that the template store resolves, report which templates come from
disk versus the embedded copies, probe the certificate search paths, and
verify the host tools a scaffolded workspace expects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store := templates.New()

		fmt.Fprintln(out, ui.Accent("Template store"))
		if root := store.Root(); root != "" {
			fmt.Fprintf(out, "  root: %s\n", root)
		} else {
			fmt.Fprintln(out, "  root: (embedded only)")
		}
		for _, name := range []string{templates.Devcontainer, templates.MCP, templates.EnvExample} {
			if _, err := store.Load(name); err != nil {
				fmt.Fprintln(out, ui.Warn(fmt.Sprintf("  %s: MISSING", name)))
				continue
			}
			fmt.Fprintf(out, "  %s: ok (%s)\n", name, store.Source(name))
		}

		fmt.Fprintln(out, ui.Accent("Certificate probe"))
		home := os.Getenv("HOME")
		var extra []string
		if p := config.Get(config.KeyCertExtraPath); p != "" {
			extra = append(extra, p)
		}
		for _, p := range certs.ProbePaths(home, extra) {
			marker := ui.Dim("absent")
			if _, err := os.Stat(p); err == nil {
				marker = ui.Success("found")
			}
			fmt.Fprintf(out, "  %s: %s\n", p, marker)
		}

		fmt.Fprintln(out, ui.Accent("Environment overrides"))
		for _, key := range []string{config.KeyColor, config.KeyCertExtraPath} {
			name := branding.EnvVar(strings.ReplaceAll(key, ".", "_"))
			if v, ok := os.LookupEnv(name); ok {
				fmt.Fprintf(out, "  %s=%s\n", name, v)
			} else {
				fmt.Fprintf(out, "  %s: %s\n", name, ui.Dim("unset"))
			}
		}

		fmt.Fprintln(out, ui.Accent("Host tools"))
		printTool(out, "docker", "required to build the container")
		printTool(out, "devcontainer", "optional, for CLI-driven container builds")
		printTool(out, "node", "optional, only needed outside the container")

		return nil
	},
}

func printTool(out io.Writer, name, hint string) {
	if _, err := exec.LookPath(name); err != nil {
		fmt.Fprintf(out, "  %s: %s %s\n", name, ui.Warn("not found"), ui.Dim("("+hint+")"))
		return
	}
	fmt.Fprintf(out, "  %s: %s\n", name, ui.Success("ok"))
}
