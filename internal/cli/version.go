package cli

import (
	"fmt"

	"github.com/agentpod-labs/agentpod/internal/branding"
	"github.com/agentpod-labs/agentpod/internal/config"
	"github.com/agentpod-labs/agentpod/internal/updater"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", branding.CLIName(), buildVersion)
		fmt.Fprintf(out, "  commit: %s\n", buildCommit)
		fmt.Fprintf(out, "  built:  %s\n", buildDate)

		// Latest known release, from the cache only; never hits the network.
		cache, err := updater.LoadCache(config.Dir())
		if err == nil && cache != nil && cache.LatestVersion != "" {
			fmt.Fprintf(out, "  latest: %s\n", cache.LatestVersion)
		}
	},
}
