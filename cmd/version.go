package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nethalo/oscmig/internal/osc"
)

const versionTemplate = `oscmig {{.Version}}

Requires pt-online-schema-change ` + osc.MinimumVersion + ` or newer (Percona Toolkit).
`

// Version is set at build time via ldflags
var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print oscmig version and the supported pt-online-schema-change versions",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "oscmig %s (commit: %s, built: %s)\n\n", Version, CommitSHA, BuildDate)
		fmt.Fprintf(out, "Requires pt-online-schema-change %s or newer (Percona Toolkit).\n", osc.MinimumVersion)
		fmt.Fprintf(out, "Default options: %s\n", osc.DefaultOptions)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	// Enable the standard --version flag, matching the `version` subcommand output.
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, CommitSHA, BuildDate)
	rootCmd.SetVersionTemplate(versionTemplate)
}
