package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nethalo/oscmig/internal/mysql"
	"github.com/nethalo/oscmig/internal/osc"
	"github.com/nethalo/oscmig/internal/output"
	"github.com/nethalo/oscmig/internal/topology"
)

var connectCmd = &cobra.Command{
	Use:          "connect",
	Short:        "Test connection and pt-online-schema-change availability",
	SilenceUsage: true, // Don't show usage on errors
	Long: `Connect to a MySQL instance, show its version and topology, and check that
pt-online-schema-change can be found and is recent enough.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, connCfg, err := connect(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := commandContext(cmd)
		version, err := mysql.GetServerVersion(ctx, conn)
		if err != nil {
			return fmt.Errorf("version detection failed: %w", err)
		}

		topo, err := topology.Detect(ctx, conn)
		if err != nil {
			return fmt.Errorf("topology detection failed: %w", err)
		}

		cfg := oscConfig()
		info := &output.ConnectionInfo{
			Conn:     connCfg,
			Version:  version,
			ToolPath: cfg.Path,
			Topology: topo,
		}
		toolVersion, err := osc.NewRunner(cfg.Path).Version()
		switch {
		case err != nil:
			info.ToolError = err.Error()
		case toolVersion != nil:
			info.ToolVersion = toolVersion.String()
		}

		// Render output
		renderer := output.NewRenderer(viper.GetString("format"), cmd.OutOrStdout())
		renderer.RenderConnection(info)

		if info.ToolVersion == "" && cfg.FailIfUnavailable {
			return fmt.Errorf("%w: %s", osc.ErrToolUnavailable, info.ToolError)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
}
