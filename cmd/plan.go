package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nethalo/oscmig/internal/migrate"
	"github.com/nethalo/oscmig/internal/osc"
	"github.com/nethalo/oscmig/internal/output"
	"github.com/nethalo/oscmig/internal/topology"
)

var planCmd = &cobra.Command{
	Use:          "plan [changelog]",
	Short:        "Show which changes would run through pt-online-schema-change",
	SilenceUsage: true,
	Long: `Report, for every change of a changelog:
  - Target table and the ALTER operations it performs
  - Whether pt-online-schema-change would be used, and why not
  - The exact pt-online-schema-change command
  - Validation errors and warnings
  - Table size, row count and topology warnings (with --stats, needs a connection)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := loadChangeLog(cmd, args)
		if err != nil {
			return err
		}

		cfg := oscConfig()
		connCfg := connectionConfig()
		passwordFlag(cmd, &connCfg)

		ctx := commandContext(cmd)
		var (
			db   *sql.DB
			topo *topology.Info
		)
		if stats, _ := cmd.Flags().GetBool("stats"); stats {
			db, connCfg, err = connect(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if topo, err = topology.Detect(ctx, db); err != nil {
				return fmt.Errorf("topology detection failed: %w", err)
			}
		}

		entries, err := migrate.New(cl, cfg, osc.NewRunner(cfg.Path), connCfg).Plan(ctx, db)
		if err != nil {
			return err
		}

		renderer := output.NewRenderer(viper.GetString("format"), cmd.OutOrStdout())
		renderer.RenderPlan(&output.PlanReport{
			ChangeLog: cl.Path,
			Config:    cfg,
			Entries:   entries,
			Topology:  topo,
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addChangeLogFlag(planCmd)
	planCmd.Flags().Bool("stats", false, "Connect to MySQL and show size and row count of each target table")
}
