package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nethalo/oscmig/internal/migrate"
	"github.com/nethalo/oscmig/internal/osc"
)

var updateCmd = &cobra.Command{
	Use:          "update [changelog]",
	Short:        "Apply a changelog to the database",
	SilenceUsage: true,
	Long: `Apply every change set of a changelog in order.

Changes that qualify run through pt-online-schema-change; the rest execute
directly. All changes are validated before anything runs, and the first
failure stops the run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := loadChangeLog(cmd, args)
		if err != nil {
			return err
		}

		db, connCfg, err := connect(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		cfg := oscConfig()
		runner := osc.NewRunner(cfg.Path)
		runner.SetOutput(cmd.ErrOrStderr())

		res, err := migrate.New(cl, cfg, runner, connCfg).Update(commandContext(cmd), db)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Applied %s (%s, %d via %s, %s executed directly)\n",
			plural(res.ChangeSets, "change set"), plural(res.Changes, "change"),
			res.Delegated, osc.ToolName, plural(res.Statements, "statement"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	addChangeLogFlag(updateCmd)
}
