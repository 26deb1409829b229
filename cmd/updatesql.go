package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nethalo/oscmig/internal/migrate"
	"github.com/nethalo/oscmig/internal/osc"
)

var updateSQLCmd = &cobra.Command{
	Use:          "update-sql [changelog]",
	Short:        "Print the SQL and pt-online-schema-change commands update would run",
	SilenceUsage: true,
	Long: `Render a changelog as a SQL script without connecting to MySQL.

Delegated changes appear as a comment holding the pt-online-schema-change
command, followed by the statements it replaces (omit those with
--no-alter-sql-dry-mode). The password is always shown as ***.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := loadChangeLog(cmd, args)
		if err != nil {
			return err
		}

		connCfg := connectionConfig()
		passwordFlag(cmd, &connCfg)
		cfg := oscConfig()

		var w io.Writer = cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()
			w = f
		}

		return migrate.New(cl, cfg, osc.NewRunner(cfg.Path), connCfg).UpdateSQL(commandContext(cmd), w)
	},
}

func init() {
	rootCmd.AddCommand(updateSQLCmd)
	addChangeLogFlag(updateSQLCmd)
	updateSQLCmd.Flags().StringP("output", "o", "", "Write the script to a file instead of stdout")
}
