package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nethalo/oscmig/internal/osc"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage oscmig configuration",
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create config file interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		reader := bufio.NewReader(cmd.InOrStdin())

		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		configDir := filepath.Join(home, ".oscmig")
		configPath := filepath.Join(configDir, "config.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Config file already exists at %s\n", configPath)
			fmt.Fprint(out, "Overwrite? [y/N]: ")
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		// Create config directory
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		fmt.Fprintln(out, "oscmig configuration setup")
		fmt.Fprintln(out, "──────────────────────────")
		fmt.Fprintln(out)

		ask := func(prompt, def string) string {
			if def != "" {
				fmt.Fprintf(out, "%s [%s]: ", prompt, def)
			} else {
				fmt.Fprintf(out, "%s (optional): ", prompt)
			}
			v, _ := reader.ReadString('\n')
			if v = strings.TrimSpace(v); v == "" {
				return def
			}
			return v
		}

		host := ask("MySQL host", defaultHost)
		port := ask("MySQL port", "3306")
		user := ask("MySQL user", defaultUser)
		database := ask("Default database", "")
		format := ask("Default output format", "text")
		toolPath := ask("pt-online-schema-change path", "")
		failIfUnavailable := strings.HasPrefix(strings.ToLower(ask("Fail when pt-online-schema-change is missing (y/n)", "n")), "y")

		// Build config
		var config strings.Builder
		config.WriteString("# oscmig configuration\n\n")

		config.WriteString("connections:\n")
		config.WriteString("  default:\n")
		config.WriteString(fmt.Sprintf("    host: %s\n", host))
		config.WriteString(fmt.Sprintf("    port: %s\n", port))
		config.WriteString(fmt.Sprintf("    user: %s\n", user))
		config.WriteString("    # password: omitted for security, will prompt (or set OSCMIG_PASSWORD)\n")
		if database != "" {
			config.WriteString(fmt.Sprintf("    database: %s\n", database))
		}

		config.WriteString("\ndefaults:\n")
		config.WriteString(fmt.Sprintf("  format: %s\n", format))
		config.WriteString("  log_level: info\n")

		config.WriteString("\npercona:\n")
		if toolPath != "" {
			config.WriteString(fmt.Sprintf("  path: %s\n", toolPath))
		}
		config.WriteString(fmt.Sprintf("  fail_if_unavailable: %v\n", failIfUnavailable))
		config.WriteString("  no_alter_sql_dry_mode: false\n")
		config.WriteString("  default_on: true\n")
		config.WriteString(fmt.Sprintf("  options: %q\n", osc.DefaultOptions))
		config.WriteString("  skip_changes: []\n")

		if err := os.WriteFile(configPath, []byte(config.String()), 0600); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Fprintf(out, "\n✅ Config written to %s\n", configPath)

		if user != "root" {
			fmt.Fprintln(out, "\npt-online-schema-change needs these privileges for the migration user:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  GRANT ALTER, CREATE, DELETE, DROP, INDEX, INSERT, LOCK TABLES, SELECT, TRIGGER, UPDATE ON *.* TO '%s'@'%%';\n", user)
			fmt.Fprintf(out, "  GRANT PROCESS, REPLICATION SLAVE ON *.* TO '%s'@'%%';\n", user)
			fmt.Fprintln(out)
		}

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			fmt.Fprintln(out, "No config file found.")
			fmt.Fprintln(out, "Run 'oscmig config init' to create one.")
			return nil
		}

		fmt.Fprintf(out, "Config file: %s\n\n", configFile)

		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		fmt.Fprintln(out, string(data))

		cfg := oscConfig()
		fmt.Fprintln(out, "Effective pt-online-schema-change policy:")
		fmt.Fprintf(out, "  default_on:            %v\n", cfg.DefaultOn)
		fmt.Fprintf(out, "  fail_if_unavailable:   %v\n", cfg.FailIfUnavailable)
		fmt.Fprintf(out, "  no_alter_sql_dry_mode: %v\n", cfg.NoAlterSQLDryMode)
		fmt.Fprintf(out, "  skip_changes:          %s\n", strings.Join(cfg.SkipChanges, ", "))
		fmt.Fprintf(out, "  options:               %s\n", cfg.DefaultOptions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
