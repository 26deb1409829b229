package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nethalo/oscmig/internal/osc"
	"github.com/nethalo/oscmig/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "oscmig",
	Short: "Run MySQL schema migrations through pt-online-schema-change",
	Long: `oscmig applies a YAML changelog to MySQL.

Changes that alter a single table (raw ALTER TABLE SQL, dropColumn) are
handed to pt-online-schema-change instead of running a blocking ALTER TABLE.
Everything else runs directly. When the tool is missing, changes fall back
to plain statements unless --fail-if-unavailable is set.

Preview first with update-sql or plan. Nothing is guessed: a change the
tool can't handle safely runs exactly as written.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			logger.SetLevel("debug")
			return
		}
		logger.SetLevel(viper.GetString("log_level"))
	},
}

// Execute is called by main.main(). It adds all child commands to the root
// command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.oscmig/config.yaml)")
	flags.StringP("host", "H", "", "MySQL host")
	flags.IntP("port", "P", 3306, "MySQL port")
	flags.StringP("user", "u", "", "MySQL user")
	flags.StringP("password", "p", "", "MySQL password (will prompt if flag present without value)")
	flags.Lookup("password").NoOptDefVal = "" // Allow -p without value to trigger prompt
	flags.StringP("database", "d", "", "Default database, also the D= of pt-online-schema-change")
	flags.StringP("socket", "S", "", "Unix socket path")
	flags.String("tls", "", "TLS mode: disabled, preferred, required, skip-verify, custom")
	flags.String("tls-ca", "", "CA certificate file for --tls=custom")
	flags.StringP("format", "f", "text", "Output format: text, plain, json, markdown")
	flags.BoolP("verbose", "v", false, "Show additional debug info")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	// pt-online-schema-change policy
	flags.String("percona-path", "", "pt-online-schema-change executable (default: looked up on PATH)")
	flags.Bool("fail-if-unavailable", false, "Fail instead of falling back when pt-online-schema-change is missing")
	flags.Bool("no-alter-sql-dry-mode", false, "In update-sql output, show only the pt-online-schema-change command")
	flags.String("skip-changes", "", "Comma separated change types never delegated, e.g. sql,dropColumn")
	flags.Bool("percona-default-on", true, "Delegate changes that leave usePercona unset")
	flags.String("percona-default-options", osc.DefaultOptions, "Options passed to every pt-online-schema-change invocation")

	// Bind flags to viper
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("user", flags.Lookup("user"))
	viper.BindPFlag("database", flags.Lookup("database"))
	viper.BindPFlag("socket", flags.Lookup("socket"))
	viper.BindPFlag("tls", flags.Lookup("tls"))
	viper.BindPFlag("tls_ca", flags.Lookup("tls-ca"))
	viper.BindPFlag("format", flags.Lookup("format"))
	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("percona.path", flags.Lookup("percona-path"))
	viper.BindPFlag("percona.fail_if_unavailable", flags.Lookup("fail-if-unavailable"))
	viper.BindPFlag("percona.no_alter_sql_dry_mode", flags.Lookup("no-alter-sql-dry-mode"))
	viper.BindPFlag("percona.skip_changes", flags.Lookup("skip-changes"))
	viper.BindPFlag("percona.default_on", flags.Lookup("percona-default-on"))
	viper.BindPFlag("percona.options", flags.Lookup("percona-default-options"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home + "/.oscmig")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("OSCMIG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Silently ignore missing config file, it's optional
	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Using config file", "path", viper.ConfigFileUsed())
		// Map nested config structure to flat keys that flags expect
		// Only set these if the flags haven't been explicitly set by the user
		flags := rootCmd.PersistentFlags()
		if !flags.Changed("host") && viper.IsSet("connections.default.host") {
			viper.Set("host", viper.GetString("connections.default.host"))
		}
		if !flags.Changed("port") && viper.IsSet("connections.default.port") {
			viper.Set("port", viper.GetInt("connections.default.port"))
		}
		if !flags.Changed("user") && viper.IsSet("connections.default.user") {
			viper.Set("user", viper.GetString("connections.default.user"))
		}
		if !flags.Changed("database") && viper.IsSet("connections.default.database") {
			viper.Set("database", viper.GetString("connections.default.database"))
		}
		if !flags.Changed("socket") && viper.IsSet("connections.default.socket") {
			viper.Set("socket", viper.GetString("connections.default.socket"))
		}
		if !flags.Changed("format") && viper.IsSet("defaults.format") {
			viper.Set("format", viper.GetString("defaults.format"))
		}
		if !flags.Changed("log-level") && viper.IsSet("defaults.log_level") {
			viper.Set("log_level", viper.GetString("defaults.log_level"))
		}
	}
}
