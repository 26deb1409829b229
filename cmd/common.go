package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nethalo/oscmig/internal/changelog"
	"github.com/nethalo/oscmig/internal/mysql"
	"github.com/nethalo/oscmig/internal/osc"
)

const (
	defaultHost = "127.0.0.1"
	defaultUser = "oscmig"

	maxChangeLogSize = 10 * 1024 * 1024
)

// connectionConfig builds the connection from flags, environment and config.
func connectionConfig() mysql.ConnectionConfig {
	connCfg := mysql.ConnectionConfig{
		Host:     viper.GetString("host"),
		Port:     viper.GetInt("port"),
		User:     viper.GetString("user"),
		Password: viper.GetString("password"),
		Database: viper.GetString("database"),
		Socket:   viper.GetString("socket"),
		TLSMode:  viper.GetString("tls"),
		TLSCA:    viper.GetString("tls_ca"),
	}

	if connCfg.Host == "" && connCfg.Socket == "" {
		connCfg.Host = defaultHost
	}
	if connCfg.User == "" {
		connCfg.User = defaultUser
	}
	return connCfg
}

// passwordFlag applies an explicit --password value over the environment.
func passwordFlag(cmd *cobra.Command, connCfg *mysql.ConnectionConfig) {
	if f := cmd.Flags().Lookup("password"); f != nil && f.Changed && f.Value.String() != "" {
		connCfg.Password = f.Value.String()
	}
}

// connect opens the MySQL connection, prompting for a password if none was
// given.
func connect(cmd *cobra.Command) (*sql.DB, mysql.ConnectionConfig, error) {
	connCfg := connectionConfig()
	passwordFlag(cmd, &connCfg)

	// Prompt for password if not provided
	if connCfg.Password == "" {
		connCfg.Password = mysql.PromptPassword()
	}

	db, err := mysql.Connect(commandContext(cmd), connCfg)
	if err != nil {
		return nil, connCfg, fmt.Errorf("connection failed: %w", err)
	}
	return db, connCfg, nil
}

// oscConfig builds the pt-online-schema-change policy. Keys that are not
// set keep osc.DefaultConfig values.
func oscConfig() osc.Config {
	cfg := osc.DefaultConfig()
	cfg.FailIfUnavailable = viper.GetBool("percona.fail_if_unavailable")
	cfg.NoAlterSQLDryMode = viper.GetBool("percona.no_alter_sql_dry_mode")
	cfg.Path = viper.GetString("percona.path")
	if viper.IsSet("percona.default_on") {
		cfg.DefaultOn = viper.GetBool("percona.default_on")
	}
	if viper.IsSet("percona.options") {
		cfg.DefaultOptions = viper.GetString("percona.options")
	}

	// accepts a YAML list or a comma separated string
	for _, item := range viper.GetStringSlice("percona.skip_changes") {
		cfg.SkipChanges = append(cfg.SkipChanges, osc.ParseSkipList(item)...)
	}
	return cfg
}

// loadChangeLog reads the changelog named by the first argument or --changelog.
func loadChangeLog(cmd *cobra.Command, args []string) (*changelog.ChangeLog, error) {
	path, _ := cmd.Flags().GetString("changelog")
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, fmt.Errorf("provide a changelog file as argument or use --changelog flag")
	}
	if err := validateChangeLogPath(path); err != nil {
		return nil, err
	}
	return changelog.Load(filepath.Clean(path))
}

// validateChangeLogPath rejects anything but a readable regular file of sane size.
func validateChangeLogPath(path string) error {
	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() > maxChangeLogSize {
		return fmt.Errorf("file too large: %s is %d bytes (max %d)", path, info.Size(), maxChangeLogSize)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func addChangeLogFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("changelog", "c", "", "Changelog file (instead of the argument)")
}

func plural(n int, word string) string {
	if n != 1 {
		word += "s"
	}
	return fmt.Sprintf("%d %s", n, word)
}
