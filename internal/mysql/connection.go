package mysql

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"os"
	"syscall"

	mysqldriver "github.com/go-sql-driver/mysql"
	"golang.org/x/term"
)

// ConnectionConfig holds MySQL connection parameters. It also describes the
// connection to pt-online-schema-change, which reuses host, port, user and
// Database (the default catalog) in its DSN.
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Socket   string
	TLSMode  string // "", "disabled", "preferred", "required", "skip-verify", "custom"
	TLSCA    string // path to CA certificate file (required when TLSMode == "custom")
}

// Address returns host:port, or the socket path for socket connections.
func (c ConnectionConfig) Address() string {
	if c.Socket != "" {
		return c.Socket
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Connect establishes a MySQL connection.
func Connect(ctx context.Context, cfg ConnectionConfig) (*sql.DB, error) {
	if cfg.TLSMode == "custom" {
		if cfg.TLSCA == "" {
			return nil, fmt.Errorf("--tls-ca is required when --tls=custom")
		}
		// must be registered before the driver config is normalized
		if err := registerCustomTLS(cfg.TLSCA); err != nil {
			return nil, fmt.Errorf("TLS setup failed: %w", err)
		}
	}

	dc, err := driverConfig(cfg)
	if err != nil {
		return nil, err
	}
	connector, err := mysqldriver.NewConnector(dc)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	// Changes run one at a time
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)

	return db, nil
}

// registerCustomTLS reads a CA certificate PEM file and registers it as a named TLS config.
func registerCustomTLS(caPath string) error {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return fmt.Errorf("reading CA certificate %q: %w", caPath, err)
	}

	rootCAs := x509.NewCertPool()
	if !rootCAs.AppendCertsFromPEM(pem) {
		return fmt.Errorf("no valid certificates found in %q", caPath)
	}

	return mysqldriver.RegisterTLSConfig(customTLSName, &tls.Config{
		RootCAs: rootCAs,
	})
}

const customTLSName = "oscmig-custom"

// tlsParams maps --tls modes to the driver's tls parameter.
var tlsParams = map[string]string{
	"":            "",
	"disabled":    "",
	"preferred":   "preferred",
	"required":    "true",
	"skip-verify": "skip-verify",
	"custom":      customTLSName,
}

// driverConfig translates cfg into a go-sql-driver config. Multi statements
// are enabled because sql changes with splitStatements: false run as one
// Exec.
func driverConfig(cfg ConnectionConfig) (*mysqldriver.Config, error) {
	tlsParam, ok := tlsParams[cfg.TLSMode]
	if !ok {
		return nil, fmt.Errorf("invalid TLS mode %q: valid values are disabled, preferred, required, skip-verify, custom", cfg.TLSMode)
	}

	dc := mysqldriver.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	if cfg.Socket != "" {
		dc.Net = "unix"
		dc.Addr = cfg.Socket
	} else {
		dc.Net = "tcp"
		dc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	}
	dc.DBName = cfg.Database
	if dc.DBName == "" {
		dc.DBName = "information_schema"
	}
	dc.ParseTime = true
	dc.InterpolateParams = true
	dc.MultiStatements = true
	dc.TLSConfig = tlsParam
	return dc, nil
}

// PromptPassword reads a password from the terminal without echoing.
func PromptPassword() string {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Println() // newline after hidden input
	if err != nil {
		return ""
	}
	return string(password)
}
