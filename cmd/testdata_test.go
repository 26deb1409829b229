package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

const testChangeLog = `changeSets:
  - id: "1"
    author: alice
    changes:
      - sql: ALTER TABLE person ADD COLUMN address VARCHAR(255) NULL
  - id: "2"
    author: bob
    changes:
      - dropColumn:
          tableName: person
          columnName: legacy
          usePercona: false
`

// writeChangeLog writes content to a changelog file in a temp dir.
func writeChangeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "changelog.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to create changelog: %v", err)
	}
	return path
}

// resetViper gives each test a clean configuration with a known connection.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("host", "localhost")
	viper.Set("port", 3306)
	viper.Set("user", "user")
	viper.Set("database", "testdb")
}
