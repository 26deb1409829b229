package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	origVersion := Version
	origCommitSHA := CommitSHA
	origBuildDate := BuildDate

	Version = "1.2.3"
	CommitSHA = "abc123"
	BuildDate = "2024-01-15"

	defer func() {
		Version = origVersion
		CommitSHA = origCommitSHA
		BuildDate = origBuildDate
	}()

	output := &bytes.Buffer{}
	versionCmd.SetOut(output)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, []string{})

	result := output.String()
	for _, want := range []string{"1.2.3", "abc123", "2024-01-15", "pt-online-schema-change 3.0.0 or newer", "--nocheck-unique-key-change"} {
		if !strings.Contains(result, want) {
			t.Errorf("output should contain %q, got: %s", want, result)
		}
	}
}

func TestVersionTemplate(t *testing.T) {
	if !strings.Contains(versionTemplate, "{{.Version}}") {
		t.Error("version template should render the version")
	}
	if rootCmd.Version == "" {
		t.Error("rootCmd.Version should be set for --version")
	}
}
