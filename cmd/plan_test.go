package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func runPlan(t *testing.T, format string, args ...string) string {
	t.Helper()
	resetViper(t)
	viper.Set("format", format)
	viper.Set("percona.path", "/nonexistent/pt-online-schema-change")

	output := &bytes.Buffer{}
	planCmd.SetOut(output)
	defer planCmd.SetOut(nil)

	if err := planCmd.RunE(planCmd, args); err != nil {
		t.Fatalf("plan should succeed: %v", err)
	}
	return output.String()
}

func TestPlanCmd_Plain(t *testing.T) {
	out := runPlan(t, "plain", writeChangeLog(t, testChangeLog))

	expects := []string{
		"=== oscmig plan ===",
		"Changes:       2",
		"Delegated:     0",
		"--- 1::alice #1 sql ---",
		"Operations:    ADD_COLUMN",
		"Reason:        pt-online-schema-change is not available",
		`Command:       pt-online-schema-change --alter-foreign-keys-method=auto --nocheck-unique-key-change --alter="ADD COLUMN address VARCHAR(255) NULL" --password=*** --execute h=localhost,P=3306,u=user,D=testdb,t=person`,
		"--- 2::bob #1 dropColumn ---",
		"Reason:        usePercona is false",
	}
	for _, e := range expects {
		if !strings.Contains(out, e) {
			t.Errorf("plan output missing %q\n%s", e, out)
		}
	}
}

func TestPlanCmd_JSON(t *testing.T) {
	out := runPlan(t, "json", writeChangeLog(t, testChangeLog))

	var report struct {
		Changes int `json:"changes"`
		Entries []struct {
			Table  string `json:"table"`
			Reason string `json:"reason"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if report.Changes != 2 || report.Entries[0].Table != "person" {
		t.Errorf("report = %+v", report)
	}
}

func TestPlanCmd_MissingChangeLog(t *testing.T) {
	resetViper(t)
	err := planCmd.RunE(planCmd, []string{"/nonexistent/changelog.yaml"})
	if err == nil || !strings.Contains(err.Error(), "cannot access file") {
		t.Errorf("plan error = %v", err)
	}
}

func TestPlanCmd_Flags(t *testing.T) {
	for _, name := range []string{"changelog", "stats"} {
		if planCmd.Flags().Lookup(name) == nil {
			t.Errorf("plan should have --%s", name)
		}
	}
}
