package osc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nethalo/oscmig/internal/change"
	"github.com/nethalo/oscmig/pkg/logger"
)

// writeScript creates an executable shell script standing in for the tool.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), ToolName)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

const versionScript = `if [ "$1" = "--version" ]; then echo "pt-online-schema-change 3.5.5"; exit 0; fi`

func TestParseToolVersion(t *testing.T) {
	tests := []struct {
		out     string
		want    string
		wantErr bool
	}{
		{"pt-online-schema-change 3.5.5\n", "3.5.5", false},
		{"pt-online-schema-change 2.2.20", "2.2.20", false},
		{"3.6", "3.6.0", false},
		{"command not found", "", true},
	}
	for _, tt := range tests {
		v, err := ParseToolVersion(tt.out)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseToolVersion(%q) error = %v, wantErr %v", tt.out, err, tt.wantErr)
			continue
		}
		if err == nil && v.String() != tt.want {
			t.Errorf("ParseToolVersion(%q) = %s, want %s", tt.out, v, tt.want)
		}
	}
}

func TestRunnerAvailable(t *testing.T) {
	r := NewRunner(writeScript(t, versionScript))
	if !r.Available() {
		_, err := r.Version()
		t.Fatalf("Available() = false: %v", err)
	}
	v, err := r.Version()
	if err != nil || v.String() != "3.5.5" {
		t.Errorf("Version() = %v, %v", v, err)
	}
}

func TestRunnerTooOld(t *testing.T) {
	r := NewRunner(writeScript(t, `echo "pt-online-schema-change 2.2.20"`))
	if r.Available() {
		t.Fatal("Available() = true for 2.2.20")
	}
	if _, err := r.Version(); err == nil || !strings.Contains(err.Error(), "older than") {
		t.Errorf("Version() error = %v", err)
	}
}

func TestRunnerMissing(t *testing.T) {
	r := NewRunner(filepath.Join(t.TempDir(), "does-not-exist"))
	if r.Available() {
		t.Error("Available() = true for a missing executable")
	}
}

func TestRunnerDefaultPath(t *testing.T) {
	if r := NewRunner(""); r.path != ToolName {
		t.Errorf("path = %q, want %q", r.path, ToolName)
	}
}

func TestRunnerInvoke(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	path := writeScript(t, versionScript+`
for a in "$@"; do echo "$a" >> `+argsFile+`; done
echo "Successfully altered person"`)

	var out bytes.Buffer
	r := NewRunner(path)
	r.SetOutput(&out)

	cmd := NewCommand(&change.DropColumn{TableName: "person", ColumnName: "age"}, testConn, DefaultConfig())
	if err := r.Invoke(context.Background(), cmd); err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if !strings.Contains(out.String(), "Successfully altered person") {
		t.Errorf("output = %q", out.String())
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if strings.Join(got, "|") != strings.Join(cmd.Args(), "|") {
		t.Errorf("args = %q, want %q", got, cmd.Args())
	}
}

func TestRunnerInvokeFailure(t *testing.T) {
	path := writeScript(t, `echo "starting"; echo "Error altering person: lock wait timeout" >&2; exit 2`)
	r := NewRunner(path)
	r.SetOutput(&bytes.Buffer{})

	cmd := NewCommand(&change.DropColumn{TableName: "person", ColumnName: "age"}, testConn, DefaultConfig())
	err := r.Invoke(context.Background(), cmd)
	if err == nil {
		t.Fatal("Invoke() error = nil")
	}
	if !strings.Contains(err.Error(), "lock wait timeout") {
		t.Errorf("error = %v, want the last output line", err)
	}
}

func TestRunnerInvokeCancelled(t *testing.T) {
	path := writeScript(t, `sleep 5`)
	r := NewRunner(path)
	r.SetOutput(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewCommand(&change.DropColumn{TableName: "person", ColumnName: "age"}, testConn, DefaultConfig())
	if err := r.Invoke(ctx, cmd); err == nil || !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("Invoke() error = %v, want failure on cancelled context", err)
	}
}

func TestRunnerInvokeInterleavedStreams(t *testing.T) {
	path := writeScript(t, `i=0
while [ $i -lt 2000 ]; do
	echo "out $i"
	echo "err $i" >&2
	i=$((i+1))
done
echo "Error altering person: done" >&2
exit 1`)

	var out bytes.Buffer
	r := NewRunner(path)
	r.SetOutput(&out)

	cmd := NewCommand(&change.DropColumn{TableName: "person", ColumnName: "age"}, testConn, DefaultConfig())
	err := r.Invoke(context.Background(), cmd)
	if err == nil || !strings.HasSuffix(err.Error(), "Error altering person: done") {
		t.Errorf("Invoke() error = %v, want the last output line", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4001 {
		t.Errorf("got %d output lines, want 4001", len(lines))
	}
	for i, line := range lines[:len(lines)-1] {
		if !strings.HasPrefix(line, "out ") && !strings.HasPrefix(line, "err ") {
			t.Fatalf("line %d = %q, want an intact line", i, line)
		}
	}
}

func TestRunnerInvokeLogsUnterminatedLine(t *testing.T) {
	path := writeScript(t, `printf "Successfully altered person"`)

	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer logger.SetOutput(io.Discard)

	r := NewRunner(path)
	cmd := NewCommand(&change.DropColumn{TableName: "person", ColumnName: "age"}, testConn, DefaultConfig())
	if err := r.Invoke(context.Background(), cmd); err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if !strings.Contains(logs.String(), "Successfully altered person") {
		t.Errorf("logs = %q, want the unterminated last line", logs.String())
	}
}

func TestLogWriterBuffersPartialLines(t *testing.T) {
	w := &logWriter{}
	w.Write([]byte("Copying `testdb`.`person`:  10% 01:02 remain\nCopy"))
	if string(w.buf) != "Copy" {
		t.Errorf("buf = %q, want the partial line", w.buf)
	}
	w.Write([]byte("ing done\n"))
	if len(w.buf) != 0 {
		t.Errorf("buf = %q, want empty", w.buf)
	}
}

func TestLogWriterFlush(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer logger.SetOutput(io.Discard)

	w := &logWriter{}
	w.Write([]byte("Altered `testdb`.`person`"))
	if logs.Len() != 0 {
		t.Fatalf("logged %q before Flush", logs.String())
	}
	w.Flush()
	if !strings.Contains(logs.String(), "Altered `testdb`.`person`") {
		t.Errorf("logs = %q", logs.String())
	}
	if len(w.buf) != 0 {
		t.Errorf("buf = %q, want empty after Flush", w.buf)
	}
}
