package osc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/hashicorp/go-version"

	"github.com/nethalo/oscmig/pkg/logger"
)

// MinimumVersion is the oldest pt-online-schema-change accepted. Older
// releases lack --nocheck-unique-key-change.
const MinimumVersion = "3.0.0"

var reVersion = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// Runner runs pt-online-schema-change as a child process. Availability is
// probed once, with "--version", and cached for the Runner's lifetime.
type Runner struct {
	path   string
	output io.Writer // nil logs each output line at info

	once      sync.Once
	available bool
	version   *version.Version
	probeErr  error
}

// NewRunner returns a Runner for the executable at path, or ToolName
// looked up on PATH when path is empty.
func NewRunner(path string) *Runner {
	if path == "" {
		path = ToolName
	}
	return &Runner{path: path}
}

// SetOutput copies the tool's stdout and stderr to w instead of the logger.
func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) Available() bool {
	r.probe()
	return r.available
}

// Version returns the detected version, or an error explaining why the tool
// is not available.
func (r *Runner) Version() (*version.Version, error) {
	r.probe()
	return r.version, r.probeErr
}

func (r *Runner) probe() {
	r.once.Do(func() {
		r.version, r.probeErr = r.detectVersion()
		r.available = r.probeErr == nil
		if r.probeErr != nil {
			logger.Debug("pt-online-schema-change not available", "path", r.path, "reason", r.probeErr)
		}
	})
}

func (r *Runner) detectVersion() (*version.Version, error) {
	bin, err := exec.LookPath(r.path)
	if err != nil {
		return nil, err
	}
	out, err := exec.Command(bin, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s --version: %w: %s", bin, err, strings.TrimSpace(string(out)))
	}
	v, err := ParseToolVersion(string(out))
	if err != nil {
		return nil, err
	}
	minVersion := version.Must(version.NewVersion(MinimumVersion))
	if v.LessThan(minVersion) {
		return v, fmt.Errorf("%s %s is older than %s", ToolName, v, minVersion)
	}
	return v, nil
}

// ParseToolVersion extracts the version from "--version" output such as
// "pt-online-schema-change 3.5.5".
func ParseToolVersion(out string) (*version.Version, error) {
	raw := reVersion.FindString(out)
	if raw == "" {
		return nil, fmt.Errorf("no version in %q", strings.TrimSpace(out))
	}
	return version.NewVersion(raw)
}

// Invoke runs cmd and waits for it. Cancelling ctx kills the process.
func (r *Runner) Invoke(ctx context.Context, cmd *Command) error {
	proc := exec.CommandContext(ctx, r.path, cmd.Args()...)

	var tail bytes.Buffer
	lw := &logWriter{}
	var out io.Writer = lw
	if r.output != nil {
		out = r.output
	}
	// A single writer so os/exec copies both streams through one goroutine.
	w := io.MultiWriter(out, &tail)
	proc.Stdout = w
	proc.Stderr = w

	err := proc.Run()
	lw.Flush()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.DSN(), err, lastLine(tail.String()))
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// logWriter logs each complete line written to it.
type logWriter struct {
	buf []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		if line := strings.TrimSpace(string(w.buf[:i])); line != "" {
			logger.Info(line, "tool", ToolName)
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line that had no newline.
func (w *logWriter) Flush() {
	if line := strings.TrimSpace(string(w.buf)); line != "" {
		logger.Info(line, "tool", ToolName)
	}
	w.buf = nil
}

var _ Tool = (*Runner)(nil)
