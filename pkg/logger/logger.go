// Package logger is the process-wide structured logger. Output goes to
// stderr so stdout stays clean for generated SQL and reports.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

var std = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "oscmig",
})

// SetLevel accepts debug, info, warn or error. Anything else leaves the
// level unchanged.
func SetLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil || lvl == log.FatalLevel {
		return
	}
	std.SetLevel(lvl)
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func Debug(msg string, keyvals ...interface{}) { std.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { std.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { std.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { std.Error(msg, keyvals...) }

// With returns a child logger carrying keyvals on every line, e.g. the
// change set being applied.
func With(keyvals ...interface{}) *log.Logger {
	return std.With(keyvals...)
}
