package osc

import (
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.DefaultOn {
		t.Error("DefaultOn should be true by default")
	}
	if cfg.DefaultOptions != DefaultOptions {
		t.Errorf("DefaultOptions = %q, want %q", cfg.DefaultOptions, DefaultOptions)
	}
	if cfg.DryRun || cfg.FailIfUnavailable || cfg.NoAlterSQLDryMode {
		t.Errorf("flags should default to false: %+v", cfg)
	}
}

func TestConfigSkips(t *testing.T) {
	cfg := Config{SkipChanges: []string{"sql", " DropColumn "}}

	tests := []struct {
		name string
		want bool
	}{
		{"sql", true},
		{"SQL", true},
		{"dropColumn", true},
		{"addColumn", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := cfg.Skips(tt.name); got != tt.want {
			t.Errorf("Skips(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseSkipList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"sql", []string{"sql"}},
		{"sql, dropColumn", []string{"sql", "dropColumn"}},
		{" ,sql,, ", []string{"sql"}},
	}
	for _, tt := range tests {
		if got := ParseSkipList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseSkipList(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
