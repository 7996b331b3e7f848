package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"ERROR", LevelError},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"INFO", LevelInfo},
		{"debug", LevelDebug},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatKeyValues(t *testing.T) {
	got := formatKeyValues([]interface{}{"step", "msi-install", "exit", 0})
	if got != " step=msi-install exit=0" {
		t.Fatalf("formatKeyValues = %q", got)
	}
	if got := formatKeyValues(nil); got != "" {
		t.Fatalf("empty pairs should produce empty suffix, got %q", got)
	}
	// Dangling key is still rendered rather than dropped.
	if got := formatKeyValues([]interface{}{"orphan"}); got != " orphan" {
		t.Fatalf("dangling key = %q", got)
	}
}

// The singleton guard means initialization can only be exercised once per
// test binary, so directory creation and write-through share one test.
func TestInitCreatesDirAndWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	if err := InitWithDir(dir, LevelDebug); err != nil {
		t.Fatalf("InitWithDir: %v", err)
	}
	defer CloseLogger()

	Info("hello from test", "key", "value")

	data, err := os.ReadFile(filepath.Join(dir, "psinstall.log"))
	if err != nil {
		t.Fatalf("session log not created: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") || !strings.Contains(string(data), "key=value") {
		t.Fatalf("log content missing entry: %q", string(data))
	}

	// Re-init is a no-op thanks to the singleton guard.
	if err := InitWithDir(filepath.Join(t.TempDir(), "other"), LevelError); err != nil {
		t.Fatalf("second InitWithDir: %v", err)
	}
}
