package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestParseScript(t *testing.T) {
	path := writeScript(t, `
# move right, then jump while still holding right
30 right
90 right space

150
`)

	script, err := parseScript(path)
	if err != nil {
		t.Fatalf("parseScript() error = %v", err)
	}

	want := map[int][]string{
		30:  {"right"},
		90:  {"right", "space"},
		150: nil,
	}
	if !reflect.DeepEqual(script, want) {
		t.Errorf("parseScript() = %v, want %v", script, want)
	}

	keys, ok := script[150]
	if !ok {
		t.Fatal("release line should schedule an event")
	}
	if len(keys) != 0 {
		t.Errorf("release line keys = %v, want none", keys)
	}
}

func TestParseScriptMergesDuplicateTicks(t *testing.T) {
	path := writeScript(t, "10 right\n10 space\n")

	script, err := parseScript(path)
	if err != nil {
		t.Fatalf("parseScript() error = %v", err)
	}
	if got, want := script[10], []string{"right", "space"}; !reflect.DeepEqual(got, want) {
		t.Errorf("script[10] = %v, want %v", got, want)
	}
}

func TestParseScriptRejectsBadTicks(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"non_numeric", "abc right\n"},
		{"zero", "0 right\n"},
		{"negative", "-5 space\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, tt.content)
			if _, err := parseScript(path); err == nil {
				t.Error("parseScript() expected error, got nil")
			}
		})
	}
}

func TestParseScriptMissingFile(t *testing.T) {
	if _, err := parseScript(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("parseScript() expected error for missing file, got nil")
	}
}
