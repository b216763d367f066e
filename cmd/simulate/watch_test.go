package main

import (
	"testing"
	"time"
)

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	select {
	case _, ok := <-w.Events:
		if ok {
			t.Error("Events should be closed after Close")
		}
	case <-time.After(time.Second):
		t.Error("Events still open after Close")
	}
}

func TestWatcherRejectsMissingDir(t *testing.T) {
	if _, err := NewWatcher("does-not-exist"); err == nil {
		t.Error("NewWatcher() expected error for missing directory, got nil")
	}
}

func TestIsDescriptionFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"games/platformer.json", true},
		{"games/PLATFORMER.JSON", true},
		{"games/platformer.yaml", false},
		{"notes.txt", false},
		{"json", false},
	}

	for _, tt := range tests {
		if got := isDescriptionFile(tt.path); got != tt.want {
			t.Errorf("isDescriptionFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
