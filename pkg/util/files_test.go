package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/footage/DJI_0001.MP4", "DJI_0001"},
		{"clip.mov", "clip"},
		{"flight.analysis.json", "flight.analysis"},
		{"/footage/no_extension", "no_extension"},
	}
	for _, tt := range tests {
		if got := Stem(tt.path); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("stat %s: %v", dir, err)
	}

	// Existing directory is not an error
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir existing: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marker.txt")
	if FileExists(path) {
		t.Error("FileExists on missing file")
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists on written file")
	}
}
