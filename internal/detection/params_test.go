package detection

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParams_OverridesAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	content := `table:
  binarize_threshold: 100
selector:
  max_cv: 0.25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write tuning file: %v", err)
	}

	params, err := LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams failed: %v", err)
	}

	if params.Table.BinarizeThreshold != 100 {
		t.Errorf("BinarizeThreshold: got %d, want 100", params.Table.BinarizeThreshold)
	}
	if params.Selector.MaxCV != 0.25 {
		t.Errorf("MaxCV: got %f, want 0.25", params.Selector.MaxCV)
	}

	// Untouched fields keep their defaults.
	defaults := DefaultParams()
	if params.Table.MinComponentSize != defaults.Table.MinComponentSize {
		t.Errorf("MinComponentSize changed: got %d", params.Table.MinComponentSize)
	}
	if params.Columns.ValleyDepthFactor != defaults.Columns.ValleyDepthFactor {
		t.Errorf("ValleyDepthFactor changed: got %f", params.Columns.ValleyDepthFactor)
	}
}

func TestLoadParams_MissingFile(t *testing.T) {
	if _, err := LoadParams(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing tuning file")
	}
}

func TestLoadParams_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("table: [not a map"), 0o644); err != nil {
		t.Fatalf("failed to write tuning file: %v", err)
	}
	if _, err := LoadParams(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
