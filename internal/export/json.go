// Package export writes selection results to the interchange formats the
// surrounding tooling consumes: selects JSON, master-timeline JSON, flat
// CSV reports, and EDLs for NLE handoff.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bgorzelic/skyforge/internal/selector"
)

// SaveSelects writes a per-source selection result to JSON. All segment
// fields round-trip losslessly.
func SaveSelects(result selector.SelectionResult, path string) error {
	return writeJSON(result, path)
}

// LoadSelects reads a previously saved selection result
func LoadSelects(path string) (*selector.SelectionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var result selector.SelectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SaveMasterTimeline writes the cross-source ranked timeline to JSON
func SaveMasterTimeline(timeline selector.MasterTimeline, path string) error {
	return writeJSON(timeline, path)
}

func writeJSON(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
