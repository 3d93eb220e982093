package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Selections maps a table name to the columns chosen for translation. The
// document is read once at run start and never mutated mid-run.
type Selections map[string][]string

// LoadSelections reads the selections document at path. A missing file is
// not an error: it returns found == false so the caller can create and
// persist an initial document.
func LoadSelections(path string) (s Selections, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, true, nil
}

// SaveSelections writes the selections document with stable formatting.
func SaveSelections(path string, s Selections) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
