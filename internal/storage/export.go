package storage

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExportFile writes a save as indented JSON.
func ExportFile(path string, rec SaveRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: cannot encode save %q: %w", rec.Slot, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", path, err)
	}
	return nil
}

// ImportFile reads a save written by ExportFile.
func ImportFile(path string) (SaveRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SaveRecord{}, fmt.Errorf("storage: cannot read %s: %w", path, err)
	}
	var rec SaveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return SaveRecord{}, fmt.Errorf("storage: cannot parse %s: %w", path, err)
	}
	if err := validateSave(rec); err != nil {
		return SaveRecord{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}
