// Package jsonutil holds the small marshal-indent-and-write helper shared
// by every stage that persists a JSON artifact, lifted from the teacher's
// internal/report.WriteReport.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteIndent marshals v as indented JSON and writes it to path.
func WriteIndent(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close %s: %v\n", path, cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// ReadInto reads path and unmarshals it into v.
func ReadInto(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return nil
}
