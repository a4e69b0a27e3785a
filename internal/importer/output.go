package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"
)

// jsonOptions mirrors the formatting the wiki tooling expects: two-space
// indentation, short arrays kept on one line.
var jsonOptions = &pretty.Options{Width: 80, Indent: "  "}

// MarshalRecords encodes records as a formatted JSON array.
//
// Postcondition: the result is valid JSON ending in a newline; a nil slice
// encodes as an empty array.
func MarshalRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}
	out := pretty.PrettyOptions(raw, jsonOptions)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// WriteJSON writes records to path, replacing any previous file atomically.
//
// Precondition: the parent directory of path must exist.
// Postcondition: path holds the full formatted array, or is left untouched
// and a non-nil error is returned.
func WriteJSON(path string, records []Record) error {
	data, err := MarshalRecords(records)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads records previously written by WriteJSON.
//
// Postcondition: returns the decoded records, each with a known Type, or a
// non-nil error.
func ReadJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	for i, r := range records {
		if _, err := ParseCategory(string(r.Type)); err != nil {
			return nil, fmt.Errorf("%s: record %d (%q): %w", path, i, r.Name, err)
		}
	}
	return records, nil
}
