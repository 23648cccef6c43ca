package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadExamples reads every example record from a single file. The file may
// hold one JSON object per line or a single JSON object spanning the whole
// file.
func ReadExamples(path string) ([]Example, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}

	examples := make([]Example, 0, len(records))
	for i, record := range records {
		example, err := DecodeExample(record)
		if err != nil {
			return nil, fmt.Errorf("%v: record %v: %w", path, i, err)
		}
		examples = append(examples, example)
	}

	return examples, nil
}

// LoadExamples aggregates examples from files and directories. Directories
// are scanned one level deep for .jsonl files.
func LoadExamples(paths []string) ([]Example, error) {
	var examples []Example
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			fileExamples, err := ReadExamples(path)
			if err != nil {
				return nil, err
			}
			examples = append(examples, fileExamples...)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
				continue
			}
			fileExamples, err := ReadExamples(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, err
			}
			examples = append(examples, fileExamples...)
		}
	}
	return examples, nil
}

func decodeRecords(raw []byte) ([]map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	// Try one object per line first.
	records := []map[string]any{}
	jsonl := true
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal(line, &record); err != nil {
			jsonl = false
			break
		}
		records = append(records, record)
	}
	if jsonl {
		return records, nil
	}

	// Fall back to a single object spanning the whole file.
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("neither JSONL nor a single JSON object: %w", err)
	}
	return []map[string]any{record}, nil
}
