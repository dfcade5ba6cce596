// Package importer reads record files: yaml (or json) documents holding the
// values of one record, keyed by section and field. They feed the same
// assignment path as --set.
package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RecordFile is the top-level structure of an import file.
//
//	kind: project
//	sections:
//	  identifiers:
//	    cluster: 3
//	rows:
//	  ods_odp:
//	    - ods_display_name: HCFC-141b
//	      co2_mt: 12.5
type RecordFile struct {
	Kind     string                      `yaml:"kind"`
	Sections map[string]map[string]any   `yaml:"sections"`
	Rows     map[string][]map[string]any `yaml:"rows"`
}

// LoadRecordFile reads and parses an import file. Json input parses too,
// being valid yaml.
func LoadRecordFile(path string) (*RecordFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRecordFile(data)
}

// ParseRecordFile parses import file content.
func ParseRecordFile(data []byte) (*RecordFile, error) {
	var f RecordFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &f, nil
}
