package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/watchfire-io/salesboard/internal/models"
)

// RecordFormat identifies the encoding of a task record file.
type RecordFormat string

const (
	FormatJSON RecordFormat = "json"
	FormatYAML RecordFormat = "yaml"
	FormatTOML RecordFormat = "toml"
)

// tomlRecords is the TOML document layout: a top-level [[tasks]] array.
type tomlRecords struct {
	Tasks []models.Task `toml:"tasks"`
}

// FormatForPath picks a record format from a file extension.
func FormatForPath(path string) (RecordFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported task file extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

// DecodeTaskRecords decodes a flat sequence of task records.
func DecodeTaskRecords(data []byte, format RecordFormat) ([]models.Task, error) {
	var tasks []models.Task
	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("failed to parse JSON task records: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("failed to parse YAML task records: %w", err)
		}
	case FormatTOML:
		var doc tomlRecords
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML task records: %w", err)
		}
		tasks = doc.Tasks
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}
	for i, t := range tasks {
		if !isFinite(t.Revenue) || !isFinite(t.TimeTaken) {
			return nil, fmt.Errorf("task record %d (%q): revenue and timeTaken must be finite numbers", i, t.Title)
		}
	}
	return tasks, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// EncodeTaskRecords encodes task records in the given format.
func EncodeTaskRecords(tasks []models.Task, format RecordFormat) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(tasks)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tomlRecords{Tasks: tasks}); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown record format %q", format)
}

// LoadTaskRecords reads a task record file, choosing the decoder by extension.
func LoadTaskRecords(path string) ([]models.Task, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	tasks, err := DecodeTaskRecords(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

// SaveTaskRecords writes task records to path, choosing the encoder by extension.
func SaveTaskRecords(path string, tasks []models.Task) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := EncodeTaskRecords(tasks, format)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
