package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"conventest/internal/config"
	"conventest/internal/domain"
)

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{path: cfg.GetOutputPath()}
}

// NewJSONStorageAt returns a Storage for an explicit file, e.g. a shard report.
func NewJSONStorageAt(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the file the storage reads and writes
func (s *JSONStorage) Path() string {
	return s.path
}

// Save writes test results and failures to the configured JSON output file.
func (s *JSONStorage) Save(results []domain.CaseResult, failures []domain.TestFailure, duration time.Duration, lifecycle string) (*domain.TestResultsOutput, error) {
	output := NewOutput(results, failures, duration, lifecycle)
	if err := s.SaveOutput(output); err != nil {
		return nil, err
	}
	return output, nil
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file (e.g. after re-running selected tests).
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
