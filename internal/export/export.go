// Package export writes search results to files (Parquet, JSONL or YAML)
// and reads them back.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

// Format is an output encoding
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatJSONL, FormatYAML, FormatParquet:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json, jsonl, yaml, parquet)", s)
	}
}

// FormatFromPath picks the file format from the extension
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return FormatParquet, nil
	case ".jsonl", ".json":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl, .json, .yaml)", ext)
	}
}

// Metadata describes the search that produced a result set
type Metadata struct {
	Query     string            `json:"query" yaml:"query"`
	Type      models.SearchType `json:"type" yaml:"type"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
	Count     int               `json:"count" yaml:"count"`
}

// NewMetadata stamps a result set with the current time
func NewMetadata(query string, searchType models.SearchType, count int) Metadata {
	return Metadata{
		Query:     query,
		Type:      searchType,
		Timestamp: time.Now().Format(time.RFC3339),
		Count:     count,
	}
}

// ResultSet is the YAML document layout
type ResultSet struct {
	Search  Metadata             `yaml:"search"`
	Results []models.BookSummary `yaml:"results"`
}

// Write saves results to path, choosing the encoding from its extension
func Write(path string, meta Metadata, results []models.BookSummary) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatParquet:
		err = writeParquet(file, results)
	case FormatJSONL:
		err = EncodeJSONL(file, results)
	case FormatYAML:
		err = EncodeYAML(file, meta, results)
	}
	if err != nil {
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	slog.Info("Exported search results", "path", path, "format", format, "count", len(results))
	return nil
}

func writeParquet(w io.Writer, results []models.BookSummary) error {
	writer := parquet.NewGenericWriter[models.BookSummary](w)
	if _, err := writer.Write(results); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// EncodeJSONL writes one JSON object per line
func EncodeJSONL(w io.Writer, results []models.BookSummary) error {
	enc := json.NewEncoder(w)
	for i, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode result %d: %w", i, err)
		}
	}
	return nil
}

// EncodeJSON writes v as an indented JSON document
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// EncodeYAML writes the results as a YAML document with a search header
func EncodeYAML(w io.Writer, meta Metadata, results []models.BookSummary) error {
	if results == nil {
		results = []models.BookSummary{}
	}
	return EncodeDocument(w, &ResultSet{Search: meta, Results: results})
}

// EncodeDocument writes v as a YAML document
func EncodeDocument(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return nil
}

// HistoryDocument is the YAML layout of the search history
type HistoryDocument struct {
	History []models.SearchHistoryEntry `yaml:"history"`
}

// EncodeHistory writes the search history as JSON or YAML
func EncodeHistory(w io.Writer, format Format, entries []models.SearchHistoryEntry) error {
	if entries == nil {
		entries = []models.SearchHistoryEntry{}
	}
	switch format {
	case FormatJSON:
		return EncodeJSON(w, entries)
	case FormatYAML:
		return EncodeDocument(w, &HistoryDocument{History: entries})
	default:
		return fmt.Errorf("unsupported history format: %s", format)
	}
}
