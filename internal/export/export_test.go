package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

var sampleResults = []models.BookSummary{
	{
		Key:                 "/works/OL893415W",
		Title:               "Dune",
		AuthorNames:         []string{"Frank Herbert"},
		CoverID:             11481354,
		FirstPublishYear:    1965,
		Languages:           []string{"eng", "spa"},
		Publishers:          []string{"Chilton Books"},
		Subjects:            []string{"Science fiction", "Deserts"},
		NumberOfPagesMedian: 604,
	},
	{
		Key:   "/works/OL45804W",
		Title: "Dune Messiah",
	},
}

func TestWriteAndLoad(t *testing.T) {
	meta := NewMetadata("dune", models.SearchTitle, len(sampleResults))

	for _, ext := range []string{".parquet", ".jsonl", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "results"+ext)
			if err := Write(path, meta, sampleResults); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			records, err := NewLoader(path).Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(sampleResults, records, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
			}

			sample, err := NewLoader(path).LoadSample(1)
			if err != nil {
				t.Fatalf("LoadSample failed: %v", err)
			}
			if len(sample) != 1 || sample[0].Title != "Dune" {
				t.Errorf("Unexpected sample %+v", sample)
			}
		})
	}
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")
	meta := Metadata{Query: "dune", Type: models.SearchTitle, Timestamp: "2024-01-02T03:04:05Z", Count: 2}
	if err := Write(path, meta, sampleResults); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc ResultSet
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if doc.Search.Query != "dune" || doc.Search.Count != 2 || len(doc.Results) != 2 {
		t.Errorf("Unexpected document %+v", doc)
	}
	if doc.Results[0].AuthorNames[0] != "Frank Herbert" {
		t.Errorf("Unexpected authors %v", doc.Results[0].AuthorNames)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected YAML exports to be rejected by the loader")
	}
}

func TestUnsupportedExtension(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "results.csv"), Metadata{}, sampleResults); err == nil {
		t.Error("Expected error for .csv")
	}
	if _, err := NewLoader("results.txt").Load(); err == nil {
		t.Error("Expected error for .txt")
	}
}

func TestLoadJSONLSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	content := `{"key": "/works/OL1W", "title": "Dune"}

{"key": "/works/OL2W", "title": "Dune Messiah"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}

	if err := os.WriteFile(path, []byte("{not json}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(path).Load(); err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("Expected parse error with line number, got %v", err)
	}
}

func TestEncodeHistory(t *testing.T) {
	entries := []models.SearchHistoryEntry{{
		Query:       "dune",
		Type:        models.SearchTitle,
		Timestamp:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		ResultCount: 3,
	}}

	var buf bytes.Buffer
	if err := EncodeHistory(&buf, FormatJSON, entries); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"resultCount": 3`) {
		t.Errorf("Unexpected JSON:\n%s", buf.String())
	}

	buf.Reset()
	if err := EncodeHistory(&buf, FormatYAML, entries); err != nil {
		t.Fatal(err)
	}
	var doc HistoryDocument
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if diff := cmp.Diff(entries, doc.History); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}

	if err := EncodeHistory(&buf, FormatParquet, entries); err == nil {
		t.Error("Expected error for parquet history")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{" parquet ", FormatParquet, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.expected {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
