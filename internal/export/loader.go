package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

// maxLineBytes bounds a single JSONL record
const maxLineBytes = 1024 * 1024

// Loader reads exported result files back
type Loader struct {
	path string
}

// NewLoader creates a new loader for an exported file
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load reads every record from a Parquet or JSONL export
func (l *Loader) Load() ([]models.BookSummary, error) {
	return l.LoadSample(0)
}

// LoadSample reads at most limit records; limit <= 0 reads everything
func (l *Loader) LoadSample(limit int) ([]models.BookSummary, error) {
	format, err := FormatFromPath(l.path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatParquet:
		return l.loadParquet(limit)
	case FormatJSONL:
		return l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("unsupported file format for loading: %s (supported: .parquet, .jsonl)", format)
	}
}

func (l *Loader) loadJSONL(limit int) ([]models.BookSummary, error) {
	slog.Debug("Opening JSONL file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	records := []models.BookSummary{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		if limit > 0 && len(records) >= limit {
			break
		}
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record models.BookSummary
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading export: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(records), "total_lines", lineNum)
	return records, nil
}

func (l *Loader) loadParquet(limit int) ([]models.BookSummary, error) {
	slog.Debug("Opening Parquet file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[models.BookSummary](pf)
	defer reader.Close()

	records := []models.BookSummary{}
	rows := make([]models.BookSummary, 128)

	for limit <= 0 || len(records) < limit {
		n, err := reader.Read(rows)
		if n > 0 {
			if limit > 0 && n > limit-len(records) {
				n = limit - len(records)
			}
			records = append(records, rows[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records))
	return records, nil
}
