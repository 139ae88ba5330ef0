package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
)

// minCoverBytes is the size below which the covers service is returning its
// own blank placeholder rather than a real image
const minCoverBytes = 1000

var errNoCover = errors.New("no cover available")

// Fetcher downloads cover images from the covers service
type Fetcher struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Result describes a downloaded cover
type Result struct {
	Path        string `json:"path" yaml:"path"`
	Placeholder bool   `json:"placeholder" yaml:"placeholder"`
	Bytes       int    `json:"bytes" yaml:"bytes"`
}

// NewFetcher creates a new cover fetcher; an empty baseURL uses the public covers service
func NewFetcher(baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = normalize.DefaultCoversURL
	}
	return &Fetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DownloadCover saves the cover with the given id to outputPath. When there
// is no usable image the placeholder is written instead, next to outputPath
// with an .svg extension.
func (f *Fetcher) DownloadCover(ctx context.Context, coverID int, size models.CoverSize, outputPath string) (*Result, error) {
	if coverID <= 0 {
		return f.writePlaceholder(outputPath, errNoCover)
	}
	url := normalize.CoverURLFrom(f.BaseURL, coverID, size)
	return f.download(ctx, url, outputPath)
}

// DownloadCoverByISBN saves the cover of the edition with the given ISBN
func (f *Fetcher) DownloadCoverByISBN(ctx context.Context, isbn string, size models.CoverSize, outputPath string) (*Result, error) {
	isbn = CleanISBN(isbn)
	if isbn == "" {
		return f.writePlaceholder(outputPath, errNoCover)
	}
	if size == "" {
		size = models.CoverMedium
	}
	url := fmt.Sprintf("%s/b/isbn/%s-%s.jpg", f.BaseURL, isbn, size)
	return f.download(ctx, url, outputPath)
}

func (f *Fetcher) download(ctx context.Context, url, outputPath string) (*Result, error) {
	slog.Debug("Downloading cover", "url", url)

	data, err := f.fetch(ctx, url)
	if err != nil {
		return f.writePlaceholder(outputPath, err)
	}

	if err := writeFile(outputPath, data); err != nil {
		return nil, err
	}
	slog.Info("Downloaded cover image", "path", outputPath, "bytes", len(data))
	return &Result{Path: outputPath, Bytes: len(data)}, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cover request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover API returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cover data: %w", err)
	}

	// If image is too small, it's the service's blank placeholder
	if len(imageData) < minCoverBytes {
		return nil, fmt.Errorf("cover image too small (likely placeholder), size: %d bytes", len(imageData))
	}
	return imageData, nil
}

func (f *Fetcher) writePlaceholder(outputPath string, cause error) (*Result, error) {
	slog.Warn("Using placeholder cover", "path", outputPath, "err", cause)

	svg, err := PlaceholderSVG()
	if err != nil {
		return nil, err
	}
	path := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".svg"
	if err := writeFile(path, svg); err != nil {
		return nil, err
	}
	return &Result{Path: path, Placeholder: true, Bytes: len(svg)}, nil
}

// PlaceholderSVG returns the placeholder cover image
func PlaceholderSVG() ([]byte, error) {
	_, encoded, ok := strings.Cut(normalize.PlaceholderCover, ";base64,")
	if !ok {
		return nil, fmt.Errorf("placeholder cover is not a base64 data URI")
	}
	svg, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode placeholder cover: %w", err)
	}
	return svg, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cover directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cover file: %w", err)
	}
	return nil
}

// CleanISBN removes hyphens and spaces from an ISBN
func CleanISBN(isbn string) string {
	isbn = strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}
