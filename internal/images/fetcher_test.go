package images

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

func TestDownloadCover(t *testing.T) {
	image := bytes.Repeat([]byte{0xFF}, 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/b/id/12345-L.jpg", "/b/isbn/9780441013593-M.jpg":
			w.Write(image)
		case "/b/id/7-M.jpg":
			w.Write([]byte("tiny"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewFetcher(server.URL)
	ctx := context.Background()

	tests := []struct {
		name            string
		download        func(out string) (*Result, error)
		wantPlaceholder bool
		wantExt         string
	}{
		{
			name:     "cover by id",
			download: func(out string) (*Result, error) { return f.DownloadCover(ctx, 12345, models.CoverLarge, out) },
			wantExt:  ".jpg",
		},
		{
			name:     "cover by isbn",
			download: func(out string) (*Result, error) { return f.DownloadCoverByISBN(ctx, "978-0-441-01359-3", "", out) },
			wantExt:  ".jpg",
		},
		{
			name:            "missing id",
			download:        func(out string) (*Result, error) { return f.DownloadCover(ctx, 0, models.CoverMedium, out) },
			wantPlaceholder: true,
			wantExt:         ".svg",
		},
		{
			name:            "not found",
			download:        func(out string) (*Result, error) { return f.DownloadCover(ctx, 99, models.CoverMedium, out) },
			wantPlaceholder: true,
			wantExt:         ".svg",
		},
		{
			name:            "undersized body",
			download:        func(out string) (*Result, error) { return f.DownloadCover(ctx, 7, models.CoverMedium, out) },
			wantPlaceholder: true,
			wantExt:         ".svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "covers", "cover.jpg")
			result, err := tt.download(out)
			if err != nil {
				t.Fatalf("Download failed: %v", err)
			}
			if result.Placeholder != tt.wantPlaceholder {
				t.Errorf("Expected placeholder=%v, got %v", tt.wantPlaceholder, result.Placeholder)
			}
			if filepath.Ext(result.Path) != tt.wantExt {
				t.Errorf("Expected %s file, got %s", tt.wantExt, result.Path)
			}
			data, err := os.ReadFile(result.Path)
			if err != nil {
				t.Fatalf("Cover not written: %v", err)
			}
			if len(data) != result.Bytes {
				t.Errorf("Expected %d bytes on disk, got %d", result.Bytes, len(data))
			}
			if tt.wantPlaceholder && !strings.Contains(string(data), "No Cover") {
				t.Errorf("Expected placeholder SVG, got %q", data)
			}
		})
	}
}

func TestCleanISBN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"978-0-441-01359-3", "9780441013593"},
		{" 0441013597 ", "0441013597"},
		{"978 0 441 01359 3", "9780441013593"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanISBN(tt.input); got != tt.expected {
			t.Errorf("CleanISBN(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
