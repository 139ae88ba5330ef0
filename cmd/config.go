package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/bookfinder/internal/catalog"
	"github.com/lehigh-university-libraries/bookfinder/internal/discovery"
	"github.com/lehigh-university-libraries/bookfinder/internal/history"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
	"github.com/lehigh-university-libraries/bookfinder/internal/storage"
)

// options are the settings shared by every subcommand. Flags win over
// environment variables, which win over defaults.
type options struct {
	apiURL    string
	coversURL string
	store     string
	dataDir   string
	logLevel  string

	// summary settings for the browser
	provider string
	model    string
}

func (o *options) resolve() error {
	o.apiURL = firstNonEmpty(o.apiURL, os.Getenv("BOOKFINDER_API_URL"), catalog.DefaultBaseURL)
	o.coversURL = firstNonEmpty(o.coversURL, os.Getenv("BOOKFINDER_COVERS_URL"), normalize.DefaultCoversURL)
	o.store = firstNonEmpty(o.store, os.Getenv("BOOKFINDER_STORE"), string(storage.KindFile))
	o.logLevel = firstNonEmpty(o.logLevel, os.Getenv("BOOKFINDER_LOG_LEVEL"), "info")

	o.dataDir = firstNonEmpty(o.dataDir, os.Getenv("BOOKFINDER_DATA_DIR"))
	if o.dataDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("unable to determine config directory (set BOOKFINDER_DATA_DIR): %w", err)
		}
		o.dataDir = filepath.Join(dir, "bookfinder")
	}
	return nil
}

// openService wires the catalog client and history store together. The
// returned func closes the storage backend.
func (o *options) openService() (*discovery.Service, func(), error) {
	backend, err := storage.Open(storage.Kind(o.store), filepath.Join(o.dataDir, o.store))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", o.store, err)
	}
	closeFn := func() {
		if err := backend.Close(); err != nil {
			slog.Error("Unable to close storage", "store", o.store, "err", err)
		}
	}

	svc := discovery.NewService(catalog.NewClient(o.apiURL), history.New(backend))
	return svc, closeFn, nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", level)
	}
}

func setupLogging(w io.Writer, level string) error {
	logLevel, err := parseLevel(level)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
