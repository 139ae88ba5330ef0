package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookfinder/internal/summary"
	"github.com/lehigh-university-libraries/bookfinder/internal/tui"
)

func newBrowseCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser (default)",
		Long: `Open the full-screen browser: a dashboard, search with result lists,
book details with editions and recommendations, and an about page.

Logs go to bookfinder.log in the data directory so they do not draw over
the screen. Set BOOKFINDER_SUMMARY_PROVIDER (or --provider) to enable LLM
summaries on the details page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Summary provider: ollama, openai or gemini (env BOOKFINDER_SUMMARY_PROVIDER)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Summary model (defaults to the provider's default)")
	return cmd
}

func runBrowse(ctx context.Context, opts *options) error {
	if err := os.MkdirAll(opts.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(opts.dataDir, "bookfinder.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	if err := setupLogging(logFile, opts.logLevel); err != nil {
		return err
	}

	svc, closeFn, err := opts.openService()
	if err != nil {
		return err
	}
	defer closeFn()

	tuiOpts := tui.Options{CoversURL: opts.coversURL}
	if firstNonEmpty(opts.provider, os.Getenv("BOOKFINDER_SUMMARY_PROVIDER")) != "" {
		s, err := summary.New(opts.provider, opts.model)
		if err != nil {
			return err
		}
		tuiOpts.Summarizer = s
	}

	return tui.Run(ctx, svc, tuiOpts)
}
