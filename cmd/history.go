package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookfinder/internal/export"
	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var format string

	list := func(cmd *cobra.Command, args []string) error {
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}

		svc, closeFn, err := opts.openService()
		if err != nil {
			return err
		}
		defer closeFn()

		entries, err := svc.History()
		if err != nil {
			return fmt.Errorf("failed to read search history: %w", err)
		}
		if f == export.FormatText {
			writeHistory(cmd.OutOrStdout(), entries)
			return nil
		}
		return export.EncodeHistory(cmd.OutOrStdout(), f, entries)
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Long: `Show the ten most recent searches, newest first. Repeating a search moves
it back to the top instead of adding a duplicate.`,
		Example: `  # List recent searches
  bookfinder history

  # As JSON
  bookfinder history list --format json

  # Forget everything
  bookfinder history clear`,
		Args: cobra.NoArgs,
		RunE: list,
	}
	cmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show recent searches (default)",
		Args:  cobra.NoArgs,
		RunE:  list,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the search history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.openService()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.ClearHistory(); err != nil {
				return fmt.Errorf("failed to clear search history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared.")
			return nil
		},
	})

	return cmd
}

func writeHistory(w io.Writer, entries []models.SearchHistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recent searches.")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "%2d. %-30s %-8s %3d results  %s\n",
			i+1, e.Query, e.Type, e.ResultCount, e.Timestamp.Local().Format("2006-01-02 15:04"))
	}
}
