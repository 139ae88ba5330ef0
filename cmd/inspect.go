package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookfinder/internal/export"
)

func newInspectCmd() *cobra.Command {
	var path string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect saved search results",
		Long: `Print the books stored in a .parquet or .jsonl file written by
"bookfinder search --output".`,
		Example: `  # First ten books
  bookfinder inspect --file results.parquet

  # Step through every book
  bookfinder inspect --file results.jsonl --limit 0 --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), path, limit, interactive)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Path to a .parquet or .jsonl results file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of books to show (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each book (press Enter to continue)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func executeInspect(ctx context.Context, w io.Writer, in io.Reader, path string, limit int, interactive bool) error {
	loader := export.NewLoader(path)
	results, err := loader.LoadSample(limit)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	fmt.Fprintf(w, "Loaded %d books from %s\n", len(results), path)
	fmt.Fprintln(w, strings.Repeat("=", 80))

	reader := bufio.NewReader(in)
	for i, book := range results {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w, "\nInspection interrupted.")
			return nil
		default:
		}

		printResult(w, i+1, book)
		if book.CoverID > 0 {
			fmt.Fprintf(w, "    cover %d\n", book.CoverID)
		}

		if interactive && i < len(results)-1 {
			fmt.Fprint(w, "\nPress Enter to continue (q to quit)... ")
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return err
			}
			if strings.TrimSpace(strings.ToLower(line)) == "q" || err == io.EOF {
				return nil
			}
		}
	}
	return nil
}
