package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookfinder/internal/discovery"
	"github.com/lehigh-university-libraries/bookfinder/internal/export"
	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
)

func newSearchCmd(opts *options) *cobra.Command {
	var searchType string
	var format string
	var output string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: `Search the catalog by title, author, genre (subject) or a general query.

At most 50 results are returned. Every successful search is added to the
search history.`,
		Example: `  # Search by title
  bookfinder search dune

  # Search by author and print YAML
  bookfinder search --type author "ursula le guin" --format yaml

  # Save the results for later inspection
  bookfinder search --type genre "science fiction" --output results.parquet`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := models.ParseSearchType(firstNonEmpty(searchType, string(models.SearchTitle)))
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			svc, closeFn, err := opts.openService()
			if err != nil {
				return err
			}
			defer closeFn()

			outcome, err := svc.Search(cmd.Context(), strings.Join(args, " "), t)
			if err != nil {
				var searchErr *discovery.SearchError
				if errors.As(err, &searchErr) {
					return errors.New(searchErr.UserMessage())
				}
				return err
			}

			if output != "" {
				meta := export.NewMetadata(outcome.Query, outcome.Type, len(outcome.Results))
				if err := export.Write(output, meta, outcome.Results); err != nil {
					return fmt.Errorf("failed to export results: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d results to %s\n", len(outcome.Results), output)
			}

			results := outcome.Results
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}
			return writeResults(cmd.OutOrStdout(), f, outcome, results)
		},
	}

	cmd.Flags().StringVarP(&searchType, "type", "t", "", "Search type: title, author, genre or general (default title)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, jsonl or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Also save results to a .parquet, .jsonl or .yaml file")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of results to print (0 for all)")

	return cmd
}

func writeResults(w io.Writer, format export.Format, outcome *discovery.SearchOutcome, results []models.BookSummary) error {
	switch format {
	case export.FormatJSON:
		return export.EncodeJSON(w, results)
	case export.FormatJSONL:
		return export.EncodeJSONL(w, results)
	case export.FormatYAML:
		return export.EncodeYAML(w, export.NewMetadata(outcome.Query, outcome.Type, len(outcome.Results)), results)
	case export.FormatParquet:
		return fmt.Errorf("parquet output needs a file, use --output results.parquet")
	}

	if len(outcome.Results) == 0 {
		fmt.Fprintf(w, "No books found for %q.\n", outcome.Query)
		return nil
	}
	fmt.Fprintf(w, "Found %d books for %q (%s)\n\n", len(outcome.Results), outcome.Query, outcome.Type)
	for i, book := range results {
		printResult(w, i+1, book)
	}
	return nil
}

func printResult(w io.Writer, n int, book models.BookSummary) {
	fmt.Fprintf(w, "%2d. %s\n", n, normalize.Title(book))
	fmt.Fprintf(w, "    by %s\n", normalize.Authors(book.AuthorNames))
	fmt.Fprintf(w, "    %s\n", strings.Join(normalize.CardMeta(book), " · "))
	if tags := normalize.SubjectTags(book.Subjects); len(tags) > 0 {
		fmt.Fprintf(w, "    %s\n", strings.Join(tags, ", "))
	}
	fmt.Fprintf(w, "    %s\n", book.Key)
}
