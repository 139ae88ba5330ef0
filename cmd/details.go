package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookfinder/internal/catalog"
	"github.com/lehigh-university-libraries/bookfinder/internal/discovery"
	"github.com/lehigh-university-libraries/bookfinder/internal/export"
	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
	"github.com/lehigh-university-libraries/bookfinder/internal/summary"
)

var workKeyPattern = regexp.MustCompile(`^(/works/)?OL\d+W$`)

// detailsOutput is the json/yaml shape of the details command
type detailsOutput struct {
	Key             string                    `json:"key" yaml:"key"`
	Fields          discovery.Fields          `json:"fields" yaml:"fields"`
	Editions        []discovery.EditionOption `json:"editions" yaml:"editions"`
	Recommendations []models.BookSummary      `json:"recommendations" yaml:"recommendations"`
	Summary         string                    `json:"summary,omitempty" yaml:"summary,omitempty"`
}

func newDetailsCmd(opts *options) *cobra.Command {
	var searchType string
	var pick int
	var edition int
	var coverSize string
	var format string
	var summarize bool
	var provider string
	var model string

	cmd := &cobra.Command{
		Use:   "details <work-key | query>",
		Short: "Show details, editions and recommendations for a book",
		Long: `Show the details page of a book: publication year, genre, ISBN, page count,
publisher and description, the list of editions and up to four recommended
books sharing its first subject.

The argument is either a work key (OL45883W or /works/OL45883W) or a search
query, in which case the --pick'th result is shown.`,
		Example: `  # Details for a work key
  bookfinder details OL893415W

  # Details of the second title match, showing its third edition
  bookfinder details dune --pick 2 --edition 3

  # Add a generated summary
  bookfinder details OL893415W --summarize --provider openai`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			size, err := models.ParseCoverSize(coverSize)
			if err != nil {
				return err
			}

			svc, closeFn, err := opts.openService()
			if err != nil {
				return err
			}
			defer closeFn()

			book, err := resolveBook(ctx, svc, strings.Join(args, " "), searchType, pick)
			if err != nil {
				return err
			}

			d := svc.LoadDetails(ctx, book)
			if d.Book.Title == "" && d.Work != nil {
				d.Book.Title = d.Work.Title
			}
			if edition > 0 {
				if err := d.SelectEdition(edition - 1); err != nil {
					return fmt.Errorf("--edition %d: %w", edition, err)
				}
			}

			out := detailsOutput{
				Key:             d.Book.Key,
				Fields:          d.Fields(size),
				Editions:        d.EditionOptions(true),
				Recommendations: d.Recommendations,
			}
			out.Fields.CoverURL = normalize.CoverURLFrom(opts.coversURL, d.Book.CoverID, size)

			if summarize {
				s, err := summary.New(provider, model)
				if err != nil {
					return err
				}
				text, err := s.Summarize(ctx, out.Fields)
				if err != nil {
					slog.Warn("Unable to summarize book", "key", d.Book.Key, "err", err)
				}
				out.Summary = text
			}

			return writeDetails(cmd.OutOrStdout(), f, out)
		},
	}

	cmd.Flags().StringVarP(&searchType, "type", "t", "", "Search type when the argument is a query (default title)")
	cmd.Flags().IntVar(&pick, "pick", 1, "Which search result to show when the argument is a query")
	cmd.Flags().IntVar(&edition, "edition", 0, "Edition to display, 1 being the most recent (default the most recent)")
	cmd.Flags().StringVar(&coverSize, "cover-size", "M", "Cover size: S, M or L")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&summarize, "summarize", false, "Generate a short summary with an LLM provider")
	cmd.Flags().StringVar(&provider, "provider", "", "Summary provider: ollama, openai or gemini (env BOOKFINDER_SUMMARY_PROVIDER)")
	cmd.Flags().StringVar(&model, "model", "", "Summary model (defaults to the provider's default)")

	return cmd
}

// resolveBook turns the argument into a search hit. Work keys are used
// directly; anything else is searched for.
func resolveBook(ctx context.Context, svc *discovery.Service, arg, searchType string, pick int) (models.BookSummary, error) {
	if workKeyPattern.MatchString(arg) {
		return models.BookSummary{Key: catalog.WorkKeyPrefix + catalog.WorkID(arg)}, nil
	}

	t, err := models.ParseSearchType(firstNonEmpty(searchType, string(models.SearchTitle)))
	if err != nil {
		return models.BookSummary{}, err
	}
	outcome, err := svc.Search(ctx, arg, t)
	if err != nil {
		var searchErr *discovery.SearchError
		if errors.As(err, &searchErr) {
			return models.BookSummary{}, errors.New(searchErr.UserMessage())
		}
		return models.BookSummary{}, err
	}
	if len(outcome.Results) == 0 {
		return models.BookSummary{}, fmt.Errorf("no books found for %q", arg)
	}
	if pick < 1 || pick > len(outcome.Results) {
		return models.BookSummary{}, fmt.Errorf("--pick %d out of range (found %d books)", pick, len(outcome.Results))
	}
	return outcome.Results[pick-1], nil
}

func writeDetails(w io.Writer, format export.Format, out detailsOutput) error {
	switch format {
	case export.FormatJSON:
		return export.EncodeJSON(w, out)
	case export.FormatYAML:
		return export.EncodeDocument(w, out)
	case export.FormatText:
	default:
		return fmt.Errorf("unsupported format for details: %s", format)
	}

	f := out.Fields
	fmt.Fprintln(w, f.Title)
	fmt.Fprintf(w, "by %s\n", f.Authors)
	if f.Edition != "" {
		fmt.Fprintf(w, "%s\n", f.Edition)
	}
	fmt.Fprintln(w)

	rows := []struct{ label, value string }{
		{"Published", f.Year},
		{"Genre", f.Genre},
		{"ISBN", f.ISBN},
		{"Pages", f.Pages},
		{"Publisher", f.Publisher},
		{"Cover", f.CoverURL},
	}
	for _, r := range rows {
		value := r.value
		if value == normalize.PlaceholderCover {
			value = "No cover"
		}
		fmt.Fprintf(w, "%-11s %s\n", r.label+":", value)
	}

	fmt.Fprintf(w, "\n%s\n", f.Description)
	if out.Summary != "" {
		fmt.Fprintf(w, "\nSummary:\n%s\n", out.Summary)
	}

	if len(out.Editions) > 1 {
		fmt.Fprintf(w, "\nEditions (%d):\n", len(out.Editions))
		for _, e := range out.Editions {
			marker := " "
			if e.Selected {
				marker = ">"
			}
			fmt.Fprintf(w, "%s %2d. %s\n", marker, e.Index+1, e.Label)
		}
	}

	if len(out.Recommendations) > 0 {
		fmt.Fprintln(w, "\nYou might also like:")
		for i, book := range out.Recommendations {
			printResult(w, i+1, book)
		}
	}
	return nil
}
