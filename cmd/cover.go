package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookfinder/internal/images"
	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

func newCoverCmd(opts *options) *cobra.Command {
	var isbn string
	var size string
	var output string

	cmd := &cobra.Command{
		Use:   "cover [cover-id]",
		Short: "Download a book cover",
		Long: `Download a cover image by cover id or ISBN.

When the covers service has no image the placeholder cover is saved instead,
with an .svg extension.`,
		Example: `  # Download a large cover by id
  bookfinder cover 8739161 --size L --output hyperion.jpg

  # Download by ISBN
  bookfinder cover --isbn 978-0-553-28368-8 --output cover.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := models.ParseCoverSize(size)
			if err != nil {
				return err
			}
			if (len(args) == 0) == (isbn == "") {
				return fmt.Errorf("pass either a cover id or --isbn")
			}

			fetcher := images.NewFetcher(opts.coversURL)
			var result *images.Result
			if isbn != "" {
				out := firstNonEmpty(output, images.CleanISBN(isbn)+"-"+string(s)+".jpg")
				result, err = fetcher.DownloadCoverByISBN(cmd.Context(), isbn, s, out)
			} else {
				id, convErr := strconv.Atoi(args[0])
				if convErr != nil {
					return fmt.Errorf("invalid cover id %q: %w", args[0], convErr)
				}
				out := firstNonEmpty(output, fmt.Sprintf("%d-%s.jpg", id, s))
				result, err = fetcher.DownloadCover(cmd.Context(), id, s, out)
			}
			if err != nil {
				return err
			}

			if result.Placeholder {
				fmt.Fprintf(cmd.OutOrStdout(), "No cover available, saved placeholder to %s\n", result.Path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved cover to %s (%d bytes)\n", result.Path, result.Bytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "Look the cover up by ISBN instead of cover id")
	cmd.Flags().StringVar(&size, "size", "M", "Cover size: S, M or L")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <id>-<size>.jpg)")

	return cmd
}
