package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bookfinder",
		Short: "Search and explore books from the Open Library catalog",
		Long: `BookFinder is a terminal client for the Open Library catalog.

Run it without a subcommand to open the interactive browser, or use the
subcommands to search, show book details, manage search history and download
covers from scripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			if err := opts.resolve(); err != nil {
				return err
			}
			// the browser sets up its own file logger
			if isBrowse(cmd) {
				return nil
			}
			return setupLogging(cmd.ErrOrStderr(), opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "Catalog API base URL (env BOOKFINDER_API_URL)")
	flags.StringVar(&opts.coversURL, "covers-url", "", "Covers service base URL (env BOOKFINDER_COVERS_URL)")
	flags.StringVar(&opts.store, "store", "", "History storage backend: file, badger or memory (env BOOKFINDER_STORE)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory for history and logs (env BOOKFINDER_DATA_DIR)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (env BOOKFINDER_LOG_LEVEL)")

	cmd.Flags().StringVar(&opts.provider, "provider", "", "Summary provider for the browser: ollama, openai or gemini")
	cmd.Flags().StringVar(&opts.model, "model", "", "Summary model (defaults to the provider's default)")

	// Add subcommands
	cmd.AddCommand(newBrowseCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newDetailsCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newCoverCmd(opts))
	cmd.AddCommand(newInspectCmd())

	return cmd
}

func isBrowse(cmd *cobra.Command) bool {
	return cmd.Name() == "browse" || !cmd.HasParent()
}
