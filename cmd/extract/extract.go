// Package extract implements the extract command: fetch a content URL and
// print its extracted article.
package extract

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/godiscover/cmd/common"
	"github.com/jonesrussell/godiscover/internal/extract"
	"github.com/jonesrussell/godiscover/internal/fetch"
)

// Command returns the extract command for use in the root command.
func Command() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "extract [url]",
		Short: "Extract article content from a URL",
		Long: `This command fetches a content URL and prints the extracted article
as JSON: title, author, published date and body text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			extractor := extract.NewBlog(fetch.New(), deps.Logger)
			if !extractor.CanHandle(args[0]) {
				deps.Logger.Warn("URL does not look like an article, extracting anyway", "url", args[0])
			}

			items, err := extractor.Extract(cmd.Context(), args[0], baseURL)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			if len(items) == 0 {
				deps.Logger.Info("No extractable content found", "url", args[0])
				return nil
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base", "", "base URL for resolving a relative target")

	return cmd
}
