// Package discover implements the discover command: run the strategy chain
// against a seed URL and print the content URLs found.
package discover

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/godiscover/cmd/common"
	"github.com/jonesrussell/godiscover/internal/contenttype"
	"github.com/jonesrussell/godiscover/internal/crawler"
)

// Command returns the discover command for use in the root command.
func Command() *cobra.Command {
	var (
		maxPages  int
		timeout   time.Duration
		asJSON    bool
		sitesFile string
	)

	cmd := &cobra.Command{
		Use:   "discover [url]",
		Short: "Discover content URLs on a website",
		Long: `This command runs the discovery strategy chain against a seed URL and
prints the content URLs found, grouped by content type.

The --sites flag can be used to extend the built-in site configurations
with entries from a YAML file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sitesFile != "" {
				viper.Set("discover.sites_file", sitesFile)
			}

			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			c := crawler.New(
				crawler.WithLogger(deps.Logger),
				crawler.WithRegistry(deps.Registry),
				crawler.WithMaxPages(maxPages),
				crawler.WithStrategyTimeout(timeout),
			)

			result, err := c.Discover(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}

			if asJSON {
				return renderJSON(result)
			}
			renderTable(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPages, "max-pages", crawler.DefaultMaxPages, "maximum pagination pages per strategy")
	cmd.Flags().DurationVar(&timeout, "timeout", crawler.DefaultStrategyTimeout, "per-strategy timeout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().StringVar(&sitesFile, "sites", "", "YAML file with additional site configurations")

	return cmd
}

func renderJSON(result crawler.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func renderTable(result crawler.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Content Type", "URL"})

	types := make([]string, 0, len(result))
	for ct := range result {
		types = append(types, string(ct))
	}
	sort.Strings(types)

	total := 0
	for _, ct := range types {
		for _, u := range result[contenttype.Type(ct)] {
			t.AppendRow(table.Row{ct, u})
			total++
		}
	}

	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}
