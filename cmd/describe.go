package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibx-go/bibx"
	"github.com/bibx-go/bibx/collection"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print summary statistics for a bibliographic export",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		articles, err := bibx.ReadAny(string(data))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		c := collection.New(articles)
		deduped := collection.Deduplicate(c.Articles)

		fmt.Printf("articles:      %d\n", len(articles))
		fmt.Printf("after dedup:   %d\n", len(deduped))
		fmt.Printf("citation pairs: %d\n", len(c.CitationPairs()))
		return nil
	},
}
