package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibx-go/bibx/openalex"
)

var (
	openalexLimit int
	openalexMode  string
)

var openalexCmd = &cobra.Command{
	Use:   "openalex <query>",
	Short: "Fetch recent articles from OpenAlex matching a search query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseMode(openalexMode)
		if err != nil {
			return err
		}

		client := openalex.NewClient(nil, os.Getenv("BIBX_OPENALEX_MAILTO"))
		works, err := client.ListRecentArticles(cmd.Context(), args[0], openalexLimit)
		if err != nil {
			return fmt.Errorf("fetching from OpenAlex: %w", err)
		}

		builder := openalex.NewBuilder(client, mode)
		articles, err := builder.Build(cmd.Context(), works)
		if err != nil {
			return fmt.Errorf("building articles: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(articles)
	},
}

func parseMode(s string) (openalex.Mode, error) {
	switch s {
	case "", "basic":
		return openalex.Basic, nil
	case "common":
		return openalex.Common, nil
	case "most":
		return openalex.Most, nil
	case "full":
		return openalex.Full, nil
	default:
		return 0, fmt.Errorf("unknown enrichment mode %q (want basic, common, most, or full)", s)
	}
}

func init() {
	openalexCmd.Flags().IntVarP(&openalexLimit, "limit", "n", 200, "maximum number of works to fetch")
	openalexCmd.Flags().StringVarP(&openalexMode, "mode", "m", "basic", "enrichment mode: basic, common, most, full")
}
