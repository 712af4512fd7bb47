package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibx-go/bibx"
	"github.com/bibx-go/bibx/collection"
	"github.com/bibx-go/bibx/sap"
)

var sapConfigPath string

var sapCmd = &cobra.Command{
	Use:   "sap <file>",
	Short: "Classify a bibliographic export's citation graph (roots, trunk, leaves, branches)",
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

		deduped := collection.Deduplicate(articles)
		c := collection.New(deduped)

		cfg := sap.DefaultConfig()
		if sapConfigPath != "" {
			cfg, err = sap.LoadConfig(sapConfigPath)
			if err != nil {
				return err
			}
		}

		g := sap.BuildGraph(c)
		g.Cleanup()

		labels, err := sap.Classify(g, cfg)
		if err != nil {
			return fmt.Errorf("classifying: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(labels)
	},
}

func init() {
	sapCmd.Flags().StringVarP(&sapConfigPath, "config", "c", "", "path to a YAML SAP config file (overrides the defaults)")
}
