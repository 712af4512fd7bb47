// Package cmd provides the bibx CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "bibx",
	Short: "Consolidate and classify scholarly citation graphs",
	Long: `bibx ingests bibliographic exports (Web of Science, Scopus RIS/BibTeX/CSV)
or fetches works from OpenAlex, consolidates them into a single citation
corpus, and classifies the resulting graph with the SAP algorithm (roots,
trunk, leaves, branches).

Examples:
  bibx describe export.txt
  bibx sap export.txt --config sap.yaml
  bibx openalex "information retrieval" --mode common`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(sapCmd)
	rootCmd.AddCommand(openalexCmd)
}
