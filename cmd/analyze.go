package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hurou927/db-catalog/internal/graph"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show the parent/son graph of the catalog",
	Long:  `Connects to the database, loads the catalog, builds the parent/son graph, and outputs it in the specified format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		g := graph.Build(cat, cfg.ExcludeSet())

		switch analyzeFormat {
		case "mermaid":
			return graph.WriteMermaid(cmd.OutOrStdout(), g)
		case "text":
			return graph.WriteText(cmd.OutOrStdout(), g)
		default:
			return fmt.Errorf("unknown format: %s (supported: mermaid, text)", analyzeFormat)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "mermaid", "output format: mermaid or text")
	rootCmd.AddCommand(analyzeCmd)
}
