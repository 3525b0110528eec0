package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/litgraph/am"
	"github.com/teranos/litgraph/cmd/litgraph/commands"
	"github.com/teranos/litgraph/logger"
)

var rootCmd = &cobra.Command{
	Use:   "litgraph",
	Short: "litgraph - fact-graph queries over biomedical literature",
	Long: `litgraph - fact-graph queries over biomedical literature.

litgraph matches conjunctive fact patterns against predications extracted
from documents and arranges the matching documents into result trees.

Available commands:
  query   - Run a graph query
  batch   - Run one graph query per line of a file
  db      - Manage the fact database
  am      - Show and validate configuration
  version - Show build information

Examples:
  litgraph query Metformin treats ?D(Disease)
  litgraph query "?C(Chemical) inhibits ?G(Gene) _AND_ ?G associated Diabetes" --strategy tree
  litgraph batch queries.txt --parallel 4
  litgraph db stats`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 'am show' prints configuration only
		if cmd.Name() == "show" {
			return nil
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput := false
		if cfg, err := am.Load(); err == nil {
			jsonOutput = cfg.Log.JSON
		}
		if err := logger.InitializeWithVerbosity(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.QueryCmd)
	rootCmd.AddCommand(commands.BatchCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
