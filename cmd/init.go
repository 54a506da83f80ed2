package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codescope-ai/codescope/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .codescope.yml config interactively",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.RunWizard()
		exitOnError(err)

		fmt.Println()
		fmt.Println("Configuration written to .codescope.yml")
		fmt.Printf("Embeddings: %s/%s (%d dimensions), store: %s\n",
			cfg.EmbeddingProvider, cfg.EmbeddingModel, cfg.EmbeddingDimensions, cfg.Store)
		fmt.Println("Run `codescope index` to build the index.")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
