package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codescope-ai/codescope/internal/retriever"
)

var (
	searchLimit int
	searchScope string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the indexed codebase",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnError(err)

		logger, err := newLogger()
		exitOnError(err)
		defer logger.Sync()

		embedder, err := newEmbedder(cfg)
		exitOnError(err)
		store, err := newStore(cfg, logger)
		exitOnError(err)
		defer store.Close()

		ret := retriever.New(embedder, store, cfg.Collection, logger)
		chunks, err := ret.Search(cmd.Context(), retriever.Request{
			Query:        strings.Join(args, " "),
			Limit:        searchLimit,
			ProjectScope: searchScope,
		})
		exitOnError(err)

		if len(chunks) == 0 {
			fmt.Println("No results found.")
			return
		}

		for i, c := range chunks {
			fmt.Printf("--- Result %d (score: %.4f) ---\n", i+1, c.Score)
			fmt.Printf("File: %s:%d-%d [%s]\n\n", c.FilePath, c.StartLine, c.EndLine, c.Kind)
			fmt.Println(c.Content)
			fmt.Println()
		}
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", retriever.DefaultLimit, "maximum number of results")
	searchCmd.Flags().StringVar(&searchScope, "scope", "", "restrict results to one indexed project root")
	rootCmd.AddCommand(searchCmd)
}
