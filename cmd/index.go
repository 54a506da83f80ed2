package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codescope-ai/codescope/internal/indexer"
	"github.com/codescope-ai/codescope/internal/progress"
)

var forceReindex bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a codebase into the vector store",
	Long: `Walks the given directory (or the configured workspace), chunks every
recognized source file, embeds the chunks, and writes them to the vector
store. Unchanged chunks from a previous run are skipped.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnError(err)

		path := cfg.Workspace
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			path = "."
		}

		logger, err := newLogger()
		exitOnError(err)
		defer logger.Sync()

		embedder, err := newEmbedder(cfg)
		exitOnError(err)
		store, err := newStore(cfg, logger)
		exitOnError(err)
		defer store.Close()

		svc := indexer.NewService(embedder, store, cfg, logger)

		reporter := progress.NewReporter()
		started := false
		summary, err := svc.Run(cmd.Context(), path, forceReindex, func(processed, total int, file string) {
			if !started {
				reporter.Start(total)
				started = true
			}
			reporter.Update(processed, file)
		})
		if started {
			reporter.Finish()
		}
		exitOnError(err)

		fmt.Printf("Indexed %d/%d files in %.1fs\n", summary.FilesIndexed, summary.FilesTotal, summary.DurationSeconds)
		fmt.Printf("Chunks: %d indexed, %d unchanged, %d failed\n",
			summary.ChunksIndexed, summary.ChunksSkipped, summary.ChunksFailed)
	},
}

func init() {
	indexCmd.Flags().BoolVar(&forceReindex, "force", false, "re-embed all chunks, ignoring stored content hashes")
	rootCmd.AddCommand(indexCmd)
}
