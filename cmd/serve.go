package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codescope-ai/codescope/internal/indexer"
	"github.com/codescope-ai/codescope/internal/retriever"
	"github.com/codescope-ai/codescope/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the indexing and retrieval HTTP server",
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

		idx := indexer.NewService(embedder, store, cfg, logger)
		ret := retriever.New(embedder, store, cfg.Collection, logger)
		srv := server.New(cfg, idx, ret, newChatProvider(cfg), logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				exitOnError(err)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			exitOnError(srv.Shutdown(shutdownCtx))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
