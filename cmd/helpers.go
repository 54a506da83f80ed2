package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/codescope-ai/codescope/internal/config"
	"github.com/codescope-ai/codescope/internal/embeddings"
	"github.com/codescope-ai/codescope/internal/llm"
	"github.com/codescope-ai/codescope/internal/logging"
	"github.com/codescope-ai/codescope/internal/vectorstore"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `codescope init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	return logging.New(verbose)
}

// newEmbedder creates the embedding backend selected in the config.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		e := embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingDimensions, cfg.OllamaHost)
		if cfg.MaxEmbedChars > 0 {
			e.SetMaxPromptChars(cfg.MaxEmbedChars)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

// newStore creates the vector store backend selected in the config.
func newStore(cfg *config.Config, logger *zap.Logger) (vectorstore.Store, error) {
	switch cfg.Store {
	case config.StoreQdrant:
		return vectorstore.NewQdrantStore(vectorstore.QdrantConfig{
			Host: cfg.QdrantHost,
			Port: cfg.QdrantPort,
		}, logger)
	case config.StoreChromem:
		return vectorstore.NewChromemStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// newChatProvider creates the chat backend, or nil when no model is set.
func newChatProvider(cfg *config.Config) llm.Provider {
	if cfg.ChatModel == "" {
		return nil
	}
	return llm.NewOllamaProvider(cfg.OllamaHost, cfg.ChatModel)
}
