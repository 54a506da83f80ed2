package config

// Defaults assume nomic-embed-text at 768 dimensions with cosine distance.
const (
	DefaultCollection    = "codebase"
	DefaultDimensions    = 768
	DefaultMaxEmbedChars = 8192
	DefaultWindowLines   = 100
	DefaultBatchSize     = 10
	DefaultMaxFileSize   = 1 << 20
)

// DefaultExcludes are glob patterns excluded from indexing by default.
var DefaultExcludes = []string{
	"*.min.js",
	"*.min.css",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Workspace:           ".",
		EmbeddingProvider:   ProviderOllama,
		EmbeddingModel:      "nomic-embed-text",
		EmbeddingDimensions: DefaultDimensions,
		MaxEmbedChars:       DefaultMaxEmbedChars,
		OllamaHost:          "http://localhost:11434",
		ChatModel:           "llama3",
		Store:               StoreChromem,
		Collection:          DefaultCollection,
		DataDir:             ".codescope",
		QdrantHost:          "localhost",
		QdrantPort:          6334,
		WindowLines:         DefaultWindowLines,
		BatchSize:           DefaultBatchSize,
		MaxFileSize:         DefaultMaxFileSize,
		Exclude:             DefaultExcludes,
		Port:                8002,
	}
}
