package config

// ProviderType identifies an embedding provider.
type ProviderType string

const (
	ProviderOllama ProviderType = "ollama"
	ProviderOpenAI ProviderType = "openai"
)

// StoreType identifies a vector store backend.
type StoreType string

const (
	// StoreChromem is the embedded in-process store persisted under DataDir.
	StoreChromem StoreType = "chromem"
	// StoreQdrant is a remote Qdrant instance reached over gRPC.
	StoreQdrant StoreType = "qdrant"
)

// Config is the top-level codescope configuration, corresponding to .codescope.yml.
type Config struct {
	// Workspace is the root directory of the tree to index.
	Workspace string `yaml:"workspace" koanf:"workspace"`

	// EmbeddingProvider selects the embedding backend (ollama or openai).
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	// EmbeddingModel is the model name, e.g. "nomic-embed-text".
	EmbeddingModel string `yaml:"embedding_model" koanf:"embedding_model"`
	// EmbeddingDimensions must match the collection dimension.
	EmbeddingDimensions int `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	// MaxEmbedChars is the character budget per embedding request; longer
	// inputs are truncated before submission.
	MaxEmbedChars int `yaml:"max_embed_chars" koanf:"max_embed_chars"`

	// OllamaHost is the base URL of the Ollama instance used for embeddings
	// and chat completions.
	OllamaHost string `yaml:"ollama_host" koanf:"ollama_host"`
	// ChatModel is the Ollama model used to answer /chat requests.
	ChatModel string `yaml:"chat_model" koanf:"chat_model"`

	// Store selects the vector store backend.
	Store StoreType `yaml:"store" koanf:"store"`
	// Collection is the vector collection name.
	Collection string `yaml:"collection" koanf:"collection"`
	// DataDir holds the embedded store's persistence files.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
	// QdrantHost and QdrantPort locate the Qdrant gRPC endpoint.
	QdrantHost string `yaml:"qdrant_host" koanf:"qdrant_host"`
	QdrantPort int    `yaml:"qdrant_port" koanf:"qdrant_port"`

	// WindowLines is the chunk size for languages without semantic boundaries.
	WindowLines int `yaml:"window_lines" koanf:"window_lines"`
	// BatchSize is the number of points accumulated before a store flush.
	BatchSize int `yaml:"batch_size" koanf:"batch_size"`
	// MaxFileSize in bytes; larger files are skipped during discovery.
	MaxFileSize int64 `yaml:"max_file_size" koanf:"max_file_size"`

	// Include and Exclude are glob patterns applied to discovered files,
	// on top of the built-in extension allow-list and directory deny-list.
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	// Port is the HTTP listen port for `codescope serve`.
	Port int `yaml:"port" koanf:"port"`
}
