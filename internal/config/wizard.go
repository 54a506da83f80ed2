package config

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
)

// projectTypePatterns maps marker files to human-readable project types
// and a recommended include glob.
var projectTypePatterns = map[string]struct {
	Name    string
	Include string
}{
	"go.mod":           {Name: "Go", Include: "**/*.go"},
	"package.json":     {Name: "Node.js/TypeScript", Include: "**/*.{js,ts,jsx,tsx}"},
	"requirements.txt": {Name: "Python", Include: "**/*.py"},
	"pyproject.toml":   {Name: "Python", Include: "**/*.py"},
	"Cargo.toml":       {Name: "Rust", Include: "**/*.rs"},
	"pom.xml":          {Name: "Java", Include: "**/*.java"},
}

// detectProjectType checks the current directory for well-known project markers.
func detectProjectType() (name string, include string) {
	for marker, info := range projectTypePatterns {
		matches, _ := filepath.Glob(marker)
		if len(matches) > 0 {
			return info.Name, info.Include
		}
	}
	return "", ""
}

// RunWizard runs an interactive configuration wizard and saves the resulting
// config to .codescope.yml in the current directory.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to codescope! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	if projType, include := detectProjectType(); projType != "" {
		fmt.Printf("Detected project type: %s\n\n", projType)
		if include != "" {
			cfg.Include = []string{include}
		}
	}

	workspacePrompt := promptui.Prompt{
		Label:   "Workspace root to index",
		Default: ".",
	}
	workspace, err := workspacePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	cfg.Workspace = workspace

	providerPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"ollama", "openai"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.EmbeddingProvider = ProviderType(providerStr)
	if cfg.EmbeddingProvider == ProviderOpenAI {
		cfg.EmbeddingModel = "text-embedding-3-small"
		cfg.EmbeddingDimensions = 1536
	}

	storePrompt := promptui.Select{
		Label: "Select vector store",
		Items: []string{"chromem (embedded, no external service)", "qdrant (remote)"},
	}
	storeIdx, _, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("store selection: %w", err)
	}
	if storeIdx == 1 {
		cfg.Store = StoreQdrant

		hostPrompt := promptui.Prompt{Label: "Qdrant host", Default: cfg.QdrantHost}
		if cfg.QdrantHost, err = hostPrompt.Run(); err != nil {
			return nil, fmt.Errorf("qdrant host: %w", err)
		}
		portPrompt := promptui.Prompt{
			Label:   "Qdrant gRPC port",
			Default: strconv.Itoa(cfg.QdrantPort),
			Validate: func(s string) error {
				_, err := strconv.Atoi(s)
				return err
			},
		}
		portStr, err := portPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("qdrant port: %w", err)
		}
		cfg.QdrantPort, _ = strconv.Atoi(portStr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(".codescope.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration written to .codescope.yml")
	fmt.Println("Run `codescope index` to build the search index.")
	return cfg, nil
}
