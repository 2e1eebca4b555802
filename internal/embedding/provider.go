package embedding

import "fmt"

// Config selects and parameterizes an embedding backend.
type Config struct {
	Provider string `yaml:"provider"` // "ollama", "openai", "mock", "" (disabled)
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Dims     int    `yaml:"dims"`
}

// New builds an embedder from config. An empty provider returns nil with no
// error: the engine runs without vector recall. A missing API key for a
// remote provider likewise falls back to nil instead of failing.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg.BaseURL, cfg.Model), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, nil
		}
		return NewOpenAIEmbedder(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Dims), nil
	case "mock":
		return NewMockEmbedder(cfg.Dims), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedder provider: %s", cfg.Provider)
	}
}
