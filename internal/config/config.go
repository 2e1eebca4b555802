// Package config loads runtime configuration. Environment variables take
// precedence over the optional YAML file; unset values fall back to
// built-in defaults so a bare `mnemo` invocation works out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kavro/mnemo/internal/embedding"
	"github.com/kavro/mnemo/internal/engine"
)

// Config is the full runtime configuration.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`

	// Embedding selects the vector backend; empty provider disables it.
	Embedding embedding.Config `yaml:"embedding"`

	// Engine tunes retrieval weights and limits.
	Engine engine.Config `yaml:"engine"`

	// CacheBytes caps the in-process embedding cache. Zero disables it.
	CacheBytes int64 `yaml:"cache_bytes"`
}

// Load reads the YAML file at path (if it exists), then applies
// environment overrides and defaults. A missing file is not an error; a
// malformed one is.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("MNEMO_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env + defaults
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.DBPath, "MNEMO_DB")
	setString(&cfg.Embedding.Provider, "MNEMO_EMBED_PROVIDER")
	setString(&cfg.Embedding.BaseURL, "MNEMO_EMBED_BASE_URL")
	setString(&cfg.Embedding.APIKey, "MNEMO_EMBED_API_KEY")
	setString(&cfg.Embedding.Model, "MNEMO_EMBED_MODEL")

	if v := os.Getenv("MNEMO_EMBED_DIMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Embedding.Dims = n
		}
	}
	if v := os.Getenv("MNEMO_CACHE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.CacheBytes = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DBPath == "" {
		home, _ := os.UserHomeDir()
		cfg.DBPath = filepath.Join(home, ".mnemo", "memory.db")
	}
	if cfg.CacheBytes == 0 {
		cfg.CacheBytes = 32 << 20
	}
}

// NewEmbedder builds the configured embedder, wrapped in the in-process
// cache when one is enabled. Returns nil when embedding is disabled.
func (c Config) NewEmbedder() (embedding.Embedder, error) {
	emb, err := embedding.New(c.Embedding)
	if err != nil || emb == nil {
		return emb, err
	}
	if c.CacheBytes > 0 {
		return embedding.NewCached(emb, c.CacheBytes)
	}
	return emb, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
