package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DocumentSpec is one entry of the ingestion manifest: a PDF on disk plus
// the display name and category it will carry in the index.
type DocumentSpec struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ChunkingConfig controls how extracted text is split before embedding.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// EmbeddingConfig configures the OpenAI-compatible embedding provider.
type EmbeddingConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"`
}

// GenerationConfig configures the Gemini completion provider.
type GenerationConfig struct {
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// AppConfig is the root configuration, loaded from config.yaml.
type AppConfig struct {
	Collection  string           `yaml:"collection"`
	ChromaURL   string           `yaml:"chroma_url"`
	Port        string           `yaml:"port"`
	TopK        int              `yaml:"top_k"`
	Chunking    ChunkingConfig   `yaml:"chunking"`
	Embedding   EmbeddingConfig  `yaml:"embedding"`
	Generation  GenerationConfig `yaml:"generation"`
	Documents   []DocumentSpec   `yaml:"documents"`
}

// Load reads the config from path. A missing file yields the defaults so
// the server can run against a local ChromaDB without any config at all.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Collection == "" {
		cfg.Collection = "aer_directives"
	}
	if cfg.ChromaURL == "" {
		cfg.ChromaURL = "http://localhost:8000"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.TopK == 0 {
		cfg.TopK = 5
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 500
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 100
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 100
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "gemini-2.5-flash"
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.3
	}
	if cfg.Generation.MaxOutputTokens == 0 {
		cfg.Generation.MaxOutputTokens = 600
	}
}
