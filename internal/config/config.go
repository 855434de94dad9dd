package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClientConfig configures the terminal chat client.
type ClientConfig struct {
	BaseURL     string          `yaml:"base_url"`
	TimeoutSecs int             `yaml:"timeout_secs"`
	LogFile     string          `yaml:"log_file"`
	Inventory   InventoryConfig `yaml:"inventory"`
}

// InventoryConfig selects the document inventory source.
type InventoryConfig struct {
	Type   string        `yaml:"type"` // static | live
	Static []StaticEntry `yaml:"static,omitempty"`
}

// StaticEntry is one placeholder document shown when the inventory is static.
type StaticEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ServerConfig configures the backend HTTP server.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	CORSOrigins  string `yaml:"cors_origins"`
	LogFile      string `yaml:"log_file"`
	CacheTTLSecs int    `yaml:"cache_ttl_secs"`
}

// SearchConfig contains connection details for the managed search index.
type SearchConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Index          string `yaml:"index"`
	APIKeyEnv      string `yaml:"api_key_env"`
	SemanticConfig string `yaml:"semantic_config,omitempty"`
	APIVersion     string `yaml:"api_version"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

// EmbeddingConfig configures the managed embeddings deployment.
type EmbeddingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Deployment  string `yaml:"deployment"`
	APIKeyEnv   string `yaml:"api_key_env"`
	APIVersion  string `yaml:"api_version"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChatConfig configures the managed chat-completion deployment.
type ChatConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Deployment  string  `yaml:"deployment"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	APIVersion  string  `yaml:"api_version"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// BlobConfig configures the blob container holding the source documents.
type BlobConfig struct {
	AccountURL  string `yaml:"account_url"`
	Container   string `yaml:"container"`
	Prefix      string `yaml:"prefix,omitempty"`
	SASEnv      string `yaml:"sas_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Client    ClientConfig    `yaml:"client"`
	Server    ServerConfig    `yaml:"server"`
	Search    SearchConfig    `yaml:"search"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Blob      BlobConfig      `yaml:"blob"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/docchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://localhost:8000"
	}
	if cfg.Client.TimeoutSecs == 0 {
		cfg.Client.TimeoutSecs = 60
	}
	if cfg.Client.LogFile == "" {
		cfg.Client.LogFile = "docchat.log"
	}
	if cfg.Client.Inventory.Type == "" {
		cfg.Client.Inventory.Type = "static"
	}
	if cfg.Client.Inventory.Type == "static" && len(cfg.Client.Inventory.Static) == 0 {
		cfg.Client.Inventory.Static = []StaticEntry{
			{Name: "Product Guides.pdf", Path: "guides/Product Guides.pdf"},
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.CORSOrigins == "" {
		cfg.Server.CORSOrigins = "*"
	}
	if cfg.Server.LogFile == "" {
		cfg.Server.LogFile = "docchat-server.log"
	}
	if cfg.Server.CacheTTLSecs == 0 {
		cfg.Server.CacheTTLSecs = 60
	}
	if cfg.Search.APIKeyEnv == "" {
		cfg.Search.APIKeyEnv = "SEARCH_KEY"
	}
	if cfg.Search.APIVersion == "" {
		cfg.Search.APIVersion = "2023-07-01-Preview"
	}
	if cfg.Search.TimeoutSecs == 0 {
		cfg.Search.TimeoutSecs = 30
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "EMBED_KEY"
	}
	if cfg.Embedding.Deployment == "" {
		cfg.Embedding.Deployment = "text-embedding-3-large"
	}
	if cfg.Embedding.APIVersion == "" {
		cfg.Embedding.APIVersion = "2024-02-01"
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = 30
	}
	if cfg.Chat.APIKeyEnv == "" {
		cfg.Chat.APIKeyEnv = "CHAT_KEY"
	}
	if cfg.Chat.Deployment == "" {
		cfg.Chat.Deployment = "gpt-4.1"
	}
	if cfg.Chat.APIVersion == "" {
		cfg.Chat.APIVersion = "2024-02-01"
	}
	if cfg.Chat.Temperature == 0 {
		cfg.Chat.Temperature = 0.2
	}
	if cfg.Chat.MaxTokens == 0 {
		cfg.Chat.MaxTokens = 1500
	}
	if cfg.Chat.TimeoutSecs == 0 {
		cfg.Chat.TimeoutSecs = 60
	}
	if cfg.Blob.SASEnv == "" {
		cfg.Blob.SASEnv = "BLOB_SAS"
	}
	if cfg.Blob.TimeoutSecs == 0 {
		cfg.Blob.TimeoutSecs = 30
	}
}
