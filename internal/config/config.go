// Package config handles loading and saving the astrasemi configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all astrasemi configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Uploads    UploadsConfig    `toml:"uploads"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	DefaultLanguage string `toml:"default_language"`
}

// OpenAIConfig holds AI provider settings.
type OpenAIConfig struct {
	APIKey    string `toml:"api_key,omitempty"`
	BaseURL   string `toml:"base_url,omitempty"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
}

// UploadsConfig holds upload size ceilings in megabytes.
type UploadsConfig struct {
	MaxCSVMB   int64 `toml:"max_csv_mb"`
	MaxImageMB int64 `toml:"max_image_mb"`
}

// AppearanceConfig holds dashboard theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8090",
			DefaultLanguage: "English",
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-4o",
			MaxTokens: 1024,
		},
		Uploads: UploadsConfig{
			MaxCSVMB:   50,
			MaxImageMB: 20,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "astrasemi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "astrasemi")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory (analytics database).
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "astrasemi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "astrasemi")
}

// ActivityDBPath returns the default path of the analytics database.
func ActivityDBPath() string {
	return filepath.Join(DataDir(), "activity.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetAPIKey returns the OpenAI key from env var or config, in that order.
func GetAPIKey(cfg Config) string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return cfg.OpenAI.APIKey
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
