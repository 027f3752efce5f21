// Package config handles configuration resolution for ask.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/hyizhou/ask/internal/errors"
	"github.com/hyizhou/ask/internal/models"
)

// ConfigFileName is the user config file stored in the home directory.
const ConfigFileName = ".ai.json"

// DevConfigFileName in the working directory overrides the home config
// (development mode).
const DevConfigFileName = "config.json"

// ModelConfig is one entry of the model table
type ModelConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	APIBase string `json:"api_base"`
}

// ProxyConfig configures the outbound HTTP proxy
type ProxyConfig struct {
	Enabled bool   `json:"enabled"`
	HTTP    string `json:"http"`
	HTTPS   string `json:"https"`
}

// Config is the resolved user configuration
type Config struct {
	DefaultModel string                 `json:"default_model"`
	Models       map[string]ModelConfig `json:"models"`
	Proxy        ProxyConfig            `json:"proxy"`
	MaxHistory   int                    `json:"max_history"`
	StreamOutput bool                   `json:"stream_output"`
	// Language selects the message catalog: "auto", "zh" or "en".
	Language string `json:"language"`
	// CopyToClipboard copies each completed reply to the clipboard.
	CopyToClipboard bool `json:"copy_to_clipboard,omitempty"`

	// Path is the file the config was resolved from. Not serialized.
	Path string `json:"-"`
	// Dev is true when the working-directory override file was used.
	Dev bool `json:"-"`
}

// DefaultConfig returns the template written on first run
func DefaultConfig() Config {
	return Config{
		DefaultModel: "openai",
		Models: map[string]ModelConfig{
			"openai": {
				APIKey:  "",
				Model:   "gpt-3.5-turbo",
				APIBase: "https://api.openai.com/v1/",
			},
			"deepseek": {
				APIKey:  "",
				Model:   "deepseek-chat",
				APIBase: "https://api.deepseek.com/v1/",
			},
			"qwen": {
				APIKey:  "",
				Model:   "qwen-max",
				APIBase: "https://dashscope.aliyuncs.com/api/v1/",
			},
		},
		Proxy:        ProxyConfig{},
		MaxHistory:   10,
		StreamOutput: true,
		Language:     "auto",
	}
}

// ConfigPath returns the config file to use and whether it is the
// development override. The working-directory config.json wins when it
// exists; otherwise the home-directory file is used (and may not exist
// yet).
func ConfigPath() (string, bool, error) {
	if cwd, err := os.Getwd(); err == nil {
		devPath := filepath.Join(cwd, DevConfigFileName)
		if _, err := os.Stat(devPath); err == nil {
			return devPath, true, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, apierrors.NewConfigError("", "cannot determine home directory: "+err.Error())
	}
	return filepath.Join(home, ConfigFileName), false, nil
}

// Resolve loads and validates the configuration. A missing file is
// replaced by the default template, which is also written to disk so
// the user has something to edit.
func Resolve() (*Config, error) {
	path, dev, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return ResolveFrom(path, dev)
}

// ResolveFrom loads the configuration from an explicit path
func ResolveFrom(path string, dev bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, apierrors.NewConfigError(path, "cannot read config file: "+err.Error())
		}

		cfg := DefaultConfig()
		cfg.Path = path
		cfg.Dev = dev
		if err := Save(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// Start from defaults so fields absent from older config files keep
	// their documented default values.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, apierrors.NewConfigError(path, "malformed JSON: "+err.Error())
	}
	cfg.Path = path
	cfg.Dev = dev

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the program relies on
func (c *Config) Validate() error {
	if c.DefaultModel == "" {
		return apierrors.NewConfigError(c.Path, "default_model is empty")
	}
	if _, ok := c.Models[c.DefaultModel]; !ok {
		return apierrors.NewConfigError(c.Path,
			"default_model '"+c.DefaultModel+"' not found in models")
	}
	if c.MaxHistory < 0 {
		return apierrors.NewConfigError(c.Path, "max_history must be >= 0")
	}
	switch c.Language {
	case "", "auto", "zh", "en":
	default:
		return apierrors.NewConfigError(c.Path,
			"language must be one of auto, zh, en")
	}
	return nil
}

// Save writes the configuration to its path
func Save(cfg *Config) error {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apierrors.NewConfigError(cfg.Path, "cannot create config directory: "+err.Error())
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return apierrors.NewConfigError(cfg.Path, "cannot marshal config: "+err.Error())
	}

	// 0o600: the file holds API keys
	if err := os.WriteFile(cfg.Path, data, 0o600); err != nil {
		return apierrors.NewConfigError(cfg.Path, "cannot write config file: "+err.Error())
	}
	return nil
}

// EnvKeyName returns the environment variable consulted for a model's
// API key, e.g. "openai" -> "OPENAI_API_KEY".
func EnvKeyName(model string) string {
	return strings.ToUpper(model) + "_API_KEY"
}

// Profile resolves a ModelProfile by name. The environment variable
// <NAME>_API_KEY overrides the key stored in the file for that model
// only.
func (c *Config) Profile(name string) (models.ModelProfile, error) {
	mc, ok := c.Models[name]
	if !ok {
		return models.ModelProfile{}, apierrors.NewConfigError(c.Path,
			"model '"+name+"' not found in models")
	}

	key := mc.APIKey
	if env := os.Getenv(EnvKeyName(name)); env != "" {
		key = env
	}
	if key == "" {
		return models.ModelProfile{}, apierrors.NewConfigError(c.Path,
			"no API key for model '"+name+"': set it in the config file or via "+EnvKeyName(name))
	}

	return models.ModelProfile{
		Name:    name,
		APIKey:  key,
		Model:   mc.Model,
		APIBase: mc.APIBase,
		Kind:    models.KindForModel(name),
	}, nil
}

// ProxyURL returns the proxy to use for HTTPS traffic, or "" when the
// proxy is disabled. The https URL wins over the http one.
func (c *Config) ProxyURL() string {
	if !c.Proxy.Enabled {
		return ""
	}
	if c.Proxy.HTTPS != "" {
		return c.Proxy.HTTPS
	}
	return c.Proxy.HTTP
}
