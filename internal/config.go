package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys. They double as environment variable names.
const (
	KeyAPIKey          = "GEMINI_API_KEY"
	KeyModel           = "GEMINI_MODEL"
	KeySystemPrompt    = "SYSTEM_PROMPT"
	KeyEditor          = "HAJIMI_EDITOR"
	KeyTemperature     = "HAJIMI_TEMPERATURE"
	KeyMaxOutputTokens = "HAJIMI_MAX_OUTPUT_TOKENS"
	KeyCacheDir        = "HAJIMI_CACHE_DIR"
	KeyJournal         = "HAJIMI_JOURNAL"
	KeyModelsTTL       = "HAJIMI_MODELS_TTL"
)

const (
	// DefaultModel is used when GEMINI_MODEL is unset
	DefaultModel           = "gemini-2.5-flash"
	DefaultTemperature     = 0.8
	DefaultMaxOutputTokens = 8192
	DefaultModelsTTL       = time.Hour
	// DefaultEnvFile is read from the working directory when present
	DefaultEnvFile = ".env"
)

// Config is the resolved runtime configuration
type Config struct {
	APIKey           string        `mapstructure:"gemini_api_key"`
	Model            string        `mapstructure:"gemini_model"`
	SystemPromptPath string        `mapstructure:"system_prompt"`
	Editor           string        `mapstructure:"hajimi_editor"`
	Temperature      float32       `mapstructure:"hajimi_temperature"`
	MaxOutputTokens  int32         `mapstructure:"hajimi_max_output_tokens"`
	CacheDir         string        `mapstructure:"hajimi_cache_dir"`
	JournalPath      string        `mapstructure:"hajimi_journal"`
	ModelsTTL        time.Duration `mapstructure:"hajimi_models_ttl"`
}

// ConfigError represents an unusable configuration
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DefaultCacheDir returns ~/.hajimi-cache, falling back to the temp dir
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".hajimi-cache")
	}
	return filepath.Join(home, ".hajimi-cache")
}

// SetConfigDefaults registers every key on v so environment lookups and
// Unmarshal see them
func SetConfigDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeySystemPrompt, "")
	v.SetDefault(KeyEditor, "")
	v.SetDefault(KeyTemperature, DefaultTemperature)
	v.SetDefault(KeyMaxOutputTokens, DefaultMaxOutputTokens)
	v.SetDefault(KeyCacheDir, DefaultCacheDir())
	v.SetDefault(KeyJournal, "")
	v.SetDefault(KeyModelsTTL, DefaultModelsTTL)
}

// LoadConfig resolves configuration from defaults, an optional dotenv file
// and the environment, in increasing precedence. Flags bound to v win over
// all of them. A missing envFile is only an error when it was named
// explicitly.
func LoadConfig(v *viper.Viper, envFile string) (*Config, error) {
	SetConfigDefaults(v)
	v.AutomaticEnv()

	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Key: "env-file", Err: err}
		}
		LogDebug("No %s file found, using environment only", envFile)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Key: "decode", Err: err}
	}

	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir()
	}
	if cfg.JournalPath == "" {
		cfg.JournalPath = filepath.Join(cfg.CacheDir, "journal.db")
	}
	return &cfg, nil
}

// Validate checks the settings needed to talk to the remote service
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigError{Key: KeyAPIKey, Err: errors.New("not set; put it in the environment or a .env file")}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return &ConfigError{Key: KeyTemperature, Err: fmt.Errorf("%v is outside [0, 2]", c.Temperature)}
	}
	if c.MaxOutputTokens <= 0 {
		return &ConfigError{Key: KeyMaxOutputTokens, Err: fmt.Errorf("must be positive, got %d", c.MaxOutputTokens)}
	}
	return nil
}

// SystemPrompt reads the system prompt file. An unset path yields "".
func (c *Config) SystemPrompt() (string, error) {
	if c.SystemPromptPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.SystemPromptPath)
	if err != nil {
		return "", &ConfigError{Key: KeySystemPrompt, Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

// CatalogKey identifies whose model list the cache holds without storing
// the API key itself
func (c *Config) CatalogKey() string {
	return CacheKey(c.APIKey)
}
