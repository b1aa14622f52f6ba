package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{KeyAPIKey, KeyModel, KeySystemPrompt, KeyEditor, KeyTemperature,
		KeyMaxOutputTokens, KeyCacheDir, KeyJournal, KeyModelsTTL} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultModel, cfg.Model)
	require.InDelta(t, DefaultTemperature, cfg.Temperature, 1e-6)
	require.Equal(t, int32(DefaultMaxOutputTokens), cfg.MaxOutputTokens)
	require.Equal(t, DefaultModelsTTL, cfg.ModelsTTL)
	require.Equal(t, filepath.Join(cfg.CacheDir, "journal.db"), cfg.JournalPath)
	require.Empty(t, cfg.APIKey)
}

func TestLoadConfig_EnvFileAndEnvironment(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	env := "GEMINI_API_KEY=from-file\nGEMINI_MODEL=gemini-2.5-pro\nHAJIMI_MODELS_TTL=10m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0600))
	t.Setenv(KeyModel, "gemini-from-env")
	t.Setenv(KeyTemperature, "0.25")

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.APIKey)
	require.Equal(t, "gemini-from-env", cfg.Model, "environment overrides the env file")
	require.InDelta(t, 0.25, cfg.Temperature, 1e-6)
	require.Equal(t, 10*time.Minute, cfg.ModelsTTL)
}

func TestLoadConfig_ExplicitEnvFileMissing(t *testing.T) {
	clearConfigEnv(t)
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.env"))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr), "LoadConfig() error = %v, want *ConfigError", err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{APIKey: "k", Temperature: 0.8, MaxOutputTokens: 8192}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing key", mutate: func(c *Config) { c.APIKey = "  " }, wantKey: KeyAPIKey},
		{name: "temperature", mutate: func(c *Config) { c.Temperature = 3 }, wantKey: KeyTemperature},
		{name: "tokens", mutate: func(c *Config) { c.MaxOutputTokens = 0 }, wantKey: KeyMaxOutputTokens},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantKey == "" {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			require.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestConfig_SystemPrompt(t *testing.T) {
	cfg := &Config{}
	prompt, err := cfg.SystemPrompt()
	require.NoError(t, err)
	require.Empty(t, prompt)

	path := filepath.Join(t.TempDir(), "system.md")
	require.NoError(t, os.WriteFile(path, []byte("Be brief.\n\n"), 0644))
	cfg.SystemPromptPath = path
	prompt, err = cfg.SystemPrompt()
	require.NoError(t, err)
	require.Equal(t, "Be brief.", prompt)

	cfg.SystemPromptPath = filepath.Join(t.TempDir(), "missing.md")
	_, err = cfg.SystemPrompt()
	require.Error(t, err)
}
