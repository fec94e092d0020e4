// Package config loads misparia's settings from an optional YAML file and
// MISPARIA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/misparia/internal/llm"
)

type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	Log    LogConfig    `mapstructure:"log"`
	Game   GameConfig   `mapstructure:"game"`
	Oracle OracleConfig `mapstructure:"oracle"`
}

type DBConfig struct {
	// Path to the SQLite file. Empty uses store.DefaultDBPath.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

type GameConfig struct {
	Difficulty  string   `mapstructure:"difficulty" validate:"oneof=beginner intermediate advanced"`
	Topics      []string `mapstructure:"topics" validate:"min=1,dive,oneof=addition subtraction multiplication division fractions"`
	MemoryPairs int      `mapstructure:"memory_pairs" validate:"gte=2,lte=12"`
}

// OracleConfig overrides the llm environment settings when set.
type OracleConfig struct {
	Provider          string        `mapstructure:"provider" validate:"omitempty,oneof=gemini anthropic openai openrouter mock"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	RequestsPerMinute float64       `mapstructure:"requests_per_minute" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("game.difficulty", "beginner")
	v.SetDefault("game.topics", []string{"addition"})
	v.SetDefault("game.memory_pairs", 6)

	v.SetDefault("oracle.provider", "")
	v.SetDefault("oracle.model", "")
	v.SetDefault("oracle.timeout", 0)
	v.SetDefault("oracle.requests_per_minute", 0)
}

// Load reads configuration. An explicit path must exist; otherwise
// config.yaml is looked up in $XDG_CONFIG_HOME/misparia and the working
// directory and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MISPARIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading files or
// the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// LLM merges the oracle section over llm.ConfigFromEnv.
func (c *Config) LLM() (llm.Config, error) {
	lc, err := llm.ConfigFromEnv()
	if err != nil {
		return lc, err
	}

	if c.Oracle.Provider != "" && c.Oracle.Provider != lc.Provider {
		key := lc.APIKey()
		lc.Provider = c.Oracle.Provider
		if lc.APIKey() == "" {
			lc = lc.WithAPIKey(key)
		}
	}
	if c.Oracle.Model != "" {
		switch lc.Provider {
		case llm.ProviderGemini:
			lc.Gemini.Model = c.Oracle.Model
		case llm.ProviderAnthropic:
			lc.Anthropic.Model = c.Oracle.Model
		case llm.ProviderOpenAI:
			lc.OpenAI.Model = c.Oracle.Model
		case llm.ProviderOpenRouter:
			lc.OpenRouter.Model = c.Oracle.Model
		}
	}
	if c.Oracle.Timeout > 0 {
		lc.Timeout = c.Oracle.Timeout
	}
	if c.Oracle.RequestsPerMinute > 0 {
		lc.RatePerMinute = c.Oracle.RequestsPerMinute
	}

	if err := Validate(&lc); err != nil {
		return lc, err
	}
	return lc, nil
}

func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "misparia"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "misparia"), nil
}
