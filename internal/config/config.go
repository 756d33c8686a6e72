// Package config loads the chatbot configuration from defaults, an optional
// YAML file, HEALTHBOT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"health-chatbot/internal/textnorm"
)

// EnvPrefix is prepended to every environment variable, e.g.
// HEALTHBOT_SERVER_ADDR for server.addr.
const EnvPrefix = "HEALTHBOT"

// Config is the complete runtime configuration.
type Config struct {
	Chatbot  ChatbotConfig  `mapstructure:"chatbot" yaml:"chatbot"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// ChatbotConfig controls knowledge-base loading and matching.
type ChatbotConfig struct {
	KnowledgeBase        string   `mapstructure:"knowledge_base" yaml:"knowledge_base"`
	Threshold            float64  `mapstructure:"threshold" yaml:"threshold"`
	RemoveStopWords      bool     `mapstructure:"remove_stop_words" yaml:"remove_stop_words"`
	Punctuation          []string `mapstructure:"punctuation" yaml:"punctuation"` // tokens dropped after tokenizing
	Seed                 uint64   `mapstructure:"seed" yaml:"seed"`               // 0 = unseeded
	RequireKnowledgeBase bool     `mapstructure:"require_knowledge_base" yaml:"require_knowledge_base"`
}

// ServerConfig controls the HTTP listener and per-client rate limiting.
type ServerConfig struct {
	Addr       string        `mapstructure:"addr" yaml:"addr"`
	RateLimit  float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst  int           `mapstructure:"rate_burst" yaml:"rate_burst"`
	LimiterTTL time.Duration `mapstructure:"limiter_ttl" yaml:"limiter_ttl"`
}

// DatabaseConfig selects where chat history is stored.  An empty driver
// disables history.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" yaml:"driver"`
	DSN          string `mapstructure:"dsn" yaml:"dsn"`
	HistoryLimit int    `mapstructure:"history_limit" yaml:"history_limit"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chatbot: ChatbotConfig{
			KnowledgeBase:   "data/intents.json",
			Threshold:       0.3,
			RemoveStopWords: true,
			Punctuation:     slices.Clone(textnorm.DefaultPunctuation),
		},
		Server: ServerConfig{
			Addr:       ":8080",
			RateLimit:  5,
			RateBurst:  10,
			LimiterTTL: 10 * time.Minute,
		},
		Database: DatabaseConfig{
			HistoryLimit: 100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every key with its default value.  Keys must be
// known to viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("chatbot.knowledge_base", d.Chatbot.KnowledgeBase)
	v.SetDefault("chatbot.threshold", d.Chatbot.Threshold)
	v.SetDefault("chatbot.remove_stop_words", d.Chatbot.RemoveStopWords)
	v.SetDefault("chatbot.punctuation", d.Chatbot.Punctuation)
	v.SetDefault("chatbot.seed", d.Chatbot.Seed)
	v.SetDefault("chatbot.require_knowledge_base", d.Chatbot.RequireKnowledgeBase)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.limiter_ttl", d.Server.LimiterTTL)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.history_limit", d.Database.HistoryLimit)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Init prepares v: defaults, environment binding and the config file.  With
// an empty cfgFile it looks for config.yaml in $HOME/.healthbot and the
// working directory; a missing file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".healthbot"))
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Chatbot.Threshold < 0 || c.Chatbot.Threshold >= 1 {
		errs = append(errs, fmt.Errorf("chatbot.threshold must be in [0, 1), got %v", c.Chatbot.Threshold))
	}
	for _, p := range c.Chatbot.Punctuation {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("chatbot.punctuation must not contain blank entries"))
			break
		}
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must not be negative, got %v", c.Server.RateLimit))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("server.rate_burst must be at least 1, got %d", c.Server.RateBurst))
	}
	switch c.Database.Driver {
	case "":
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			errs = append(errs, fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver))
	}
	if c.Database.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("database.history_limit must be at least 1, got %d", c.Database.HistoryLimit))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// HistoryEnabled reports whether a database is configured.
func (c Config) HistoryEnabled() bool { return c.Database.Driver != "" }
