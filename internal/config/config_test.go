package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, []string{"?", "!", ".", ","}, cfg.Chatbot.Punctuation)
	assert.False(t, cfg.HistoryEnabled())
}

func TestInit_ConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chatbot:
  threshold: 0.4
  seed: 7
  punctuation: ["?", "!", "hmm"]
server:
  addr: ":9090"
  limiter_ttl: 30s
database:
  driver: sqlite
  dsn: ":memory:"
`), 0o644))
	t.Setenv("HEALTHBOT_LOG_LEVEL", "debug")
	t.Setenv("HEALTHBOT_CHATBOT_REMOVE_STOP_WORDS", "false")

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Chatbot.Threshold)
	assert.Equal(t, uint64(7), cfg.Chatbot.Seed)
	assert.Equal(t, []string{"?", "!", "hmm"}, cfg.Chatbot.Punctuation)
	assert.False(t, cfg.Chatbot.RemoveStopWords)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.LimiterTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "data/intents.json", cfg.Chatbot.KnowledgeBase)
	assert.True(t, cfg.HistoryEnabled())
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "threshold too high", mutate: func(c *Config) { c.Chatbot.Threshold = 1 }, wantErr: "chatbot.threshold"},
		{name: "threshold negative", mutate: func(c *Config) { c.Chatbot.Threshold = -0.1 }, wantErr: "chatbot.threshold"},
		{name: "blank punctuation", mutate: func(c *Config) { c.Chatbot.Punctuation = []string{"?", " "} }, wantErr: "chatbot.punctuation"},
		{name: "negative rate", mutate: func(c *Config) { c.Server.RateLimit = -1 }, wantErr: "server.rate_limit"},
		{name: "zero burst", mutate: func(c *Config) { c.Server.RateBurst = 0 }, wantErr: "server.rate_burst"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database.driver"},
		{name: "missing dsn", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: "database.dsn"},
		{name: "history limit", mutate: func(c *Config) { c.Database.HistoryLimit = 0 }, wantErr: "database.history_limit"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	cfg := Default()
	cfg.Server.RateLimit = 0
	cfg.Server.RateBurst = 0
	assert.NoError(t, cfg.Validate(), "burst is ignored when rate limiting is off")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "intent", "greeting")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"intent":"greeting"`)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
