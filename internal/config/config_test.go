package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 50, cfg.Checker.MaxLinks)
	assert.Equal(t, 0, cfg.Checker.MaxConcurrency)
	assert.Equal(t, 10*time.Second, cfg.Checker.Timeout)
	assert.Equal(t, "GET", cfg.Checker.Method)
	assert.False(t, cfg.Checker.ResolveRelative)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
checker:
  max_links: 20
  timeout: 3s
  method: head
logging:
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Checker.MaxLinks)
	assert.Equal(t, 3*time.Second, cfg.Checker.Timeout)
	assert.Equal(t, "HEAD", cfg.Checker.Method)
	assert.Equal(t, "text", cfg.Logging.Format)
	// untouched keys keep their defaults
	assert.Equal(t, 20*time.Second, cfg.Checker.PageTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LINKSMITH_CHECKER_MAX_LINKS", "7")
	t.Setenv("LINKSMITH_SERVER_PORT", "9090")
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Checker.MaxLinks)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("checker: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero max links", mutate: func(c *Config) { c.Checker.MaxLinks = 0 }, wantErr: true},
		{name: "negative concurrency", mutate: func(c *Config) { c.Checker.MaxConcurrency = -1 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Checker.Timeout = 0 }, wantErr: true},
		{name: "zero page timeout", mutate: func(c *Config) { c.Checker.PageTimeout = 0 }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.Checker.RequestsPerSecond = -2 }, wantErr: true},
		{name: "post method", mutate: func(c *Config) { c.Checker.Method = "POST" }, wantErr: true},
		{name: "head method", mutate: func(c *Config) { c.Checker.Method = "HEAD" }},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCrawlBudget(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *CheckerConfig)
		want   time.Duration
	}{
		{name: "defaults", mutate: func(c *CheckerConfig) {}, want: 30 * time.Second},
		{
			name:   "rate limited",
			mutate: func(c *CheckerConfig) { c.RequestsPerSecond = 1 },
			want:   20*time.Second + 49*time.Second + 10*time.Second,
		},
		{
			name:   "bounded concurrency",
			mutate: func(c *CheckerConfig) { c.MaxConcurrency = 20 },
			want:   20*time.Second + 3*10*time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default().Checker
			tt.mutate(&c)
			assert.Equal(t, tt.want, c.CrawlBudget())
		})
	}
}

func TestEffectiveWriteTimeout(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 60*time.Second, cfg.EffectiveWriteTimeout())

	cfg.Checker.RequestsPerSecond = 1
	assert.Equal(t, 84*time.Second, cfg.EffectiveWriteTimeout())
	assert.GreaterOrEqual(t, cfg.EffectiveWriteTimeout(), cfg.Checker.CrawlBudget())
}
