package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Link checker configuration
	Checker CheckerConfig `mapstructure:"checker"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CheckerConfig holds link checker configuration
type CheckerConfig struct {
	MaxLinks          int           `mapstructure:"max_links"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	Timeout           time.Duration `mapstructure:"timeout"`
	PageTimeout       time.Duration `mapstructure:"page_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	UserAgent         string        `mapstructure:"user_agent"`
	Method            string        `mapstructure:"method"`
	ResolveRelative   bool          `mapstructure:"resolve_relative"`
}

// CrawlBudget is the longest a single crawl can take under these settings:
// the page fetch, rate limiter waits and every round of link checks.
func (c CheckerConfig) CrawlBudget() time.Duration {
	links := c.MaxLinks
	if links <= 0 {
		return c.PageTimeout + c.Timeout
	}

	rounds := 1
	if c.MaxConcurrency > 0 && c.MaxConcurrency < links {
		rounds = (links + c.MaxConcurrency - 1) / c.MaxConcurrency
	}

	var waits time.Duration
	if c.RequestsPerSecond > 0 {
		waits = time.Duration(float64(links-1) / c.RequestsPerSecond * float64(time.Second))
	}

	return c.PageTimeout + waits + time.Duration(rounds)*c.Timeout
}

// EffectiveWriteTimeout raises server.write_timeout so a response is never
// cut off before the crawl behind it can finish.
func (c *Config) EffectiveWriteTimeout() time.Duration {
	return max(c.Server.WriteTimeout, c.Checker.CrawlBudget()+writeTimeoutSlack)
}

// writeTimeoutSlack covers rendering and writing the response
const writeTimeoutSlack = 5 * time.Second

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "json" or "text"
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment.
// An empty configPath searches the default locations; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.linksmith")
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.Checker.Method = strings.ToUpper(config.Checker.Method)

	return &config, nil
}

// Default returns the configuration used when no file or environment is present
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// decoding the built-in defaults cannot fail
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")

	v.SetDefault("checker.max_links", 50)
	v.SetDefault("checker.max_concurrency", 0)
	v.SetDefault("checker.timeout", "10s")
	v.SetDefault("checker.page_timeout", "20s")
	v.SetDefault("checker.requests_per_second", 0)
	v.SetDefault("checker.user_agent", "Linksmith/1.0")
	v.SetDefault("checker.method", http.MethodGet)
	v.SetDefault("checker.resolve_relative", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stderr")
}

// bindEnvVars maps LINKSMITH_CHECKER_MAX_LINKS style variables onto keys
func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("LINKSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Checker.MaxLinks <= 0 {
		return fmt.Errorf("checker.max_links must be positive")
	}
	if c.Checker.MaxConcurrency < 0 {
		return fmt.Errorf("checker.max_concurrency must not be negative")
	}
	if c.Checker.Timeout <= 0 {
		return fmt.Errorf("checker.timeout must be positive")
	}
	if c.Checker.PageTimeout <= 0 {
		return fmt.Errorf("checker.page_timeout must be positive")
	}
	if c.Checker.RequestsPerSecond < 0 {
		return fmt.Errorf("checker.requests_per_second must not be negative")
	}
	switch c.Checker.Method {
	case http.MethodGet, http.MethodHead:
	default:
		return fmt.Errorf("checker.method must be GET or HEAD, got %q", c.Checker.Method)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}

	return nil
}
