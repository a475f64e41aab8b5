// Package config loads and validates service configuration from defaults,
// an optional config file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig identifies the running application.
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// Address returns the listen address for the configured port.
func (c ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// FetcherConfig holds page retrieval settings.
type FetcherConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	MaxRedirects int           `yaml:"max_redirects"`
	UserAgent    string        `yaml:"user_agent"`
}

// CacheConfig holds analysis cache settings.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// AnalyzerConfig holds model invocation settings.
type AnalyzerConfig struct {
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Config is the root configuration for the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Cache    CacheConfig    `yaml:"cache"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Default values matching the service contract.
const (
	defaultPort          = 3000
	defaultReadTimeout   = 30 * time.Second
	defaultWriteTimeout  = 60 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultFetchTimeout  = 15 * time.Second
	defaultMaxAttempts   = 3
	defaultRetryDelay    = time.Second
	defaultMaxRedirects  = 5
	defaultCacheTTL      = 24 * time.Hour
	defaultMaxTokens     = 1500
	defaultTemperature   = 0.4
	defaultModelTimeout  = 60 * time.Second
	defaultBrowserAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	defaultAnalyzerModel = "claude-3-haiku-20240307"
)

// InitializeViper configures viper with defaults, the optional config file,
// and environment variable binding. Safe to call once at startup.
func InitializeViper(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; defaults and environment carry the rest.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	if err := viper.BindEnv("analyzer.api_key", "ANTHROPIC_API_KEY"); err != nil {
		return fmt.Errorf("bind analyzer.api_key: %w", err)
	}

	return nil
}

// setDefaults registers defaults for every config key.
func setDefaults() {
	viper.SetDefault("app.name", "siteinsight")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)

	viper.SetDefault("server.port", defaultPort)
	viper.SetDefault("server.read_timeout", defaultReadTimeout)
	viper.SetDefault("server.write_timeout", defaultWriteTimeout)
	viper.SetDefault("server.idle_timeout", defaultIdleTimeout)

	viper.SetDefault("fetcher.timeout", defaultFetchTimeout)
	viper.SetDefault("fetcher.max_attempts", defaultMaxAttempts)
	viper.SetDefault("fetcher.retry_delay", defaultRetryDelay)
	viper.SetDefault("fetcher.max_redirects", defaultMaxRedirects)
	viper.SetDefault("fetcher.user_agent", defaultBrowserAgent)

	viper.SetDefault("cache.ttl", defaultCacheTTL)

	viper.SetDefault("analyzer.model", defaultAnalyzerModel)
	viper.SetDefault("analyzer.max_tokens", defaultMaxTokens)
	viper.SetDefault("analyzer.temperature", defaultTemperature)
	viper.SetDefault("analyzer.timeout", defaultModelTimeout)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.encoding", "console")
}

// Load builds a Config from the current viper state.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        viper.GetString("app.name"),
			Version:     viper.GetString("app.version"),
			Environment: viper.GetString("app.environment"),
			Debug:       viper.GetBool("app.debug"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
			IdleTimeout:  viper.GetDuration("server.idle_timeout"),
		},
		Fetcher: FetcherConfig{
			Timeout:      viper.GetDuration("fetcher.timeout"),
			MaxAttempts:  viper.GetInt("fetcher.max_attempts"),
			RetryDelay:   viper.GetDuration("fetcher.retry_delay"),
			MaxRedirects: viper.GetInt("fetcher.max_redirects"),
			UserAgent:    viper.GetString("fetcher.user_agent"),
		},
		Cache: CacheConfig{
			TTL: viper.GetDuration("cache.ttl"),
		},
		Analyzer: AnalyzerConfig{
			Model:       viper.GetString("analyzer.model"),
			APIKey:      viper.GetString("analyzer.api_key"),
			MaxTokens:   viper.GetInt("analyzer.max_tokens"),
			Temperature: viper.GetFloat64("analyzer.temperature"),
			Timeout:     viper.GetDuration("analyzer.timeout"),
		},
		Logging: LoggingConfig{
			Level:    viper.GetString("logging.level"),
			Encoding: viper.GetString("logging.encoding"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return errors.New("application name must be specified")
	}

	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %s", c.App.Environment)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Fetcher.MaxAttempts < 1 {
		return fmt.Errorf("fetcher max attempts must be at least 1, got %d", c.Fetcher.MaxAttempts)
	}

	if c.Fetcher.Timeout <= 0 {
		return errors.New("fetcher timeout must be positive")
	}

	if c.Cache.TTL <= 0 {
		return errors.New("cache ttl must be positive")
	}

	if c.Analyzer.MaxTokens <= 0 {
		return errors.New("analyzer max tokens must be positive")
	}

	if c.Analyzer.Temperature < 0 || c.Analyzer.Temperature > 1 {
		return fmt.Errorf("analyzer temperature must be in [0,1], got %v", c.Analyzer.Temperature)
	}

	return nil
}
