// Package config loads crawler settings from defaults, an optional YAML
// file and CRAWLER_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sternrassler/confluence-crawler/pkg/client"
	"github.com/Sternrassler/confluence-crawler/pkg/confluence"
	"github.com/Sternrassler/confluence-crawler/pkg/logging"
	"github.com/Sternrassler/confluence-crawler/pkg/sink"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CRAWLER_"

// Config is the complete crawler configuration.
type Config struct {
	BaseURL         string        `yaml:"base_url"`
	APIPath         string        `yaml:"api_path"`
	MediaTypes      []string      `yaml:"media_types"`
	PageSize        int           `yaml:"page_size"`
	MaxPages        int           `yaml:"max_pages"`
	Timeout         time.Duration `yaml:"timeout"`
	PageTimeout     time.Duration `yaml:"page_timeout"`
	UserAgent       string        `yaml:"user_agent"`
	ContinueOnError bool          `yaml:"continue_on_error"`
	MetricsFile     string        `yaml:"metrics_file"`
	Log             LogConfig     `yaml:"log"`
	Redis           RedisConfig   `yaml:"redis"`
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// RedisConfig configures the optional Redis sink. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether records should also be pushed to Redis.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Default returns the reference configuration.
func Default() *Config {
	crawl := confluence.DefaultConfig()
	return &Config{
		BaseURL:    crawl.BaseURL,
		APIPath:    crawl.APIPath,
		MediaTypes: crawl.MediaTypes,
		PageSize:   crawl.PageSize,
		MaxPages:   crawl.MaxPages,
		Timeout:    client.DefaultTimeout,
		UserAgent:  client.DefaultUserAgent,
		Log: LogConfig{
			Level: string(logging.LevelInfo),
		},
		Redis: RedisConfig{
			Key: sink.DefaultRedisKey,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and then with environment overrides. The result is
// not validated; callers apply flags first and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path comes from the command line
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// decode overlays YAML onto cfg. Unknown keys are rejected.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays CRAWLER_* environment variables.
func (c *Config) ApplyEnv() {
	c.BaseURL = GetEnvString(EnvPrefix+"BASE_URL", c.BaseURL)
	c.APIPath = GetEnvString(EnvPrefix+"API_PATH", c.APIPath)
	c.MediaTypes = GetEnvStringList(EnvPrefix+"MEDIA_TYPES", c.MediaTypes)
	c.PageSize = GetEnvInt(EnvPrefix+"PAGE_SIZE", c.PageSize)
	c.MaxPages = GetEnvInt(EnvPrefix+"MAX_PAGES", c.MaxPages)
	c.Timeout = GetEnvDuration(EnvPrefix+"TIMEOUT", c.Timeout)
	c.PageTimeout = GetEnvDuration(EnvPrefix+"PAGE_TIMEOUT", c.PageTimeout)
	c.UserAgent = GetEnvString(EnvPrefix+"USER_AGENT", c.UserAgent)
	c.ContinueOnError = GetEnvBool(EnvPrefix+"CONTINUE_ON_ERROR", c.ContinueOnError)
	c.MetricsFile = GetEnvString(EnvPrefix+"METRICS_FILE", c.MetricsFile)

	c.Log.Level = GetEnvString(EnvPrefix+"LOG_LEVEL", c.Log.Level)
	c.Log.Pretty = GetEnvBool(EnvPrefix+"LOG_PRETTY", c.Log.Pretty)

	c.Redis.Addr = GetEnvString(EnvPrefix+"REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = GetEnvString(EnvPrefix+"REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = GetEnvInt(EnvPrefix+"REDIS_DB", c.Redis.DB)
	c.Redis.Key = GetEnvString(EnvPrefix+"REDIS_KEY", c.Redis.Key)
	c.Redis.TTL = GetEnvDuration(EnvPrefix+"REDIS_TTL", c.Redis.TTL)
}

// Validate checks the configuration and normalizes media types.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if _, err := confluence.NewAPI(c.BaseURL, c.APIPath); err != nil {
		return err
	}

	crawl := c.Crawl()
	if err := crawl.Validate(); err != nil {
		return err
	}
	c.MediaTypes = crawl.MediaTypes

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %s)", c.Timeout)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis db must be >= 0 (got %d)", c.Redis.DB)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis ttl must be >= 0 (got %s)", c.Redis.TTL)
	}
	return nil
}

// Crawl returns the crawl settings.
func (c *Config) Crawl() confluence.Config {
	return confluence.Config{
		BaseURL:         c.BaseURL,
		APIPath:         c.APIPath,
		MediaTypes:      append([]string(nil), c.MediaTypes...),
		PageSize:        c.PageSize,
		MaxPages:        c.MaxPages,
		PageTimeout:     c.PageTimeout,
		ContinueOnError: c.ContinueOnError,
	}
}

// Client returns the transport settings.
func (c *Config) Client() client.Config {
	cfg := client.DefaultConfig()
	cfg.Timeout = c.Timeout
	if c.UserAgent != "" {
		cfg.UserAgent = c.UserAgent
	}
	return cfg
}

// Logging returns the logger settings writing to out.
func (c *Config) Logging(out io.Writer) logging.Config {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.Config{
		Level:  level,
		Pretty: c.Log.Pretty,
		Output: out,
	}
}

// RedisSink returns the Redis sink options.
func (c *Config) RedisSink() sink.RedisOptions {
	return sink.RedisOptions{
		Key: c.Redis.Key,
		TTL: c.Redis.TTL,
	}
}

