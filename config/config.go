package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by LoadConfig.
const EnvPrefix = "emailbuilder"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every runtime setting of the service. The defaults reproduce
// the behaviour the editor was built against.
type Config struct {
	Env                string `yaml:"env"`
	BindAddr           string `yaml:"bindAddr"          split_words:"true"`
	Port               uint   `yaml:"port"`
	PublicBaseURL      string `yaml:"publicBaseUrl"     split_words:"true"`
	DatabasePath       string `yaml:"databasePath"      split_words:"true"`
	UploadDir          string `yaml:"uploadDir"         split_words:"true"`
	LayoutPath         string `yaml:"layoutPath"        split_words:"true"`
	BodyLimit          int    `yaml:"bodyLimit"         split_words:"true"`
	LogLevel           string `yaml:"logLevel"          split_words:"true"`
	RenderAllowHTML    bool   `yaml:"renderAllowHtml"   split_words:"true"`
	MetricsEnabled     bool   `yaml:"metricsEnabled"    split_words:"true"`
	Tracing            bool   `yaml:"tracing"`
	TracingStdout      bool   `yaml:"tracingStdout"     split_words:"true"`
	Thumbnails         bool   `yaml:"thumbnails"`
	ThumbnailSize      int    `yaml:"thumbnailSize"     split_words:"true"`
	ThumbnailMaxPixels int64  `yaml:"thumbnailMaxPixels" split_words:"true"`
	Workers            int    `yaml:"workers"`
	QueueSize          int    `yaml:"queueSize"         split_words:"true"`
	RetentionMaxAge    string `yaml:"retentionMaxAge"   split_words:"true"`
	RetentionInterval  string `yaml:"retentionInterval" split_words:"true"`
	ShutdownTimeout    string `yaml:"shutdownTimeout"   split_words:"true"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Env:                EnvProduction,
		Port:               3000,
		PublicBaseURL:      "http://localhost:3000",
		DatabasePath:       "database.sqlite",
		UploadDir:          "uploads",
		LayoutPath:         "templates/default.html",
		BodyLimit:          4 * 1024 * 1024,
		LogLevel:           "info",
		MetricsEnabled:     true,
		Thumbnails:         true,
		ThumbnailSize:      320,
		ThumbnailMaxPixels: 40_000_000,
		Workers:            2,
		QueueSize:          64,
		RetentionInterval:  "1h",
		ShutdownTimeout:    "10s",
	}
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// an optional YAML file and finally the environment.
func LoadConfig(configFile string) (*Config, error) {
	cfg := Default()

	// A missing .env file is normal outside of development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed by their types alone.
func (c *Config) Validate() error {
	if c.Port == 0 {
		return errors.New("port must be set")
	}
	if c.UploadDir == "" {
		return errors.New("uploadDir must be set")
	}
	if c.LayoutPath == "" {
		return errors.New("layoutPath must be set")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid logLevel: %w", err)
	}
	for name, value := range map[string]string{
		"retentionMaxAge":   c.RetentionMaxAge,
		"retentionInterval": c.RetentionInterval,
		"shutdownTimeout":   c.ShutdownTimeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}
	if c.ThumbnailMaxPixels < 0 {
		return errors.New("thumbnailMaxPixels must not be negative")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.QueueSize < 1 {
		c.QueueSize = 1
	}
	c.PublicBaseURL = strings.TrimSuffix(c.PublicBaseURL, "/")
	return nil
}

// IsDevelopment reports whether diagnostic details such as stack traces
// should be included in error responses.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// ListenAddr returns the address the HTTP listener binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

// RetentionAge returns the asset retention age, or zero when retention is
// disabled.
func (c *Config) RetentionAge() time.Duration {
	return parseDuration(c.RetentionMaxAge, 0)
}

// RetentionEvery returns how often the retention sweep runs.
func (c *Config) RetentionEvery() time.Duration {
	return parseDuration(c.RetentionInterval, time.Hour)
}

// ShutdownWait returns the graceful shutdown timeout.
func (c *Config) ShutdownWait() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
