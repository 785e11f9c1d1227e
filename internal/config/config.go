package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/feedmerge/internal/privacy"
)

const (
	DefaultConfigFile  = "config.yaml"
	DefaultRelayURL    = "https://accesscontrolalloworiginall.herokuapp.com/"
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "feedmerge/1.0"
	DefaultStoragePath = ".feedmerge/history.db"
	DefaultRetainDays  = 30
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultOutput      = "terminal"
	DefaultOnFailure   = OnFailureSkip

	OnFailureSkip  = "skip"
	OnFailureAbort = "abort"
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Relay     RelayConfig     `yaml:"relay"`
	HTTP      HTTPConfig      `yaml:"http"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	Sources   SourcesConfig   `yaml:"sources"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Output    OutputConfig    `yaml:"output"`
}

type RelayConfig struct {
	URL string `yaml:"url"`
}

type HTTPConfig struct {
	Timeout   Duration `yaml:"timeout"`
	UserAgent string   `yaml:"user_agent"`
	RateLimit float64  `yaml:"rate_limit"`
}

type AggregateConfig struct {
	OnFailure   string `yaml:"on_failure"`
	Concurrency int    `yaml:"concurrency"`
}

type SourcesConfig struct {
	Builtin []string     `yaml:"builtin"`
	Default string       `yaml:"default"`
	Feeds   []FeedConfig `yaml:"feeds"`
}

// FeedConfig is an RSS, Atom or JSON Feed source.
type FeedConfig struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Relay bool   `yaml:"relay"`
}

// StorageConfig locates the fetch log. An explicitly empty path disables it.
type StorageConfig struct {
	Path       string   `yaml:"path"`
	RetainDays int      `yaml:"retain_days"` // 0 keeps every run
	Redact     []string `yaml:"redact"`      // regexps masked in recorded URLs and errors
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Color  bool   `yaml:"color"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Relay: RelayConfig{URL: DefaultRelayURL},
		HTTP: HTTPConfig{
			Timeout:   Duration{DefaultTimeout},
			UserAgent: DefaultUserAgent,
		},
		Aggregate: AggregateConfig{OnFailure: DefaultOnFailure},
		Sources: SourcesConfig{
			Builtin: []string{"Reddit", "Mashable", "Digg"},
		},
		Storage: StorageConfig{Path: DefaultStoragePath, RetainDays: DefaultRetainDays},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Output:  OutputConfig{Format: DefaultOutput, Color: true},
	}
}

// Load reads config.yaml from dir over the defaults and validates it. A
// missing file is reported with an error wrapping fs.ErrNotExist.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills values that have no meaningful zero.
func applyDefaults(cfg *Config) {
	if cfg.HTTP.Timeout.Duration == 0 {
		cfg.HTTP.Timeout.Duration = DefaultTimeout
	}
	if strings.TrimSpace(cfg.HTTP.UserAgent) == "" {
		cfg.HTTP.UserAgent = DefaultUserAgent
	}
	if cfg.Aggregate.OnFailure == "" {
		cfg.Aggregate.OnFailure = DefaultOnFailure
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutput
	}
	for i := range cfg.Sources.Feeds {
		cfg.Sources.Feeds[i].Name = strings.TrimSpace(cfg.Sources.Feeds[i].Name)
		cfg.Sources.Feeds[i].URL = strings.TrimSpace(cfg.Sources.Feeds[i].URL)
	}
}

func validate(cfg *Config) error {
	if len(cfg.Sources.Builtin) == 0 && len(cfg.Sources.Feeds) == 0 {
		return errors.New("sources: at least one source must be configured")
	}

	for i, f := range cfg.Sources.Feeds {
		if f.Name == "" {
			return fmt.Errorf("sources.feeds[%d]: name is required", i)
		}
		u, err := url.Parse(f.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("sources.feeds[%d] (%s): invalid url %q", i, f.Name, f.URL)
		}
		if f.Relay && cfg.Relay.URL == "" {
			return fmt.Errorf("sources.feeds[%d] (%s): relay requested but relay.url is empty", i, f.Name)
		}
	}

	switch cfg.Aggregate.OnFailure {
	case OnFailureSkip, OnFailureAbort:
		// valid
	default:
		return fmt.Errorf("aggregate.on_failure: unknown policy %q (want skip or abort)", cfg.Aggregate.OnFailure)
	}
	if cfg.Aggregate.Concurrency < 0 {
		return fmt.Errorf("aggregate.concurrency: must be >= 0, got %d", cfg.Aggregate.Concurrency)
	}

	if cfg.HTTP.Timeout.Duration < 0 {
		return fmt.Errorf("http.timeout: must be positive, got %s", cfg.HTTP.Timeout.Duration)
	}
	if cfg.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit: must be >= 0, got %g", cfg.HTTP.RateLimit)
	}

	if cfg.Storage.RetainDays < 0 {
		return fmt.Errorf("storage.retain_days: must be >= 0, got %d", cfg.Storage.RetainDays)
	}

	if _, err := privacy.Compile(cfg.Storage.Redact); err != nil {
		return fmt.Errorf("storage.redact: %w", err)
	}

	switch cfg.Output.Format {
	case "terminal", "json", "markdown":
		// valid
	default:
		return fmt.Errorf("output.format: unknown format %q (want terminal, json or markdown)", cfg.Output.Format)
	}

	switch cfg.Logging.Format {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("logging.format: unknown format %q (want text or json)", cfg.Logging.Format)
	}

	return nil
}
