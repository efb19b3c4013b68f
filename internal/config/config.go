package config

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	// Data is the path or http(s) URL of the article data file.
	Data               string   `yaml:"data,omitempty"`
	BatchSize          int      `yaml:"batch_size,omitempty"`
	SearchDebounce     string   `yaml:"search_debounce,omitempty"`
	ProximityThreshold int      `yaml:"proximity_threshold,omitempty"`
	RefreshInterval    string   `yaml:"refresh_interval"`
	Retention          string   `yaml:"retention"`
	LogLevel           string   `yaml:"log_level,omitempty"`
	Sources            []Source `yaml:"sources"`
}

// GetBatchSize returns the reveal batch size, defaulting to 20.
func (c *Config) GetBatchSize() int {
	if c.BatchSize <= 0 {
		return 20
	}
	return c.BatchSize
}

// GetProximityThreshold returns how many rows from the end of the revealed
// list trigger the next batch, defaulting to 5.
func (c *Config) GetProximityThreshold() int {
	if c.ProximityThreshold <= 0 {
		return 5
	}
	return c.ProximityThreshold
}

// DebounceDuration returns the search debounce delay. Zero disables it.
func (c *Config) DebounceDuration() time.Duration {
	if c.SearchDebounce == "" {
		return 150 * time.Millisecond
	}
	d, err := time.ParseDuration(c.SearchDebounce)
	if err != nil || d < 0 {
		return 150 * time.Millisecond
	}
	return d
}

func (c *Config) RefreshDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 30 * 24 * time.Hour
	}
	if d, ok := ParseDays(c.Retention); ok {
		return d
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

// ParseDays parses the "Nd" day syntax.
func ParseDays(s string) (time.Duration, bool) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, true
		}
	}
	return 0, false
}

// Level maps LogLevel onto slog, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DataSource returns the configured data file, falling back to the export
// location used by `feedview export`.
func (c *Config) DataSource() string {
	if c.Data != "" {
		return c.Data
	}
	return DataPath()
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "feedview", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "feedview", "feedview.db")
}

func DataPath() string {
	return filepath.Join(xdg.DataHome, "feedview", "articles.json")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "feedview", "feedview.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal if the defaults cannot be written out.
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	mergeDefaultSources(&cfg, defaults)

	return &cfg, nil
}

// mergeDefaultSources refreshes the URL and type of user sources that share a
// name with a default, and appends defaults the user has never seen.
func mergeDefaultSources(cfg, defaults *Config) {
	index := make(map[string]int, len(cfg.Sources))
	for i, s := range cfg.Sources {
		index[s.Name] = i
	}
	for _, d := range defaults.Sources {
		if i, ok := index[d.Name]; ok {
			cfg.Sources[i].URL = d.URL
			cfg.Sources[i].Type = d.Type
			continue
		}
		cfg.Sources = append(cfg.Sources, d)
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", cfg.BatchSize)
	}
	if cfg.ProximityThreshold < 0 {
		return fmt.Errorf("proximity_threshold must not be negative, got %d", cfg.ProximityThreshold)
	}
	if cfg.SearchDebounce != "" {
		if _, err := time.ParseDuration(cfg.SearchDebounce); err != nil {
			return fmt.Errorf("invalid search_debounce %q: %w", cfg.SearchDebounce, err)
		}
	}

	validTypes := map[string]bool{"rss": true, "atom": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
		}
	}
	return nil
}
