// Package settings loads tool-level configuration: where the library
// lives on disk, preview server defaults, cover fetch tuning. Site
// content itself (shelves, books) lives in the library's config.json,
// not here.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings is the top-level shelfsite configuration.
type Settings struct {
	Site   SiteSettings   `mapstructure:"site"`
	Serve  ServeSettings  `mapstructure:"serve"`
	Covers CoversSettings `mapstructure:"covers"`
}

// SiteSettings locates the library on disk.
type SiteSettings struct {
	Path    string `mapstructure:"path"`
	DistDir string `mapstructure:"dist_dir"`
}

// ServeSettings tunes the preview server.
type ServeSettings struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

// CoversSettings tunes cover downloads.
type CoversSettings struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	Retries        int `mapstructure:"retries"`
	BackoffMillis  int `mapstructure:"backoff_millis"`
}

// Timeout returns the download timeout as a duration.
func (c CoversSettings) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Backoff returns the retry backoff as a duration.
func (c CoversSettings) Backoff() time.Duration {
	return time.Duration(c.BackoffMillis) * time.Millisecond
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shelfsite", "config.yml")
}

// Load reads settings from disk (or env). A missing file is fine —
// every value has a default.
func Load() (*Settings, error) {
	v := viper.New()

	v.SetDefault("site.path", ".")
	v.SetDefault("site.dist_dir", "dist")
	v.SetDefault("serve.host", "127.0.0.1")
	v.SetDefault("serve.port", 8080)
	v.SetDefault("serve.max_attempts", 20)
	v.SetDefault("covers.timeout_seconds", 30)
	v.SetDefault("covers.retries", 3)
	v.SetDefault("covers.backoff_millis", 1000)

	v.SetEnvPrefix("SHELFSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("SHELFSITE_CONFIG")
	if configPath == "" {
		configPath = DefaultPath()
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading settings: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	s.Site.Path = ExpandHome(s.Site.Path)

	return &s, nil
}

// Save writes settings to the default path.
func Save(s *Settings) error {
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(s)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
