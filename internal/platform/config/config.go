// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jsamuelsen/blog-service/internal/domain"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultIndexPageSize is the number of entries on the blog index page.
	DefaultIndexPageSize = 5

	// DefaultFragmentWorkers bounds concurrent fragment reads per page.
	DefaultFragmentWorkers = 4

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Blog      BlogConfig      `koanf:"blog"      validate:"required"`
	Site      SiteConfig      `koanf:"site"      validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// BlogConfig locates the catalog and entry fragments and shapes blog pages.
type BlogConfig struct {
	// CatalogPath is the YAML file listing every entry.
	CatalogPath string `koanf:"catalog_path" validate:"required"`

	// ContentDir holds one <slug>.html fragment per entry.
	ContentDir string `koanf:"content_dir" validate:"required"`

	// IndexPageSize is the default number of entries per listing page.
	IndexPageSize int `koanf:"index_page_size" validate:"required,min=1,max=100"`

	// IndexURL is the blog listing page, used for pagination links.
	IndexURL string `koanf:"index_url" validate:"required"`

	// EntryURL is the single entry page; the slug is passed as ?entry=.
	EntryURL string `koanf:"entry_url" validate:"required"`

	// TeamURL is the team page; the author is passed as ?member=.
	TeamURL string `koanf:"team_url" validate:"required"`

	// WatchContent drops cached fragments when their files change.
	WatchContent bool `koanf:"watch_content"`

	// FragmentWorkers bounds concurrent fragment reads while rendering a page.
	FragmentWorkers int `koanf:"fragment_workers" validate:"required,min=1,max=64"`
}

// SiteConfig contains site-wide presentation settings.
type SiteConfig struct {
	Title string          `koanf:"title" validate:"required"`
	Nav   []NavItemConfig `koanf:"nav"   validate:"required,min=1,unique=Name,dive"`
}

// NavItemConfig is one navigation bar link.
type NavItemConfig struct {
	Name string `koanf:"name" validate:"required"`
	URL  string `koanf:"url"  validate:"required"`
}

// NavPages converts the configured navigation into domain pages, in order.
func (s SiteConfig) NavPages() []domain.NavPage {
	pages := make([]domain.NavPage, len(s.Nav))
	for i, item := range s.Nav {
		pages[i] = domain.NavPage{Name: item.Name, URL: item.URL}
	}

	return pages
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "blog-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "30s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/blog.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "blog-service",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      false,

		"blog.catalog_path":     "content/catalog.yaml",
		"blog.content_dir":      "content/blog-entries",
		"blog.index_page_size":  DefaultIndexPageSize,
		"blog.index_url":        "/blog",
		"blog.entry_url":        "/blog/entry",
		"blog.team_url":         "team.html",
		"blog.watch_content":    false,
		"blog.fragment_workers": DefaultFragmentWorkers,

		"site.title": "Blog",
		"site.nav": []map[string]any{
			{"name": "Home", "url": "index.html"},
			{"name": "Blog", "url": "blog.html"},
			{"name": "Media", "url": "media.html"},
			{"name": "Press", "url": "press/index.php"},
		},
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadFrom("configs", profile)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, dir+"/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		err := loadFileIfExists(k, fmt.Sprintf("%s/%s.yaml", dir, profile))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// APP_BLOG_CONTENT__DIR style keys: single underscores nest, double underscores
	// stand for a literal underscore inside a key.
	err = k.Load(env.Provider("APP_", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps APP_SERVER_PORT to server.port and APP_BLOG_CATALOG__PATH to
// blog.catalog_path.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "APP_"))
	key = strings.ReplaceAll(key, "__", "\x00")
	key = strings.ReplaceAll(key, "_", ".")

	return strings.ReplaceAll(key, "\x00", "_")
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
