package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"

	"github.com/llehouerou/songshelf/internal/catalog"
)

const (
	appName        = "songshelf"
	dbFileName     = "songshelf.db"
	defaultLocale  = "en"
	defaultWorkers = 8
	maxWorkers     = 64
)

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // paths to scan for songs
	Database       string   `koanf:"database"`        // SQLite path, defaults to the xdg data dir

	// Browsing settings
	Locale     string `koanf:"locale"`      // BCP 47 tag used to sort categories, e.g. "en", "fr"
	DateLayout string `koanf:"date_layout"` // Go time layout for date-added categories

	Workers int `koanf:"workers"` // parallel file readers during scans (1-64, default: 8)
}

// Load reads the default config files, later files overriding earlier ones.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order, skipping missing ones, and
// applies defaults.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in library_sources
	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}

	if cfg.Database == "" {
		path, err := xdg.DataFile(filepath.Join(appName, dbFileName))
		if err != nil {
			return nil, err
		}
		cfg.Database = path
	} else {
		cfg.Database = expandPath(cfg.Database)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = defaultLocale
	}
	if c.DateLayout == "" {
		c.DateLayout = catalog.DefaultDateLayout
	}
	if c.Workers <= 0 || c.Workers > maxWorkers {
		c.Workers = defaultWorkers
	}
}

// Language returns the configured collation language, falling back to
// English for tags that do not parse.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/songshelf/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
