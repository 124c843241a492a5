//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"

	"github.com/llehouerou/songshelf/internal/catalog"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/charts", filepath.Join(home, "charts")},
		{"nested tilde path", "~/games/songs/rb3", filepath.Join(home, "games", "songs", "rb3")},
		{"absolute path unchanged", "/srv/songs", "/srv/songs"},
		{"relative path unchanged", "songs/customs", "songs/customs"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Local config.toml has the highest priority
	if last := paths[len(paths)-1]; last != "config.toml" {
		t.Errorf("last config path = %q, want %q", last, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "songshelf", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want en", cfg.Locale)
	}
	if cfg.DateLayout != catalog.DefaultDateLayout {
		t.Errorf("DateLayout = %q, want default", cfg.DateLayout)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if filepath.Base(cfg.Database) != "songshelf.db" {
		t.Errorf("Database = %q, want xdg data path", cfg.Database)
	}
	if len(cfg.LibrarySources) != 0 {
		t.Errorf("LibrarySources = %v, want none", cfg.LibrarySources)
	}
}

func TestLoadFrom_Values(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lib.db")
	path := writeConfig(t, `
library_sources = ["/srv/songs", "/mnt/charts"]
database = "`+dbPath+`"
locale = "fr"
date_layout = "2006-01-02"
workers = 4
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if len(cfg.LibrarySources) != 2 || cfg.LibrarySources[1] != "/mnt/charts" {
		t.Errorf("LibrarySources = %v", cfg.LibrarySources)
	}
	if cfg.Database != dbPath {
		t.Errorf("Database = %q, want %q", cfg.Database, dbPath)
	}
	if cfg.Language() != language.French {
		t.Errorf("Language() = %v, want fr", cfg.Language())
	}
	if cfg.DateLayout != "2006-01-02" {
		t.Errorf("DateLayout = %q", cfg.DateLayout)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestLoadFrom_LaterFilesOverride(t *testing.T) {
	first := writeConfig(t, `locale = "de"`+"\nworkers = 2\n")
	second := writeConfig(t, `locale = "ja"`)

	cfg, err := LoadFrom(first, second)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Locale != "ja" {
		t.Errorf("Locale = %q, want ja", cfg.Locale)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2 from first file", cfg.Workers)
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	path := writeConfig(t, "locale = [unterminated")
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyDefaults_OutOfRangeWorkers(t *testing.T) {
	for _, workers := range []int{-1, 0, 65, 1000} {
		cfg := &Config{Workers: workers}
		cfg.applyDefaults()
		if cfg.Workers != 8 {
			t.Errorf("Workers %d -> %d, want 8", workers, cfg.Workers)
		}
	}
}

func TestLanguage_InvalidFallsBackToEnglish(t *testing.T) {
	cfg := &Config{Locale: "not a tag!"}
	if cfg.Language() != language.English {
		t.Errorf("Language() = %v, want en", cfg.Language())
	}
}
