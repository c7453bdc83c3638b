package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preference backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMariaDB  = "mariadb"
)

type Config struct {
	Web         WebConfig
	Preferences PreferencesConfig
	Database    DatabaseConfig
	MariaDB     MariaDBConfig
	Render      RenderConfig
	Presets     PresetsConfig
}

type WebConfig struct {
	Host        string // defaults to 0.0.0.0
	Port        int    // defaults to 8080
	MaxUploadMB int    // per image upload limit, defaults to 50
	APIToken    string // bearer token required by the API when set

	AllowedOrigins []string // extra CORS origins; localhost is always allowed
}

type PreferencesConfig struct {
	Backend string // file, postgres or mariadb; defaults to file
	Path    string // preference file for the file backend
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 5)
	MaxIdleConns int    // Maximum idle connections (default 2)
}

type MariaDBConfig struct {
	DSN string // e.g. photogrid:secret@tcp(mariadb:3306)/photogrid
}

type RenderConfig struct {
	Preset string // default output preset, defaults to print
}

type PresetsConfig struct {
	Presets map[string]RenderPreset `yaml:"presets"`
}

type RenderPreset struct {
	DPI     int `yaml:"dpi" json:"dpi"`
	Quality int `yaml:"quality" json:"quality"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// DefaultPreferencesPath returns the preference file used when
// PREFERENCES_PATH is unset.
func DefaultPreferencesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "photo-grid-preferences.yaml"
	}
	return filepath.Join(dir, "photo-grid", "preferences.yaml")
}

func Load() *Config {
	var presets PresetsConfig
	if err := yaml.Unmarshal(presetsYAML, &presets); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded presets.yaml: " + err.Error())
	}

	return &Config{
		Web: WebConfig{
			Host:        envString("WEB_HOST", "0.0.0.0"),
			Port:        envInt("WEB_PORT", 8080),
			MaxUploadMB: envInt("WEB_MAX_UPLOAD_MB", 50),
			APIToken:    os.Getenv("WEB_API_TOKEN"),

			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Preferences: PreferencesConfig{
			Backend: envString("PREFERENCES_BACKEND", BackendFile),
			Path:    envString("PREFERENCES_PATH", DefaultPreferencesPath()),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 5),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 2),
		},
		MariaDB: MariaDBConfig{
			DSN: os.Getenv("MARIADB_DSN"),
		},
		Render: RenderConfig{
			Preset: envString("RENDER_PRESET", "print"),
		},
		Presets: presets,
	}
}

// GetRenderPreset returns the named output preset. An empty name selects the
// configured default preset, and without one 300 DPI at quality 92. Unknown
// names are an error.
func (c *Config) GetRenderPreset(name string) (RenderPreset, error) {
	if name != "" {
		p, ok := c.Presets.Presets[name]
		if !ok {
			return RenderPreset{}, fmt.Errorf("unknown render preset %q (available: %s)", name, strings.Join(c.PresetNames(), ", "))
		}
		return p, nil
	}
	if p, ok := c.Presets.Presets[c.Render.Preset]; ok {
		return p, nil
	}
	return RenderPreset{DPI: 300, Quality: 92}, nil
}

// PresetNames returns the preset names, sorted.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets.Presets))
	for name := range c.Presets.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
