// Package config loads glyphsvg settings from a TOML file and the
// environment.
//
// Settings are resolved in order: built-in defaults, the TOML file, then
// environment variables. Unknown keys in the file are an error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/gogpu/glyphsvg/catalog"
)

// Environment variables that override file settings.
const (
	EnvAPIKey = "GLYPHSVG_API_KEY"
	EnvListen = "GLYPHSVG_LISTEN"
	EnvConfig = "GLYPHSVG_CONFIG"
)

// Sentinel errors for invalid settings.
var (
	ErrInvalidSort     = errors.New("config: invalid catalog sort")
	ErrInvalidLogLevel = errors.New("config: invalid log level")
	ErrInvalidValue    = errors.New("config: invalid value")
)

// Config holds every glyphsvg setting.
type Config struct {
	// APIKey authenticates catalog requests. It is never logged.
	APIKey string `toml:"api_key"`

	CatalogURL string `toml:"catalog_url"`

	// Sort orders the catalog: alpha, date, popularity, style or trending.
	Sort string `toml:"sort"`

	Listen       string   `toml:"listen"`
	HTTPTimeout  Duration `toml:"http_timeout"`
	FontCache    int      `toml:"font_cache_size"`
	MaxFontBytes int64    `toml:"max_font_bytes"`

	// Language is the BCP 47 tag used for shaping.
	Language string `toml:"language"`

	LogLevel     string   `toml:"log_level"`
	CopyFeedback Duration `toml:"copy_feedback"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CatalogURL:   catalog.DefaultBaseURL,
		Listen:       ":8080",
		HTTPTimeout:  Duration(30 * time.Second),
		FontCache:    64,
		MaxFontBytes: 32 << 20,
		Language:     "en",
		LogLevel:     "info",
		CopyFeedback: Duration(2 * time.Second),
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path falls back to $GLYPHSVG_CONFIG; when that is empty too,
// no file is read.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Listen = v
	}

	return cfg, cfg.Validate()
}

func (c *Config) decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			keys := make([]string, len(serr.Errors))
			for i, e := range serr.Errors {
				keys[i] = strings.Join(e.Key(), ".")
			}
			return fmt.Errorf("unknown settings: %s", strings.Join(keys, ", "))
		}
		return err
	}
	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	switch c.Sort {
	case "", "alpha", "date", "popularity", "style", "trending":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSort, c.Sort)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := c.LanguageTag(); err != nil {
		return err
	}
	if c.FontCache <= 0 {
		return fmt.Errorf("%w: font_cache_size must be positive", ErrInvalidValue)
	}
	if c.MaxFontBytes <= 0 {
		return fmt.Errorf("%w: max_font_bytes must be positive", ErrInvalidValue)
	}
	if c.HTTPTimeout < 0 || c.CopyFeedback < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidValue)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return l, nil
}

// LanguageTag parses Language.
func (c *Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Und, fmt.Errorf("%w: language %q: %v", ErrInvalidValue, c.Language, err)
	}
	return tag, nil
}

// Marshal returns the settings as TOML with the API key left out.
func (c Config) Marshal() ([]byte, error) {
	c.APIKey = ""
	return toml.Marshal(c)
}
