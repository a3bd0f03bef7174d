package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glyphsvg.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvListen, "")
	t.Setenv(EnvConfig, "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.CopyFeedback))
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
api_key = "from-file"
sort = "popularity"
listen = "127.0.0.1:9000"
http_timeout = "5s"
font_cache_size = 8
language = "de"
log_level = "debug"
copy_feedback = "1500ms"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "popularity", cfg.Sort)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.HTTPTimeout))
	assert.Equal(t, 8, cfg.FontCache)
	assert.Equal(t, 1500*time.Millisecond, time.Duration(cfg.CopyFeedback))

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	tag, err := cfg.LanguageTag()
	require.NoError(t, err)
	assert.Equal(t, language.German, tag)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `api_key = "from-file"`)
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvListen, ":1234")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, ":1234", cfg.Listen)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"bad sort", `sort = "random"`, ErrInvalidSort},
		{"bad level", `log_level = "loud"`, ErrInvalidLogLevel},
		{"bad cache", `font_cache_size = 0`, ErrInvalidValue},
		{"bad language", `language = "not a tag"`, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Load(writeFile(t, `unknown_key = 1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_key")

	_, err = Load(writeFile(t, `http_timeout = "soon"`))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalOmitsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "hunter2"

	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(out), "hunter2"))
	assert.Contains(t, string(out), "http_timeout")
	assert.Contains(t, string(out), "30s")
}
