package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treeviz/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
font_name = "Helvetica"
font_size = 10.5
rank_dir = "tb"
backend = "exec"

[cache]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2
ttl = "36h"
key_prefix = "staging:"

[server]
addr = ":9090"
metrics = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Helvetica", cfg.FontName)
	assert.Equal(t, 10.5, cfg.FontSize)
	assert.Equal(t, "tb", cfg.RankDir)
	assert.Equal(t, "exec", cfg.Backend)
	assert.Equal(t, "dot", cfg.Engine, "unset keys keep defaults")
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2, cfg.Cache.RedisDB)
	assert.Equal(t, 36*time.Hour, cfg.Cache.TTL.Duration)
	assert.Equal(t, "staging:", cfg.Cache.KeyPrefix)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.False(t, cfg.Server.Metrics)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"syntax":        `font_name = `,
		"unknown key":   `colour = "red"`,
		"bad backend":   `backend = "cairo"`,
		"bad rank dir":  `rank_dir = "up"`,
		"bad font size": `font_size = 0`,
		"bad cache":     "[cache]\nbackend = \"memcached\"",
		"bad ttl":       "[cache]\nttl = \"soon\"",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
		})
	}
}

func TestPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-config", AppName, "config.toml"), path)
}

func TestPath_Home(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", AppName, "config.toml"), path)
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := Default().Cache.Directory()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-cache", AppName), dir)

	cfg := Default()
	cfg.Cache.Dir = "/srv/treeviz"
	dir, err = cfg.Cache.Directory()
	require.NoError(t, err)
	assert.Equal(t, "/srv/treeviz", dir)
}

func TestDurationText(t *testing.T) {
	d := Duration{90 * time.Minute}
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s", string(text))

	var back Duration
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, d, back)
}
