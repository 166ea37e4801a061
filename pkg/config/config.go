// Package config loads treeviz settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/treeviz/config.toml (falling back to
// ~/.config/treeviz/config.toml). A missing file yields [Default]. Command-line
// flags override whatever the file sets.
//
//	font_name = "Helvetica"
//	font_size = 11
//	rank_dir  = "TB"
//	backend   = "exec"
//
//	[cache]
//	backend    = "redis"
//	redis_addr = "localhost:6379"
//	ttl        = "72h"
//
//	[server]
//	addr    = ":9090"
//	metrics = true
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "treeviz"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
	CacheNone  = "none"
)

// Config is the full settings file.
type Config struct {
	FontName string  `toml:"font_name"`
	FontSize float64 `toml:"font_size"`
	RankDir  string  `toml:"rank_dir"`
	Engine   string  `toml:"engine"`
	Backend  string  `toml:"backend"`

	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Cache selects and configures the artifact cache.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	TTL           Duration `toml:"ttl"`

	// KeyPrefix scopes every key so several deployments can share one
	// Redis or Mongo backend.
	KeyPrefix string `toml:"key_prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FontName: "Arial",
		FontSize: 12,
		RankDir:  "LR",
		Engine:   "dot",
		Backend:  "graphviz",
		Cache: Cache{
			Backend:       CacheFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: AppName,
			TTL:           Duration{7 * 24 * time.Hour},
		},
		Server: Server{
			Addr:    ":8080",
			Metrics: true,
		},
	}
}

// Load reads the config file at path on top of [Default]. A missing file is
// not an error. Keys the file sets but Config does not know are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the file at [Path], or defaults if Path cannot be resolved.
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	if c.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_size must be positive, got %g", c.FontSize)
	}
	if !slices.Contains([]string{"LR", "RL", "TB", "BT"}, strings.ToUpper(c.RankDir)) {
		return errors.New(errors.ErrCodeInvalidConfig, "rank_dir must be LR, RL, TB or BT, got %q", c.RankDir)
	}
	if c.Backend != "graphviz" && c.Backend != "exec" {
		return errors.New(errors.ErrCodeInvalidConfig, "backend must be graphviz or exec, got %q", c.Backend)
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheMongo, CacheNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis, mongo or none, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Path returns the config file location using XDG standard
// (~/.config/treeviz/config.toml).
func Path() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Directory returns the file cache directory: c.Dir when set, otherwise the
// XDG cache location (~/.cache/treeviz/).
func (c Cache) Directory() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
