package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treeviz/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheLocation(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	tests := []struct {
		name string
		cfg  config.Cache
		want string
	}{
		{"file default", config.Cache{Backend: config.CacheFile}, filepath.Join("/tmp/xdg", appName)},
		{"file explicit dir", config.Cache{Backend: config.CacheFile, Dir: "/var/cache/tv"}, "/var/cache/tv"},
		{"redis", config.Cache{Backend: config.CacheRedis, RedisAddr: "cache:6379", RedisDB: 2}, "redis://cache:6379/2"},
		{"mongo", config.Cache{Backend: config.CacheMongo, MongoURI: "mongodb://db:27017", MongoDatabase: "tv"}, "mongodb://db:27017 (database tv, collection artifacts)"},
		{"none", config.Cache{Backend: config.CacheNone}, "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheLocation(tt.cfg); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}
