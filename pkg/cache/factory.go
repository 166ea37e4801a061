package cache

import (
	"context"
	"time"

	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/observability"
)

// New opens the backend selected by cfg.Backend and instruments it.
func New(ctx context.Context, cfg config.Cache) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case config.CacheNone:
		return NewNullCache(), nil
	case "", config.CacheFile:
		var dir string
		if dir, err = cfg.Directory(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve cache directory")
		}
		c, err = NewFileCache(dir)
	case config.CacheRedis:
		c, err = NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case config.CacheMongo:
		c, err = NewMongoCache(ctx, MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = config.CacheFile
	}
	return Instrument(c, backend), nil
}

// Instrumented reports every lookup and write to the registered
// observability cache hooks.
type Instrumented struct {
	inner   Cache
	backend string
}

// Instrument wraps c. backend labels the emitted events.
func Instrument(c Cache, backend string) *Instrumented {
	return &Instrumented{inner: c, backend: backend}
}

// Backend returns the label passed to [Instrument].
func (c *Instrumented) Backend() string { return c.backend }

// Unwrap returns the wrapped cache.
func (c *Instrumented) Unwrap() Cache { return c.inner }

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	hooks := observability.Cache()
	switch {
	case err != nil:
		hooks.OnCacheError(ctx, c.backend, "get", err)
	case ok:
		hooks.OnCacheHit(ctx, c.backend)
	default:
		hooks.OnCacheMiss(ctx, c.backend)
	}
	return data, ok, err
}

func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err != nil {
		observability.Cache().OnCacheError(ctx, c.backend, "set", err)
	} else {
		observability.Cache().OnCacheSet(ctx, c.backend, len(data))
	}
	return err
}

func (c *Instrumented) Delete(ctx context.Context, key string) error {
	err := c.inner.Delete(ctx, key)
	if err != nil {
		observability.Cache().OnCacheError(ctx, c.backend, "delete", err)
	}
	return err
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *Instrumented) Clear(ctx context.Context) error {
	cl, ok := c.inner.(Clearer)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "%s cache cannot be cleared", c.backend)
	}
	return cl.Clear(ctx)
}

func (c *Instrumented) Close() error { return c.inner.Close() }

var (
	_ Cache   = (*Instrumented)(nil)
	_ Clearer = (*Instrumented)(nil)
)
