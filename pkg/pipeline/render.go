package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/diagram"
	pkgio "github.com/matzehuels/treeviz/pkg/io"
	"github.com/matzehuels/treeviz/pkg/observability"
	"github.com/matzehuels/treeviz/pkg/render"
)

// renderAll fills result.Artifacts with every requested format.
func (r *Runner) renderAll(ctx context.Context, backend render.Backend, desc *diagram.Description, result *Result, opts Options) error {
	dotHash := cache.Hash([]byte(result.DOT))

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch format {
		case FormatDOT:
			result.Artifacts[format] = []byte(result.DOT)
		case FormatJSON:
			var buf bytes.Buffer
			if err := pkgio.WriteDescription(desc, &buf); err != nil {
				return fmt.Errorf("render json: %w", err)
			}
			result.Artifacts[format] = buf.Bytes()
		default:
			data, hit, err := r.renderImage(ctx, backend, dotHash, []byte(result.DOT), format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			result.Artifacts[format] = data
			if hit {
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
			} else {
				result.CacheInfo.Misses = append(result.CacheInfo.Misses, format)
			}
		}
	}
	return nil
}

// renderImage returns the encoded image for one format, using the cache
// unless opts.Refresh is set. Cache failures never fail the render.
func (r *Runner) renderImage(ctx context.Context, backend render.Backend, dotHash string, dot []byte, format string, opts Options) ([]byte, bool, error) {
	keyOpts := opts.ArtifactKeyOpts(format)
	keyOpts.Backend = backend.Name()
	key := r.Keyer.ArtifactKey(dotHash, keyOpts)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "format", format, "error", err)
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, backend.Name(), format)
	start := time.Now()
	data, err := backend.Render(ctx, dot, format)
	hooks.OnRenderComplete(ctx, backend.Name(), format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLArtifact
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache store failed", "format", format, "error", err)
	}
	r.Logger.Debug("rendered artifact", "format", format, "bytes", len(data), "backend", backend.Name())
	return data, false, nil
}
