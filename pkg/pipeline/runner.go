package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/diagram"
	pkgio "github.com/matzehuels/treeviz/pkg/io"
	"github.com/matzehuels/treeviz/pkg/observability"
	"github.com/matzehuels/treeviz/pkg/render"
	"github.com/matzehuels/treeviz/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, logger and backend - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Backend renders images. When nil, each run creates the backend named
	// by its options.
	Backend render.Backend

	// TTL is how long rendered images stay cached; zero means
	// cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → serialize → render pipeline.
//
// When any image format is requested the backend is probed before the graph
// is touched, so an unavailable backend reports an error wrapping
// [render.ErrBackendUnavailable] without doing diagram work.
func (r *Runner) Execute(ctx context.Context, g diagram.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	var backend render.Backend
	if images := opts.ImageFormats(); len(images) > 0 {
		b, err := r.backend(opts)
		if err != nil {
			return nil, err
		}
		if err := b.Available(ctx, images...); err != nil {
			return nil, err
		}
		backend = b
	}

	desc, err := r.Describe(ctx, g)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Description: desc,
		DOT:         nodelink.ToDOT(desc, opts.DOTOptions()),
		Artifacts:   make(map[string][]byte, len(opts.Formats)),
	}
	result.Stats.NodeCount = desc.NodeCount()
	result.Stats.EdgeCount = desc.EdgeCount()

	renderStart := time.Now()
	if err := r.renderAll(ctx, backend, desc, result, opts); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Describe builds the diagram description for g and reports the build to
// the registered pipeline hooks.
func (r *Runner) Describe(ctx context.Context, g diagram.Graph) (*diagram.Description, error) {
	nodes, edges := len(g.Nodes()), len(g.Edges())
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, nodes, edges)

	start := time.Now()
	desc, err := diagram.Build(g)
	elapsed := time.Since(start)
	hooks.OnBuildComplete(ctx, nodes, edges, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("build diagram: %w", err)
	}

	r.Logger.Info("built diagram",
		"nodes", desc.NodeCount(),
		"edges", desc.EdgeCount(),
		"duration", elapsed)
	return desc, nil
}

// DescribeJSON returns the JSON description of g. Results are cached by
// [GraphHash] unless refresh is set.
func (r *Runner) DescribeJSON(ctx context.Context, g diagram.Graph, refresh bool) ([]byte, bool, error) {
	key := r.Keyer.DescriptionKey(GraphHash(g))
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	desc, err := r.Describe(ctx, g)
	if err != nil {
		return nil, false, err
	}
	var buf bytes.Buffer
	if err := pkgio.WriteDescription(desc, &buf); err != nil {
		return nil, false, fmt.Errorf("encode description: %w", err)
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLDescription); err != nil {
		r.Logger.Warn("cache store failed", "key", key, "error", err)
	}
	return buf.Bytes(), false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) backend(opts Options) (render.Backend, error) {
	if r.Backend != nil {
		return r.Backend, nil
	}
	return render.NewBackend(opts.Backend, opts.Engine)
}

// GraphHash returns a content hash of g covering its root, nodes, subspace
// dimensions and relationships in order.
func GraphHash(g diagram.Graph) string {
	type node struct {
		Name string   `json:"name"`
		Dims []string `json:"dims"`
	}
	var doc struct {
		Root  string   `json:"root"`
		Nodes []node   `json:"nodes"`
		Rels  []string `json:"rels"`
	}
	doc.Root = g.Root()
	for _, name := range g.Nodes() {
		n := node{Name: name}
		if s, ok := g.Subspace(name); ok {
			n.Dims = s.Dims
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for _, ref := range g.Edges() {
		if rel, ok := g.Relationship(ref); ok {
			doc.Rels = append(doc.Rels, rel.String())
		} else {
			doc.Rels = append(doc.Rels, ref.String())
		}
	}
	data, _ := json.Marshal(doc)
	return cache.Hash(data)
}
