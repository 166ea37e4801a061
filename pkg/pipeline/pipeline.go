// Package pipeline runs the treeviz diagram pipeline: relationship graph to
// diagram description to DOT to rendered images.
//
// The CLI and the HTTP API both drive the pipeline through a [Runner] so
// defaults, caching and backend selection behave the same on every entry
// point.
//
// # Stages
//
//  1. Probe: when an image format is requested, the rendering backend is
//     checked before any other work so a missing Graphviz fails fast.
//  2. Build: [diagram.Build] turns the graph into a description.
//  3. Serialize: [nodelink.ToDOT] produces the DOT document.
//  4. Render: each image format is rendered by the backend, or served from
//     the cache when the same DOT was rendered before.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, tree, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// [diagram.Build]: github.com/matzehuels/treeviz/pkg/diagram.Build
// [nodelink.ToDOT]: github.com/matzehuels/treeviz/pkg/render/nodelink.ToDOT
package pipeline

import (
	"time"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/diagram"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/render"
	"github.com/matzehuels/treeviz/pkg/render/nodelink"
)

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// IsImageFormat reports whether format needs a rendering backend.
func IsImageFormat(format string) bool {
	return format == FormatSVG || format == FormatPNG || format == FormatPDF
}

// Options configures one pipeline run. The JSON form is accepted by the API.
type Options struct {
	Formats  []string `json:"formats,omitempty"`
	FontName string   `json:"font_name,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`
	RankDir  string   `json:"rank_dir,omitempty"`
	Engine   string   `json:"engine,omitempty"`
	Backend  string   `json:"backend,omitempty"`

	// Refresh bypasses cache lookups; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// ValidateAndSetDefaults checks option values and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := errors.ValidateFormats(o.Formats, ValidFormats); err != nil {
		return err
	}
	dot := o.DOTOptions()
	if err := dot.Validate(); err != nil {
		return err
	}
	dot = dot.WithDefaults()
	o.FontName, o.FontSize, o.RankDir = dot.FontName, dot.FontSize, dot.RankDir
	if o.Engine == "" {
		o.Engine = render.DefaultEngine
	}
	if o.Backend == "" {
		o.Backend = render.BackendGraphviz
	}
	o.validated = true
	return nil
}

// ImageFormats returns the requested formats that need a backend, in order.
func (o *Options) ImageFormats() []string {
	var out []string
	for _, f := range o.Formats {
		if IsImageFormat(f) {
			out = append(out, f)
		}
	}
	return out
}

// DOTOptions returns the DOT serialization settings.
func (o *Options) DOTOptions() nodelink.Options {
	return nodelink.Options{FontName: o.FontName, FontSize: o.FontSize, RankDir: o.RankDir}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Engine: o.Engine, Backend: o.Backend}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Description is the diagram built from the graph.
	Description *diagram.Description

	// DOT is the serialized Graphviz document.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which outputs came from the cache.
type CacheInfo struct {
	Hits   []string // formats served from cache
	Misses []string // formats rendered during this run
}

// RenderHit reports whether every image came from the cache.
func (c CacheInfo) RenderHit() bool { return len(c.Hits) > 0 && len(c.Misses) == 0 }
