package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Backend names accepted by [NewBackend].
const (
	BackendGraphviz = "graphviz"
	BackendExec     = "exec"
)

// DefaultEngine is the Graphviz layout engine used when none is configured.
const DefaultEngine = "dot"

// ErrBackendUnavailable is wrapped by every error that reports a missing or
// unusable rendering backend.
var ErrBackendUnavailable = errors.New(errors.ErrCodeBackendUnavailable, "render backend unavailable")

var engines = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage", "patchwork"}

// Engines returns the supported Graphviz layout engines.
func Engines() []string { return slices.Clone(engines) }

// Backend turns DOT source into an image.
type Backend interface {
	// Name identifies the backend ("graphviz", "exec").
	Name() string
	// Available checks that the backend can render every listed format.
	// It must be cheap enough to call before any diagram work starts.
	Available(ctx context.Context, formats ...string) error
	// Render lays out dot and returns it encoded as format.
	Render(ctx context.Context, dot []byte, format string) ([]byte, error)
}

// NewBackend returns the backend registered under name using the given
// layout engine. An empty name selects the in-process Graphviz backend and an
// empty engine selects [DefaultEngine].
func NewBackend(name, engine string) (Backend, error) {
	if engine == "" {
		engine = DefaultEngine
	}
	if !slices.Contains(engines, engine) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q", engine)
	}
	switch name {
	case "", BackendGraphviz:
		return &GraphvizBackend{Engine: engine}, nil
	case BackendExec:
		return &ExecBackend{Engine: engine}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown render backend %q (use %s or %s)", name, BackendGraphviz, BackendExec)
	}
}

func checkFormats(formats []string) error {
	for _, f := range formats {
		switch f {
		case FormatSVG, FormatPNG, FormatPDF:
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", f)
		}
	}
	return nil
}

// GraphvizBackend renders in-process with the WebAssembly build of Graphviz.
// SVG comes straight from Graphviz; PDF and PNG are converted from that SVG
// with rsvg-convert.
type GraphvizBackend struct {
	Engine string
}

func (b *GraphvizBackend) Name() string { return BackendGraphviz }

func (b *GraphvizBackend) Available(ctx context.Context, formats ...string) error {
	if err := checkFormats(formats); err != nil {
		return err
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("%w: init graphviz: %v", ErrBackendUnavailable, err)
	}
	gv.Close()

	if slices.Contains(formats, FormatPDF) || slices.Contains(formats, FormatPNG) {
		return ConverterAvailable()
	}
	return nil
}

func (b *GraphvizBackend) Render(ctx context.Context, dot []byte, format string) ([]byte, error) {
	if err := checkFormats([]string{format}); err != nil {
		return nil, err
	}
	svg, err := b.svg(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatPDF:
		return ToPDF(ctx, svg)
	case FormatPNG:
		return ToPNG(ctx, svg, 2.0)
	default:
		return svg, nil
	}
}

func (b *GraphvizBackend) svg(ctx context.Context, dot []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: init graphviz: %v", ErrBackendUnavailable, err)
	}
	defer gv.Close()

	engine := b.Engine
	if engine == "" {
		engine = DefaultEngine
	}
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "graphviz render")
	}
	return NormalizeViewBox(buf.Bytes()), nil
}

// ExecBackend runs the Graphviz binary found on PATH. All formats are
// produced natively by Graphviz.
type ExecBackend struct {
	Engine string
	Binary string // defaults to "dot"
}

func (b *ExecBackend) Name() string { return BackendExec }

func (b *ExecBackend) binary() string {
	if b.Binary == "" {
		return "dot"
	}
	return b.Binary
}

func (b *ExecBackend) Available(ctx context.Context, formats ...string) error {
	if err := checkFormats(formats); err != nil {
		return err
	}
	if _, err := lookPath(b.binary()); err != nil {
		return fmt.Errorf("%w: %s not found on PATH. Install Graphviz with:\n  macOS:  brew install graphviz\n  Linux:  apt install graphviz", ErrBackendUnavailable, b.binary())
	}
	return nil
}

func (b *ExecBackend) Render(ctx context.Context, dot []byte, format string) ([]byte, error) {
	if err := b.Available(ctx, format); err != nil {
		return nil, err
	}
	engine := b.Engine
	if engine == "" {
		engine = DefaultEngine
	}

	cmd := exec.CommandContext(ctx, b.binary(), "-K"+engine, "-T"+format)
	cmd.Stdin = bytes.NewReader(dot)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRender, err, "%s: %s", b.binary(), errBuf.String())
	}
	if format == FormatSVG {
		return NormalizeViewBox(out.Bytes()), nil
	}
	return out.Bytes(), nil
}
