// Package render turns Graphviz DOT source into images.
//
// # Overview
//
// Diagrams are built as renderer-agnostic descriptions (package diagram),
// serialized to DOT by the [nodelink] subpackage, and handed to a [Backend]
// for layout and encoding:
//
//	be, err := render.NewBackend("graphviz", "dot")
//	if err := be.Available(ctx, "svg", "pdf"); err != nil {
//	    return err // errors.Is(err, render.ErrBackendUnavailable)
//	}
//	svg, err := be.Render(ctx, []byte(dot), "svg")
//
// # Backends
//
//   - [GraphvizBackend]: in-process Graphviz (go-graphviz, WebAssembly).
//     Needs no system install for SVG.
//   - [ExecBackend]: the dot binary on PATH. Produces SVG, PNG and PDF
//     natively.
//
// Callers are expected to call Available before doing any diagram work so a
// missing backend fails fast instead of after the graph has been walked.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG with the external rsvg-convert tool (from
// librsvg). The Graphviz backend uses them for its PDF and PNG output.
//
// [nodelink]: github.com/matzehuels/treeviz/pkg/render/nodelink
package render
