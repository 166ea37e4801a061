// Package nodelink serializes diagram descriptions to Graphviz DOT.
//
// # Overview
//
// Each dataset becomes a plaintext node whose label is a Graphviz HTML-like
// table, and each relationship an edge routed from the parent's variable
// cell to the child's dimension cell:
//
//	desc, err := diagram.Build(tree)
//	dot := nodelink.ToDOT(desc, nodelink.Options{})
//	svg, err := backend.Render(ctx, []byte(dot), "svg")
//
// # Options
//
//   - FontName: graph and node font (default Arial)
//   - FontSize: base point size (default 12); column captions use 70%
//   - RankDir: LR (default), RL, TB or BT
//
// # Ports
//
// Diagram ports look like "dim:zone". Graphviz treats ':' in a port
// reference as the compass separator, so [PortID] maps them to safe ids
// ("dim_zone") before they are written as PORT, tailport and headport.
//
// # Dependencies
//
// ToDOT has no dependencies beyond the diagram package. Layout and image
// encoding happen in package render.
package nodelink
