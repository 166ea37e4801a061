// Package pkg holds the treeviz libraries.
//
// treeviz draws data trees: datasets described by their dimensions, joined
// by relationships that index a child dataset's dimension with a parent
// dataset's variable. The data flow is
//
//	data-tree document (.json, .toml, .yaml)
//	         ↓
//	    [datatree] package (relationship graph)
//	         ↓
//	    [diagram] package (nodes, labels, ports, edges)
//	         ↓
//	    [render/nodelink] package (Graphviz DOT)
//	         ↓
//	    [render] package (SVG/PNG/PDF through a Graphviz backend)
//
// [pipeline] runs those stages with caching from [cache] and reports to the
// hooks in [observability].
//
// # Quick Start
//
//	tree, _ := io.ImportTree("survey.yaml")
//	desc, _ := diagram.Build(tree)
//	dot := nodelink.ToDOT(desc, nodelink.Options{})
//
//	backend, _ := render.NewBackend(render.BackendGraphviz, "dot")
//	svg, _ := backend.Render(ctx, []byte(dot), render.FormatSVG)
//
// Or let the pipeline do it, including caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, tree, pipeline.Options{Formats: []string{"svg", "dot"}})
//
// # Packages
//
//   - [datatree]: subspaces, relationships and the in-memory tree
//   - [diagram]: the renderer-agnostic diagram description
//   - [render] and [render/nodelink]: DOT serialization and Graphviz backends
//   - [io]: reading data-tree documents and writing descriptions
//   - [pipeline]: build, serialize, render and cache in one call
//   - [cache]: file, Redis and MongoDB artifact caches
//   - [config]: the TOML settings file
//   - [errors]: coded errors shared by the CLI and the HTTP API
//   - [observability]: pipeline and cache hooks, with a Prometheus implementation
//   - [buildinfo]: version information set at link time
//
// [datatree]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/datatree
// [diagram]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/diagram
// [render]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/treeviz/pkg/buildinfo
package pkg
