// Package diagram builds renderer-agnostic diagram descriptions of data trees.
//
// # Overview
//
// [Build] reads a relationship graph (see [Graph]; [datatree.Tree] is the
// standard implementation) and produces a [Description]: one [Node] per
// dataset with a structured [Label], and one [Edge] per relationship bound
// to specific label cells.
//
//	desc, err := diagram.Build(tree)
//	dot := nodelink.ToDOT(desc, nodelink.Options{})
//
// # Labels
//
// A label is a title cell followed by attribute rows. Dimensions fill the
// left column and join variables the right column, paired by row index only.
// A node without variables gets a single DIMENSIONS column, a node without
// dimensions a single VARIABLES column, and a node with neither just the
// title.
//
// # Ports
//
// Every cell is addressable: the title is [HeaderPort] ("f0"), a dimension
// cell is "dim:<name>" ([DimPort]) and a variable cell is "var:<name>"
// ([VarPort]). Edges always run from the parent's variable port to the
// child's dimension port, so renderers can route them row to row.
//
// # Edge Semantics
//
// Label-indexed relationships get [ArrowHollowDiamond], position-indexed
// ones [ArrowPlain]. Edge keys come from the relationship notation
// (e.g. "persons.household_id @ households.HHID") and are unique within a
// description.
//
// # Errors
//
// [MissingNodeError], [MissingRelationshipError] and
// [UnsupportedIndexingError] abort a build. They match [ErrMissingNode],
// [ErrMissingRelationship] and [ErrUnsupportedIndexing] with errors.Is and
// carry codes from the errors package.
//
// # Concurrency
//
// Build is a pure function of the graph snapshot it reads. Concurrent builds
// over graphs that are not being mutated are safe.
//
// [datatree.Tree]: github.com/matzehuels/treeviz/pkg/datatree
package diagram
