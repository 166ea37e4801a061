package datatree

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidName is returned by [Tree.AddSubspace] and [Tree.SetRoot] when
	// the dataset name is empty.
	ErrInvalidName = errors.New("dataset name must not be empty")

	// ErrInvalidRelationship is returned by [Tree.AddRelationship] and
	// [ParseRelationship] when a relationship is missing one of its four names
	// or cannot be parsed.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrDuplicateRelationship is returned by [Tree.AddRelationship] when an
	// identical relationship is already part of the tree.
	ErrDuplicateRelationship = errors.New("duplicate relationship")

	// ErrUnsupportedIndexing is returned by [ParseIndexing] and [Tree.Validate]
	// for indexing modes other than label and position.
	ErrUnsupportedIndexing = errors.New("unsupported indexing")

	// ErrUnknownDataset is returned by [Tree.Validate] when a graph node or a
	// relationship endpoint has no subspace.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrUnknownDimension is returned by [Tree.Validate] when a relationship
	// targets a dimension the child subspace does not declare.
	ErrUnknownDimension = errors.New("unknown dimension")
)

// Subspace describes one dataset: its ordered dimension names.
type Subspace struct {
	Dims []string
}

// HasDim reports whether name is one of the subspace's dimensions.
func (s Subspace) HasDim(name string) bool { return slices.Contains(s.Dims, name) }

// EdgeRef identifies one edge of a [Tree]. Seq distinguishes parallel edges
// between the same pair of datasets, counting from zero in insertion order.
type EdgeRef struct {
	From string
	To   string
	Seq  int
}

// String returns "from->to#seq".
func (e EdgeRef) String() string { return fmt.Sprintf("%s->%s#%d", e.From, e.To, e.Seq) }

// Tree is an in-memory relationship graph over named datasets.
//
// Graph nodes are the root (if set) plus every dataset that appears as a
// relationship endpoint. Subspaces may be registered for datasets that are
// not graph nodes; those are simply not part of the graph.
//
// The zero value is not usable; use [New]. Tree is not safe for concurrent
// use without external synchronization.
type Tree struct {
	subspaces map[string]Subspace
	order     []string // subspace registration order
	root      string
	nodes     []string
	nodeSet   map[string]bool
	edges     []EdgeRef
	rels      map[EdgeRef]Relationship
	keys      map[string]bool
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		subspaces: make(map[string]Subspace),
		nodeSet:   make(map[string]bool),
		rels:      make(map[EdgeRef]Relationship),
		keys:      make(map[string]bool),
	}
}

// AddSubspace registers (or replaces) the dimensions of a dataset.
// The dims slice is copied.
func (t *Tree) AddSubspace(name string, dims ...string) error {
	if name == "" {
		return ErrInvalidName
	}
	if _, exists := t.subspaces[name]; !exists {
		t.order = append(t.order, name)
	}
	t.subspaces[name] = Subspace{Dims: slices.Clone(dims)}
	return nil
}

// SetRoot designates the root dataset and adds it to the graph.
func (t *Tree) SetRoot(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	t.root = name
	t.addNode(name)
	return nil
}

// AddRelationship adds a directed edge from rel.ParentData to rel.ChildData.
// Both endpoints become graph nodes. The subspaces of the endpoints do not
// need to be registered yet; use [Tree.Validate] to check completeness.
//
// Returns ErrInvalidRelationship if a name is empty and
// ErrDuplicateRelationship if the same relationship was already added.
func (t *Tree) AddRelationship(rel Relationship) (EdgeRef, error) {
	if err := rel.validate(); err != nil {
		return EdgeRef{}, err
	}
	key := rel.String()
	if t.keys[key] {
		return EdgeRef{}, fmt.Errorf("%w: %s", ErrDuplicateRelationship, key)
	}

	ref := EdgeRef{From: rel.ParentData, To: rel.ChildData}
	for _, e := range t.edges {
		if e.From == ref.From && e.To == ref.To {
			ref.Seq++
		}
	}

	t.addNode(rel.ParentData)
	t.addNode(rel.ChildData)
	t.edges = append(t.edges, ref)
	t.rels[ref] = rel
	t.keys[key] = true
	return ref, nil
}

func (t *Tree) addNode(name string) {
	if t.nodeSet[name] {
		return
	}
	t.nodeSet[name] = true
	t.nodes = append(t.nodes, name)
}

// Nodes returns the graph's dataset names: the root first (if set), then
// every other node in the order it joined the graph.
func (t *Tree) Nodes() []string {
	out := make([]string, 0, len(t.nodes))
	if t.root != "" {
		out = append(out, t.root)
	}
	for _, n := range t.nodes {
		if n != t.root {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns a copy of all edge references in insertion order.
func (t *Tree) Edges() []EdgeRef { return slices.Clone(t.edges) }

// Relationship resolves an edge reference.
func (t *Tree) Relationship(ref EdgeRef) (Relationship, bool) {
	rel, ok := t.rels[ref]
	return rel, ok
}

// Relationships returns all relationships in edge order.
func (t *Tree) Relationships() []Relationship {
	out := make([]Relationship, len(t.edges))
	for i, e := range t.edges {
		out[i] = t.rels[e]
	}
	return out
}

// Subspace returns the subspace registered for name.
func (t *Tree) Subspace(name string) (Subspace, bool) {
	s, ok := t.subspaces[name]
	return s, ok
}

// Subspaces returns the registered dataset names in registration order.
func (t *Tree) Subspaces() []string { return slices.Clone(t.order) }

// Root returns the root dataset name, or "" if none is set.
func (t *Tree) Root() string { return t.root }

// NodeCount returns the number of graph nodes.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of edges.
func (t *Tree) EdgeCount() int { return len(t.edges) }

// Validate checks that the tree can be drawn with every port resolving:
//
//  1. Every graph node has a subspace
//  2. Every relationship uses a supported indexing mode
//  3. Every relationship targets a dimension of its child subspace
//
// The diagram builder performs checks 1 and 2 on its own; Validate exists
// so callers can reject bad input before rendering.
func (t *Tree) Validate() error {
	for _, n := range t.Nodes() {
		if _, ok := t.subspaces[n]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDataset, n)
		}
	}
	for _, e := range t.edges {
		rel := t.rels[e]
		if !rel.Indexing.Valid() {
			return fmt.Errorf("%w: %q in %s", ErrUnsupportedIndexing, rel.Indexing, rel)
		}
		if !t.subspaces[rel.ChildData].HasDim(rel.ChildName) {
			return fmt.Errorf("%w: %s has no dimension %q (%s)", ErrUnknownDimension, rel.ChildData, rel.ChildName, rel)
		}
	}
	return nil
}
