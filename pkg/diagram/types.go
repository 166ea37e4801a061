package diagram

import (
	"github.com/matzehuels/treeviz/pkg/datatree"
)

// Graph is the read-only view of a relationship graph consumed by [Build].
// [datatree.Tree] implements it.
type Graph interface {
	// Nodes returns the dataset names in the graph.
	Nodes() []string
	// Edges returns references to every relationship edge.
	Edges() []datatree.EdgeRef
	// Relationship resolves an edge reference.
	Relationship(ref datatree.EdgeRef) (datatree.Relationship, bool)
	// Subspace returns the dimensions of a dataset.
	Subspace(name string) (datatree.Subspace, bool)
	// Root returns the root dataset name, or "" when there is none.
	Root() string
}

var _ Graph = (*datatree.Tree)(nil)

// ShapePlaintext is the node shape every diagram node uses; the visible box
// comes from the label table, not the node outline.
const ShapePlaintext = "plaintext"

// Direction of an edge.
type Direction string

// DirForward draws edges from parent to child.
const DirForward Direction = "forward"

// ArrowStyle is the marker drawn at the child end of an edge.
type ArrowStyle string

const (
	// ArrowHollowDiamond marks label-indexed relationships.
	ArrowHollowDiamond ArrowStyle = "hollow-diamond"
	// ArrowPlain marks position-indexed relationships.
	ArrowPlain ArrowStyle = "plain"
)

// Description is the renderer-agnostic output of [Build].
//
// Nodes are ordered: the root (if any) first, then graph nodes in the order
// the graph reported them, then relationship endpoints the graph did not list.
// Edges follow the graph's edge order.
type Description struct {
	Nodes []*Node
	Edges []Edge

	index map[string]*Node
}

// Node returns the node with the given id.
func (d *Description) Node(id string) (*Node, bool) {
	if d.index != nil {
		n, ok := d.index[id]
		return n, ok
	}
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NodeCount returns the number of nodes.
func (d *Description) NodeCount() int { return len(d.Nodes) }

// EdgeCount returns the number of edges.
func (d *Description) EdgeCount() int { return len(d.Edges) }

// Node is one dataset in the diagram.
type Node struct {
	ID    string
	Dims  []string // deduplicated, subspace order
	Vars  []string // join variables of outgoing relationships, sorted
	Label Label
}

// Shape returns the node shape, always [ShapePlaintext].
func (n *Node) Shape() string { return ShapePlaintext }

// Ports returns every addressable cell of the node's label keyed by port:
// the header under [HeaderPort] plus one entry per dimension and variable.
func (n *Node) Ports() map[string]Cell {
	ports := map[string]Cell{HeaderPort: {Text: n.Label.Title, Port: HeaderPort}}
	for _, r := range n.Label.Rows {
		if !r.Dim.IsEmpty() {
			ports[r.Dim.Port] = r.Dim
		}
		if !r.Var.IsEmpty() {
			ports[r.Var.Port] = r.Var
		}
	}
	return ports
}

// Edge binds a relationship to a pair of ports.
type Edge struct {
	Key      string // unique per relationship within a description
	From     string // parent dataset
	FromPort string // VarPort(parent_name)
	To       string // child dataset
	ToPort   string // DimPort(child_name)
	Dir      Direction
	Arrow    ArrowStyle
}
