package diagram

import (
	"fmt"
	"slices"

	"github.com/matzehuels/treeviz/pkg/datatree"
)

// Build translates a relationship graph into a diagram description.
//
// The root is seeded first when the graph has at least one node, followed by
// the remaining nodes. Every relationship adds its parent variable to the
// parent node and produces one edge from that variable's port to the child
// dimension's port. Relationship endpoints missing from g.Nodes() are added
// after the listed nodes.
//
// Any dataset without a subspace, any edge that does not resolve and any
// indexing mode other than label or position fails the whole build; no
// partial description is returned.
//
// Build only reads g and keeps no references to it.
func Build(g Graph) (*Description, error) {
	b := builder{
		g:     g,
		nodes: make(map[string]*nodeState),
	}

	ids := g.Nodes()
	if root := g.Root(); root != "" && len(ids) > 0 {
		if err := b.addNode(root, ""); err != nil {
			return nil, err
		}
	}
	for _, id := range ids {
		if err := b.addNode(id, ""); err != nil {
			return nil, err
		}
	}

	refs := g.Edges()
	rels := make([]datatree.Relationship, len(refs))
	for i, ref := range refs {
		rel, err := b.resolve(ref)
		if err != nil {
			return nil, err
		}
		rels[i] = rel
		b.nodes[rel.ParentData].addVar(rel.ParentName)
	}

	desc := &Description{
		Nodes: make([]*Node, 0, len(b.order)),
		Edges: make([]Edge, 0, len(rels)),
		index: make(map[string]*Node, len(b.order)),
	}
	for _, id := range b.order {
		n := b.nodes[id].node(id)
		desc.Nodes = append(desc.Nodes, n)
		desc.index[id] = n
	}

	keys := make(map[string]bool, len(rels))
	for _, rel := range rels {
		desc.Edges = append(desc.Edges, Edge{
			Key:      uniqueKey(keys, rel.String()),
			From:     rel.ParentData,
			FromPort: VarPort(rel.ParentName),
			To:       rel.ChildData,
			ToPort:   DimPort(rel.ChildName),
			Dir:      DirForward,
			Arrow:    arrowFor(rel.Indexing),
		})
	}
	return desc, nil
}

type builder struct {
	g     Graph
	nodes map[string]*nodeState
	order []string
}

type nodeState struct {
	dims []string
	vars map[string]bool
}

func (b *builder) addNode(id, via string) error {
	if _, ok := b.nodes[id]; ok {
		return nil
	}
	sub, ok := b.g.Subspace(id)
	if !ok {
		return &MissingNodeError{Node: id, Edge: via}
	}
	b.nodes[id] = &nodeState{dims: dedupe(sub.Dims), vars: make(map[string]bool)}
	b.order = append(b.order, id)
	return nil
}

// resolve looks up the relationship behind ref and makes sure both of its
// endpoints are nodes.
func (b *builder) resolve(ref datatree.EdgeRef) (datatree.Relationship, error) {
	rel, ok := b.g.Relationship(ref)
	if !ok {
		return datatree.Relationship{}, &MissingRelationshipError{Edge: ref}
	}
	if !rel.Indexing.Valid() {
		return datatree.Relationship{}, &UnsupportedIndexingError{Indexing: rel.Indexing, Edge: rel.String()}
	}
	if err := b.addNode(rel.ParentData, rel.String()); err != nil {
		return datatree.Relationship{}, err
	}
	if err := b.addNode(rel.ChildData, rel.String()); err != nil {
		return datatree.Relationship{}, err
	}
	return rel, nil
}

func (s *nodeState) addVar(name string) { s.vars[name] = true }

func (s *nodeState) node(id string) *Node {
	vars := make([]string, 0, len(s.vars))
	for v := range s.vars {
		vars = append(vars, v)
	}
	slices.Sort(vars)
	return &Node{
		ID:    id,
		Dims:  s.dims,
		Vars:  vars,
		Label: newLabel(id, s.dims, vars),
	}
}

func arrowFor(i datatree.Indexing) ArrowStyle {
	if i == datatree.IndexLabel {
		return ArrowHollowDiamond
	}
	return ArrowPlain
}

// dedupe drops repeated names, keeping the first occurrence.
func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// uniqueKey returns key the first time it is seen and key#2, key#3, ... for
// repeats, skipping any suffixed form that is already taken.
func uniqueKey(seen map[string]bool, key string) string {
	k := key
	for n := 2; seen[k]; n++ {
		k = fmt.Sprintf("%s#%d", key, n)
	}
	seen[k] = true
	return k
}
