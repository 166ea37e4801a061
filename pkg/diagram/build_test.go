package diagram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treeviz/pkg/datatree"
	apperrors "github.com/matzehuels/treeviz/pkg/errors"
)

// fakeGraph lets tests hand Build graphs that datatree.Tree would never produce.
type fakeGraph struct {
	nodes     []string
	edges     []datatree.EdgeRef
	rels      map[datatree.EdgeRef]datatree.Relationship
	subspaces map[string]datatree.Subspace
	root      string
}

func (f *fakeGraph) Nodes() []string           { return f.nodes }
func (f *fakeGraph) Edges() []datatree.EdgeRef { return f.edges }
func (f *fakeGraph) Root() string              { return f.root }

func (f *fakeGraph) Relationship(ref datatree.EdgeRef) (datatree.Relationship, bool) {
	r, ok := f.rels[ref]
	return r, ok
}

func (f *fakeGraph) Subspace(name string) (datatree.Subspace, bool) {
	s, ok := f.subspaces[name]
	return s, ok
}

func rel(parent, pvar, child, cdim string, idx datatree.Indexing) datatree.Relationship {
	return datatree.Relationship{ParentData: parent, ParentName: pvar, ChildData: child, ChildName: cdim, Indexing: idx}
}

func mustTree(t *testing.T, subspaces map[string][]string, root string, rels ...datatree.Relationship) *datatree.Tree {
	t.Helper()
	tr := datatree.New()
	for name, dims := range subspaces {
		require.NoError(t, tr.AddSubspace(name, dims...))
	}
	if root != "" {
		require.NoError(t, tr.SetRoot(root))
	}
	for _, r := range rels {
		_, err := tr.AddRelationship(r)
		require.NoError(t, err)
	}
	return tr
}

func TestBuild_EmptyGraph(t *testing.T) {
	desc, err := Build(datatree.New())
	require.NoError(t, err)
	assert.Zero(t, desc.NodeCount())
	assert.Zero(t, desc.EdgeCount())
}

func TestBuild_RootIgnoredWhenGraphEmpty(t *testing.T) {
	g := &fakeGraph{root: "ghost", subspaces: map[string]datatree.Subspace{}}
	desc, err := Build(g)
	require.NoError(t, err)
	assert.Zero(t, desc.NodeCount())
}

func TestBuild_RoundTrip(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"A": {"id"}, "B": {"bid"}},
		"",
		rel("A", "idvar", "B", "bid", datatree.IndexLabel),
	)

	desc, err := Build(tr)
	require.NoError(t, err)
	require.Equal(t, 2, desc.NodeCount())
	require.Equal(t, 1, desc.EdgeCount())

	a, ok := desc.Node("A")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, a.Dims)
	assert.Equal(t, []string{"idvar"}, a.Vars)

	b, ok := desc.Node("B")
	require.True(t, ok)
	assert.Equal(t, []string{"bid"}, b.Dims)
	assert.Empty(t, b.Vars)

	e := desc.Edges[0]
	assert.Equal(t, "A", e.From)
	assert.Equal(t, "var:idvar", e.FromPort)
	assert.Equal(t, "B", e.To)
	assert.Equal(t, "dim:bid", e.ToPort)
	assert.Equal(t, ArrowHollowDiamond, e.Arrow)
	assert.Equal(t, DirForward, e.Dir)
	assert.Equal(t, "A.idvar @ B.bid", e.Key)

	// Edge ports must resolve against the node labels.
	assert.Contains(t, a.Ports(), e.FromPort)
	assert.Contains(t, b.Ports(), e.ToPort)
}

func TestBuild_ArrowStyles(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"tours": {"tour"}, "zones": {"zone"}},
		"tours",
		rel("tours", "orig", "zones", "zone", datatree.IndexLabel),
		rel("tours", "dest", "zones", "zone", datatree.IndexPosition),
	)

	desc, err := Build(tr)
	require.NoError(t, err)
	require.Len(t, desc.Edges, 2)
	assert.Equal(t, ArrowHollowDiamond, desc.Edges[0].Arrow)
	assert.Equal(t, ArrowPlain, desc.Edges[1].Arrow)
	assert.NotEqual(t, desc.Edges[0].Arrow, desc.Edges[1].Arrow)
}

func TestBuild_ParallelEdgesHaveDistinctKeys(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"tours": {"tour"}, "zones": {"zone"}},
		"",
		rel("tours", "orig", "zones", "zone", datatree.IndexLabel),
		rel("tours", "dest", "zones", "zone", datatree.IndexLabel),
	)

	desc, err := Build(tr)
	require.NoError(t, err)
	require.Len(t, desc.Edges, 2)
	assert.NotEqual(t, desc.Edges[0].Key, desc.Edges[1].Key)
	assert.Equal(t, desc.Edges[0].From, desc.Edges[1].From)
	assert.Equal(t, desc.Edges[0].To, desc.Edges[1].To)
}

func TestBuild_IdenticalRelationshipsStillGetUniqueKeys(t *testing.T) {
	r := rel("a", "x", "b", "y", datatree.IndexLabel)
	e0 := datatree.EdgeRef{From: "a", To: "b", Seq: 0}
	e1 := datatree.EdgeRef{From: "a", To: "b", Seq: 1}
	g := &fakeGraph{
		nodes: []string{"a", "b"},
		edges: []datatree.EdgeRef{e0, e1},
		rels:  map[datatree.EdgeRef]datatree.Relationship{e0: r, e1: r},
		subspaces: map[string]datatree.Subspace{
			"a": {Dims: []string{"i"}},
			"b": {Dims: []string{"y"}},
		},
	}

	desc, err := Build(g)
	require.NoError(t, err)
	assert.Equal(t, "a.x @ b.y", desc.Edges[0].Key)
	assert.Equal(t, "a.x @ b.y#2", desc.Edges[1].Key)

	a, _ := desc.Node("a")
	assert.Equal(t, []string{"x"}, a.Vars, "a variable used twice is listed once")
}

func TestBuild_RootAppearsOnceAndFirst(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"persons": {"PERID"}, "households": {"HHID"}, "tours": {"TOURID"}},
		"",
		rel("tours", "person_id", "persons", "PERID", datatree.IndexLabel),
		rel("persons", "household_id", "households", "HHID", datatree.IndexLabel),
	)
	require.NoError(t, tr.SetRoot("persons"))

	desc, err := Build(tr)
	require.NoError(t, err)

	count := 0
	for _, n := range desc.Nodes {
		if n.ID == "persons" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "persons", desc.Nodes[0].ID)
	assert.Len(t, desc.Nodes, 3)
}

func TestBuild_RootSeededEvenIfNotListed(t *testing.T) {
	g := &fakeGraph{
		nodes: []string{"a"},
		root:  "r",
		subspaces: map[string]datatree.Subspace{
			"a": {Dims: []string{"i"}},
			"r": {Dims: []string{"j"}},
		},
	}
	desc, err := Build(g)
	require.NoError(t, err)
	require.Len(t, desc.Nodes, 2)
	assert.Equal(t, "r", desc.Nodes[0].ID)
}

func TestBuild_SelfLoop(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"A": {"id"}},
		"",
		rel("A", "parent_id", "A", "id", datatree.IndexPosition),
	)

	desc, err := Build(tr)
	require.NoError(t, err)
	require.Len(t, desc.Edges, 1)
	e := desc.Edges[0]
	assert.Equal(t, "A", e.From)
	assert.Equal(t, "A", e.To)
	assert.Equal(t, "var:parent_id", e.FromPort)
	assert.Equal(t, "dim:id", e.ToPort)
	assert.Len(t, desc.Nodes, 1)
}

func TestBuild_DedupesDimsKeepingOrder(t *testing.T) {
	tr := mustTree(t, map[string][]string{"A": {"z", "a", "z", "m", "a"}}, "A")

	desc, err := Build(tr)
	require.NoError(t, err)
	a, _ := desc.Node("A")
	assert.Equal(t, []string{"z", "a", "m"}, a.Dims)
}

func TestBuild_VarsAreSorted(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"trips": {"trip"}, "zones": {"zone"}, "persons": {"pid"}},
		"",
		rel("trips", "zone_b", "zones", "zone", datatree.IndexLabel),
		rel("trips", "person", "persons", "pid", datatree.IndexLabel),
		rel("trips", "zone_a", "zones", "zone", datatree.IndexLabel),
	)

	desc, err := Build(tr)
	require.NoError(t, err)
	trips, _ := desc.Node("trips")
	assert.Equal(t, []string{"person", "zone_a", "zone_b"}, trips.Vars)
}

func TestBuild_EndpointNotListedAsNodeIsAdded(t *testing.T) {
	ref := datatree.EdgeRef{From: "a", To: "b"}
	g := &fakeGraph{
		nodes: []string{"a"},
		edges: []datatree.EdgeRef{ref},
		rels:  map[datatree.EdgeRef]datatree.Relationship{ref: rel("a", "x", "b", "y", datatree.IndexLabel)},
		subspaces: map[string]datatree.Subspace{
			"a": {Dims: []string{"i"}},
			"b": {Dims: []string{"y"}},
		},
	}
	desc, err := Build(g)
	require.NoError(t, err)
	require.Len(t, desc.Nodes, 2)
	assert.Equal(t, "b", desc.Nodes[1].ID)
}

func TestBuild_UnjoinedSubspaceNotRendered(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"A": {"id"}, "B": {"bid"}, "unused": {"u"}},
		"",
		rel("A", "idvar", "B", "bid", datatree.IndexLabel),
	)
	desc, err := Build(tr)
	require.NoError(t, err)
	_, ok := desc.Node("unused")
	assert.False(t, ok)
}

func TestBuild_MissingChildSubspace(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"A": {"id"}},
		"",
		rel("A", "idvar", "B", "bid", datatree.IndexLabel),
	)

	desc, err := Build(tr)
	require.Error(t, err)
	assert.Nil(t, desc)
	assert.True(t, errors.Is(err, ErrMissingNode))

	var mn *MissingNodeError
	require.True(t, errors.As(err, &mn))
	assert.Equal(t, "B", mn.Node)
	assert.Equal(t, apperrors.ErrCodeMissingNode, apperrors.GetCode(err))
}

func TestBuild_MissingSubspaceForEdgeEndpoint(t *testing.T) {
	ref := datatree.EdgeRef{From: "a", To: "b"}
	g := &fakeGraph{
		nodes:     []string{},
		edges:     []datatree.EdgeRef{ref},
		rels:      map[datatree.EdgeRef]datatree.Relationship{ref: rel("a", "x", "b", "y", datatree.IndexLabel)},
		subspaces: map[string]datatree.Subspace{"b": {Dims: []string{"y"}}},
	}
	_, err := Build(g)

	var mn *MissingNodeError
	require.True(t, errors.As(err, &mn))
	assert.Equal(t, "a", mn.Node)
	assert.Equal(t, "a.x @ b.y", mn.Edge)
	assert.Contains(t, err.Error(), "a.x @ b.y")
}

func TestBuild_MissingRelationship(t *testing.T) {
	ref := datatree.EdgeRef{From: "a", To: "b", Seq: 3}
	g := &fakeGraph{
		nodes: []string{"a", "b"},
		edges: []datatree.EdgeRef{ref},
		rels:  map[datatree.EdgeRef]datatree.Relationship{},
		subspaces: map[string]datatree.Subspace{
			"a": {Dims: []string{"i"}},
			"b": {Dims: []string{"y"}},
		},
	}
	desc, err := Build(g)
	assert.Nil(t, desc)
	assert.ErrorIs(t, err, ErrMissingRelationship)
	assert.Contains(t, err.Error(), ref.String())
	assert.Equal(t, apperrors.ErrCodeMissingRelationship, apperrors.GetCode(err))
}

func TestBuild_UnsupportedIndexing(t *testing.T) {
	tr := mustTree(t,
		map[string][]string{"a": {"i"}, "b": {"y"}},
		"",
		rel("a", "x", "b", "y", "fuzzy"),
	)
	desc, err := Build(tr)
	assert.Nil(t, desc)
	assert.ErrorIs(t, err, ErrUnsupportedIndexing)

	var ui *UnsupportedIndexingError
	require.True(t, errors.As(err, &ui))
	assert.Equal(t, datatree.Indexing("fuzzy"), ui.Indexing)
	assert.Equal(t, apperrors.ErrCodeUnsupportedIndexing, apperrors.GetCode(fmt.Errorf("render: %w", err)))
}

func TestBuild_MissingNodeListedInGraph(t *testing.T) {
	g := &fakeGraph{nodes: []string{"lonely"}, subspaces: map[string]datatree.Subspace{}}
	_, err := Build(g)
	var mn *MissingNodeError
	require.True(t, errors.As(err, &mn))
	assert.Equal(t, "lonely", mn.Node)
	assert.Empty(t, mn.Edge)
}
