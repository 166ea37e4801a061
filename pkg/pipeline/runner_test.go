package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/render"
)

type fakeBackend struct {
	mu       sync.Mutex
	availErr error
	probed   []string
	renders  []string
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Available(_ context.Context, formats ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probed = append(b.probed, formats...)
	return b.availErr
}

func (b *fakeBackend) Render(_ context.Context, dot []byte, format string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renders = append(b.renders, format)
	return []byte(fmt.Sprintf("%s:%d", format, len(dot))), nil
}

func surveyTree(t *testing.T) *datatree.Tree {
	t.Helper()
	tree := datatree.New()
	for name, dims := range map[string][]string{
		"households": {"HHID"},
		"persons":    {"PERID"},
		"zones":      {"zone"},
	} {
		if err := tree.AddSubspace(name, dims...); err != nil {
			t.Fatal(err)
		}
	}
	if err := tree.SetRoot("persons"); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		"persons.household_id @ households.HHID",
		"households.home_zone -> zones.zone",
	} {
		rel, err := datatree.ParseRelationship(s)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tree.AddRelationship(rel); err != nil {
			t.Fatal(err)
		}
	}
	return tree
}

func newTestRunner(t *testing.T, backend render.Backend) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	r.Backend = backend
	return r
}

func TestExecute(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRunner(t, backend)

	result, err := r.Execute(context.Background(), surveyTree(t), Options{
		Formats: []string{"svg", "dot", "json"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if !strings.HasPrefix(result.DOT, "digraph G {") {
		t.Errorf("DOT should start with the graph header, got %q", result.DOT[:min(20, len(result.DOT))])
	}
	if got := string(result.Artifacts["dot"]); got != result.DOT {
		t.Error("dot artifact should be the DOT document")
	}
	if got, want := string(result.Artifacts["svg"]), fmt.Sprintf("svg:%d", len(result.DOT)); got != want {
		t.Errorf("svg artifact = %q, want %q", got, want)
	}

	var desc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(result.Artifacts["json"], &desc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(desc.Nodes) != 3 || desc.Nodes[0].ID != "persons" {
		t.Errorf("json nodes = %+v", desc.Nodes)
	}

	if len(backend.probed) != 1 || backend.probed[0] != "svg" {
		t.Errorf("probed = %v, want [svg]", backend.probed)
	}
	if len(result.CacheInfo.Misses) != 1 || len(result.CacheInfo.Hits) != 0 {
		t.Errorf("cache info = %+v", result.CacheInfo)
	}
}

func TestExecute_BackendProbedFirst(t *testing.T) {
	backend := &fakeBackend{availErr: fmt.Errorf("%w: dot not installed", render.ErrBackendUnavailable)}
	r := newTestRunner(t, backend)

	// The child subspace is missing, so building would fail with MISSING_NODE.
	tree := datatree.New()
	_ = tree.AddSubspace("persons", "PERID")
	rel, _ := datatree.ParseRelationship("persons.household_id @ households.HHID")
	_, _ = tree.AddRelationship(rel)

	_, err := r.Execute(context.Background(), tree, Options{Formats: []string{"png"}})
	if !errors.Is(err, errors.ErrCodeBackendUnavailable) {
		t.Fatalf("error = %v, want backend unavailable", err)
	}
	if len(backend.renders) != 0 {
		t.Error("nothing should be rendered when the backend is unavailable")
	}
}

func TestExecute_NoImageFormatsSkipsBackend(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	result, err := r.Execute(context.Background(), surveyTree(t), Options{
		Formats: []string{"dot", "json"},
		Backend: "no-such-backend",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(result.Artifacts))
	}
}

func TestExecute_MissingNode(t *testing.T) {
	r := newTestRunner(t, &fakeBackend{})

	tree := datatree.New()
	_ = tree.AddSubspace("persons", "PERID")
	rel, _ := datatree.ParseRelationship("persons.household_id @ households.HHID")
	_, _ = tree.AddRelationship(rel)

	_, err := r.Execute(context.Background(), tree, Options{Formats: []string{"svg"}})
	if !errors.Is(err, errors.ErrCodeMissingNode) {
		t.Fatalf("error = %v, want MISSING_NODE", err)
	}
}

func TestExecute_InvalidOptions(t *testing.T) {
	r := newTestRunner(t, &fakeBackend{})
	_, err := r.Execute(context.Background(), surveyTree(t), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestExecute_Cache(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRunner(t, backend)
	ctx := context.Background()
	tree := surveyTree(t)
	opts := Options{Formats: []string{"svg", "pdf"}}

	first, err := r.Execute(ctx, tree, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit() {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, tree, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit() {
		t.Errorf("second run should hit, got %+v", second.CacheInfo)
	}
	if string(second.Artifacts["pdf"]) != string(first.Artifacts["pdf"]) {
		t.Error("cached artifact differs from rendered one")
	}
	if len(backend.renders) != 2 {
		t.Errorf("renders = %v, want 2", backend.renders)
	}

	// A different font changes the DOT and so the key.
	if _, err := r.Execute(ctx, tree, Options{Formats: []string{"svg"}, FontSize: 9}); err != nil {
		t.Fatal(err)
	}
	if len(backend.renders) != 3 {
		t.Errorf("renders = %v, want 3", backend.renders)
	}

	refreshed, err := r.Execute(ctx, tree, Options{Formats: []string{"svg", "pdf"}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(refreshed.CacheInfo.Hits) != 0 || len(backend.renders) != 5 {
		t.Errorf("refresh should re-render, hits %v renders %v", refreshed.CacheInfo.Hits, backend.renders)
	}
}

func TestExecute_Cancelled(t *testing.T) {
	r := newTestRunner(t, &fakeBackend{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Execute(ctx, surveyTree(t), Options{Formats: []string{"svg"}}); err == nil {
		t.Fatal("cancelled context should fail")
	}
}

func TestDescribeJSON(t *testing.T) {
	r := newTestRunner(t, nil)
	ctx := context.Background()
	tree := surveyTree(t)

	data, hit, err := r.DescribeJSON(ctx, tree, false)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first call should miss")
	}
	again, hit, err := r.DescribeJSON(ctx, tree, false)
	if err != nil {
		t.Fatal(err)
	}
	if !hit || string(again) != string(data) {
		t.Error("second call should return the cached description")
	}
	if _, hit, _ := r.DescribeJSON(ctx, tree, true); hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestGraphHash(t *testing.T) {
	a := GraphHash(surveyTree(t))
	if a != GraphHash(surveyTree(t)) {
		t.Error("hash should be stable for equal graphs")
	}

	other := surveyTree(t)
	_ = other.AddSubspace("zones", "zone", "period")
	if a == GraphHash(other) {
		t.Error("changing dims should change the hash")
	}
}
