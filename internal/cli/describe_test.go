package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/diagram"
)

func surveyDescription(t *testing.T) *diagram.Description {
	t.Helper()
	tree := datatree.New()
	for name, dims := range map[string][]string{
		"persons":    {"PERID"},
		"households": {"HHID"},
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
		"persons.home_zone -> zones.zone",
	} {
		rel, err := datatree.ParseRelationship(s)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tree.AddRelationship(rel); err != nil {
			t.Fatal(err)
		}
	}
	desc, err := diagram.Build(tree)
	if err != nil {
		t.Fatal(err)
	}
	return desc
}

func TestNodesTable(t *testing.T) {
	out := nodesTable(surveyDescription(t))

	for _, want := range []string{"Dataset", "Layout", "persons", "paired", "PERID", "home_zone, household_id", "households", "dims"} {
		if !strings.Contains(out, want) {
			t.Errorf("nodes table missing %q:\n%s", want, out)
		}
	}
}

func TestEdgesTable(t *testing.T) {
	out := edgesTable(surveyDescription(t))

	for _, want := range []string{"Indexing", "household_id", "HHID", "label", "home_zone", "position"} {
		if !strings.Contains(out, want) {
			t.Errorf("edges table missing %q:\n%s", want, out)
		}
	}
}

func TestJoinOrDash(t *testing.T) {
	if got := joinOrDash(nil); got != "-" {
		t.Errorf("joinOrDash(nil) = %q", got)
	}
	if got := joinOrDash([]string{"a", "b"}); got != "a, b" {
		t.Errorf("joinOrDash = %q", got)
	}
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		nodes, edges int
		status       cacheStatus
		want         []string
		absent       string
	}{
		{3, 2, statusCached, []string{"3 datasets", "2 relationships", "cached"}, "fresh"},
		{1, 1, statusFresh, []string{"1 dataset", "1 relationship", "fresh"}, "cached"},
		{0, 0, statusNone, []string{"0 datasets", "0 relationships"}, "fresh"},
	}

	for _, tt := range tests {
		line := statsLine(tt.nodes, tt.edges, tt.status)
		for _, w := range tt.want {
			if !strings.Contains(line, w) {
				t.Errorf("statsLine(%d, %d, %d) = %q, missing %q", tt.nodes, tt.edges, tt.status, line, w)
			}
		}
		if strings.Contains(line, tt.absent) {
			t.Errorf("statsLine(%d, %d, %d) = %q, should not contain %q", tt.nodes, tt.edges, tt.status, line, tt.absent)
		}
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDatasetBrowser_Navigation(t *testing.T) {
	var m tea.Model = newDatasetBrowser(surveyDescription(t))

	m, _ = m.Update(key("j"))
	if got := m.(DatasetBrowser).Cursor; got != 1 {
		t.Errorf("after j cursor = %d, want 1", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(key("j"))
	if got := m.(DatasetBrowser).Cursor; got != 2 {
		t.Errorf("cursor should stop at the last dataset, got %d", got)
	}
	m, _ = m.Update(key("g"))
	if got := m.(DatasetBrowser).Cursor; got != 0 {
		t.Errorf("after g cursor = %d, want 0", got)
	}
	m, _ = m.Update(key("k"))
	if got := m.(DatasetBrowser).Cursor; got != 0 {
		t.Errorf("cursor should not go above 0, got %d", got)
	}
	m, _ = m.Update(key("G"))
	if got := m.(DatasetBrowser).Cursor; got != 2 {
		t.Errorf("after G cursor = %d, want 2", got)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestDatasetBrowser_Scrolling(t *testing.T) {
	m := newDatasetBrowser(surveyDescription(t))
	m.Height = 1

	next, _ := m.Update(key("j"))
	b := next.(DatasetBrowser)
	if b.Cursor != 1 || b.Offset != 1 {
		t.Errorf("cursor/offset = %d/%d, want 1/1", b.Cursor, b.Offset)
	}

	next, _ = b.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	if got := next.(DatasetBrowser).Height; got != 24 {
		t.Errorf("height = %d, want 24", got)
	}
}

func TestDatasetBrowser_View(t *testing.T) {
	desc := surveyDescription(t)
	view := newDatasetBrowser(desc).View()

	if !strings.Contains(view, "▸ persons") {
		t.Errorf("root should be selected first:\n%s", view)
	}
	for _, want := range []string{"Indexes", "households.HHID", "zones.zone", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	empty := DatasetBrowser{Height: 10}.View()
	if !strings.Contains(empty, "(empty diagram)") {
		t.Errorf("empty view = %q", empty)
	}
}

func TestDatasetBrowser_DetailIndexedBy(t *testing.T) {
	desc := surveyDescription(t)
	m := newDatasetBrowser(desc)
	hh, ok := desc.Node("households")
	if !ok {
		t.Fatal("households missing")
	}

	out := m.detail(hh)
	if !strings.Contains(out, "Indexed by") || !strings.Contains(out, "persons.household_id") {
		t.Errorf("detail should list incoming relationships:\n%s", out)
	}
	if strings.Contains(out, "Indexes\n") {
		t.Errorf("households has no outgoing relationships:\n%s", out)
	}
}

func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var b strings.Builder
	prev := out
	out = &b
	t.Cleanup(func() { out = prev })
	return &b
}

func TestStatusPrinters(t *testing.T) {
	b := captureOutput(t)

	printSuccess("Rendered %s", "survey.yaml")
	printError("%s is invalid", "bad.json")
	printInfo("Caching is disabled")
	printFile("out/survey.svg")

	got := b.String()
	for _, want := range []string{"✓ Rendered survey.yaml\n", "✗ bad.json is invalid\n", "› Caching is disabled\n", "→ out/survey.svg\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}
