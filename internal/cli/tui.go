package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/treeviz/pkg/diagram"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DatasetBrowser - Interactive description browser
// =============================================================================

// DatasetBrowser is the bubbletea model behind describe --interactive. The
// left pane lists datasets; the right pane shows the selected dataset's
// label rows and the relationships entering and leaving it.
type DatasetBrowser struct {
	Nodes  []*diagram.Node
	Edges  []diagram.Edge
	Cursor int
	Height int
	Offset int
}

func newDatasetBrowser(desc *diagram.Description) DatasetBrowser {
	return DatasetBrowser{
		Nodes:  desc.Nodes,
		Edges:  desc.Edges,
		Height: 15,
	}
}

func (m DatasetBrowser) Init() tea.Cmd {
	return nil
}

func (m DatasetBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Nodes); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m DatasetBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Datasets"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (empty diagram)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	var list strings.Builder
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		line := fmt.Sprintf("  %s", n.ID)
		style := listNormalStyle
		if i == m.Cursor {
			line = fmt.Sprintf("▸ %s", n.ID)
			style = listSelectedStyle
		}
		list.WriteString(style.Render(line))
		list.WriteString("\n")
	}

	detail := m.detail(m.Nodes[m.Cursor])
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(28).Render(list.String()),
		detail))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

// detail renders the label of n as a table followed by its relationships.
func (m DatasetBrowser) detail(n *diagram.Node) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.ID))
	b.WriteString(listDimStyle.Render("  " + n.Label.Layout.String()))
	b.WriteString("\n")

	if captions := n.Label.Captions(); len(captions) > 0 {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers(captions...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return tableHeaderStyle
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		for _, r := range n.Label.Rows {
			switch n.Label.Layout {
			case diagram.LayoutPaired:
				t.Row(r.Dim.Text, r.Var.Text)
			case diagram.LayoutDims:
				t.Row(r.Dim.Text)
			case diagram.LayoutVars:
				t.Row(r.Var.Text)
			}
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	var in, out []string
	for _, e := range m.Edges {
		_, from := diagram.SplitPort(e.FromPort)
		_, to := diagram.SplitPort(e.ToPort)
		if e.From == n.ID {
			out = append(out, fmt.Sprintf("%s %s %s.%s (%s)", from, iconArrow, e.To, to, indexingName(e.Arrow)))
		}
		if e.To == n.ID {
			in = append(in, fmt.Sprintf("%s.%s %s %s (%s)", e.From, from, iconArrow, to, indexingName(e.Arrow)))
		}
	}
	writeEdgeList(&b, "Indexes", out)
	writeEdgeList(&b, "Indexed by", in)
	return b.String()
}

func writeEdgeList(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(title))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString("  " + l + "\n")
	}
}
