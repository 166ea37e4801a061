package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/diagram"
	pkgio "github.com/matzehuels/treeviz/pkg/io"
)

// describeCommand creates the describe command.
func (c *CLI) describeCommand() *cobra.Command {
	var asJSON, interactive bool

	cmd := &cobra.Command{
		Use:   "describe <file>",
		Short: "Show the diagram description of a data tree",
		Long: `Show the nodes, ports and edges the diagram of a data tree is made of.

By default prints a node table and an edge table. --json writes the
renderer-agnostic description as JSON and --interactive opens a browser for
stepping through datasets and their relationships.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && interactive {
				return fmt.Errorf("--json and --interactive are mutually exclusive")
			}
			return c.runDescribe(cmd.Context(), args[0], asJSON, interactive)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write the description as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse datasets interactively")

	return cmd
}

func (c *CLI) runDescribe(ctx context.Context, input string, asJSON, interactive bool) error {
	tree, err := loadTree(ctx, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	desc, err := runner.Describe(ctx, tree)
	if err != nil {
		return err
	}

	switch {
	case asJSON:
		return pkgio.WriteDescription(desc, out)
	case interactive:
		_, err := tea.NewProgram(newDatasetBrowser(desc), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}

	fmt.Fprintln(out, StyleTitle.Render("Datasets"))
	fmt.Fprintln(out, nodesTable(desc))
	printNewline()
	fmt.Fprintln(out, StyleTitle.Render("Relationships"))
	fmt.Fprintln(out, edgesTable(desc))
	printStats(desc.NodeCount(), desc.EdgeCount(), statusNone)
	return nil
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return base.Foreground(colorCyan)
			}
			return base
		})
}

// nodesTable renders one row per dataset: layout, dimensions and variables.
func nodesTable(desc *diagram.Description) string {
	t := newTable("Dataset", "Layout", "Dimensions", "Variables")
	for _, n := range desc.Nodes {
		t.Row(n.ID, n.Label.Layout.String(), joinOrDash(n.Dims), joinOrDash(n.Vars))
	}
	return t.Render()
}

// edgesTable renders one row per edge with its ports and indexing mode.
func edgesTable(desc *diagram.Description) string {
	t := newTable("Parent", "Variable", "Child", "Dimension", "Indexing")
	for _, e := range desc.Edges {
		_, from := diagram.SplitPort(e.FromPort)
		_, to := diagram.SplitPort(e.ToPort)
		t.Row(e.From, from, e.To, to, indexingName(e.Arrow))
	}
	return t.Render()
}

func indexingName(a diagram.ArrowStyle) string {
	switch a {
	case diagram.ArrowHollowDiamond:
		return "label"
	case diagram.ArrowPlain:
		return "position"
	default:
		return string(a)
	}
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
