package diagram

import "strings"

// Port naming. A port addresses one cell of a node's label so edges can be
// routed to the exact row of a dimension or variable.
const (
	// HeaderPort is the port of the title cell; renderers may use it as a
	// default edge anchor.
	HeaderPort = "f0"

	dimPrefix = "dim:"
	varPrefix = "var:"
)

// DimPort returns the port of a dimension cell: "dim:<name>".
func DimPort(name string) string { return dimPrefix + name }

// VarPort returns the port of a variable cell: "var:<name>".
func VarPort(name string) string { return varPrefix + name }

// SplitPort separates a port into its kind ("dim", "var") and name.
// The header port returns ("f0", "").
func SplitPort(port string) (kind, name string) {
	if port == HeaderPort {
		return HeaderPort, ""
	}
	kind, name, _ = strings.Cut(port, ":")
	return kind, name
}

// Column captions.
const (
	CaptionDimensions = "DIMENSIONS"
	CaptionVariables  = "VARIABLES"
)

// Layout selects which attribute columns a label shows.
type Layout int

const (
	// LayoutHeaderOnly has the title cell and no attribute rows.
	LayoutHeaderOnly Layout = iota
	// LayoutDims has a single DIMENSIONS column.
	LayoutDims
	// LayoutVars has a single VARIABLES column.
	LayoutVars
	// LayoutPaired has DIMENSIONS on the left and VARIABLES on the right.
	LayoutPaired
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutDims:
		return "dims"
	case LayoutVars:
		return "vars"
	case LayoutPaired:
		return "paired"
	default:
		return "header-only"
	}
}

// Label is the structured content of a node: a title cell followed by
// attribute rows. Serializers turn it into backend markup.
type Label struct {
	Title  string
	Layout Layout
	Rows   []Row
}

// Captions returns the column captions shown under the title, left to right.
func (l Label) Captions() []string {
	switch l.Layout {
	case LayoutPaired:
		return []string{CaptionDimensions, CaptionVariables}
	case LayoutDims:
		return []string{CaptionDimensions}
	case LayoutVars:
		return []string{CaptionVariables}
	default:
		return nil
	}
}

// Columns returns the number of attribute columns (0, 1 or 2).
func (l Label) Columns() int { return len(l.Captions()) }

// Row is one attribute row. Dim is the left cell and Var the right cell;
// either may be empty when the columns have different lengths. Pairing is
// purely positional and carries no meaning.
type Row struct {
	Dim Cell
	Var Cell
}

// Cell is one addressable label cell.
type Cell struct {
	Text string
	Port string
}

// IsEmpty reports whether the cell is a placeholder.
func (c Cell) IsEmpty() bool { return c.Port == "" }

// newLabel lays out dims (left) and vars (right) row by row up to the longer
// of the two, padding the shorter column with empty cells.
func newLabel(title string, dims, vars []string) Label {
	l := Label{Title: title}
	switch {
	case len(dims) > 0 && len(vars) > 0:
		l.Layout = LayoutPaired
	case len(dims) > 0:
		l.Layout = LayoutDims
	case len(vars) > 0:
		l.Layout = LayoutVars
	default:
		return l
	}

	n := max(len(dims), len(vars))
	l.Rows = make([]Row, n)
	for i := range n {
		if i < len(dims) {
			l.Rows[i].Dim = Cell{Text: dims[i], Port: DimPort(dims[i])}
		}
		if i < len(vars) {
			l.Rows[i].Var = Cell{Text: vars[i], Port: VarPort(vars[i])}
		}
	}
	return l
}
