package nodelink

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/treeviz/pkg/diagram"
	"github.com/matzehuels/treeviz/pkg/errors"
)

// Defaults applied by [Options.WithDefaults].
const (
	DefaultFontName = "Arial"
	DefaultFontSize = 12.0
	DefaultRankDir  = "LR"
)

// Cell colors.
const (
	headerColor  = "gray80"
	cellColor    = "gray95"
	captionColor = "#999999"
	captionScale = 0.7
)

var rankDirs = []string{"LR", "RL", "TB", "BT"}

// Options configures DOT generation.
type Options struct {
	FontName string  // graph and node font (default Arial)
	FontSize float64 // base point size (default 12); captions use 70% of it
	RankDir  string  // LR, RL, TB or BT (default LR)
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.FontName == "" {
		o.FontName = DefaultFontName
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.RankDir == "" {
		o.RankDir = DefaultRankDir
	}
	o.RankDir = strings.ToUpper(o.RankDir)
	return o
}

// Validate rejects unusable option values. Zero values are valid.
func (o Options) Validate() error {
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", o.FontSize)
	}
	if o.RankDir != "" && !slices.Contains(rankDirs, strings.ToUpper(o.RankDir)) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid rank direction %q (use %s)", o.RankDir, strings.Join(rankDirs, ", "))
	}
	return nil
}

// ToDOT serializes a diagram description to Graphviz DOT.
//
// Every node becomes a plaintext node whose HTML-like label is a table: a
// bold title cell on gray80, a row of muted column captions, then one row per
// attribute with each dimension and variable in its own addressable cell.
// Edges connect the parent's variable cell to the child's dimension cell and
// end in a hollow diamond for label indexing or a normal arrowhead for
// position indexing.
//
// The output is deterministic for a given description and options.
func ToDOT(desc *diagram.Description, opts Options) string {
	opts = opts.WithDefaults()
	font := dotQuote(opts.FontName)
	size := formatSize(opts.FontSize)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [rankdir=%s, fontname=%s, fontsize=%s];\n", opts.RankDir, font, size)
	fmt.Fprintf(&buf, "  node [fontname=%s, fontsize=%s];\n", font, size)
	buf.WriteString("\n")

	small := fmt.Sprintf("%.1f", opts.FontSize*captionScale)
	for _, n := range desc.Nodes {
		fmt.Fprintf(&buf, "  %s [shape=%s, fontname=%s, fontsize=%s, label=<\n", dotQuote(n.ID), n.Shape(), font, size)
		writeTable(&buf, n.Label, small)
		buf.WriteString("  >];\n")
	}

	if len(desc.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range desc.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [id=%s, tailport=%s, headport=%s, dir=%s, arrowhead=%s];\n",
			dotQuote(e.From), dotQuote(e.To), dotQuote(e.Key),
			dotQuote(PortID(e.FromPort)), dotQuote(PortID(e.ToPort)),
			e.Dir, arrowhead(e.Arrow))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeTable(buf *bytes.Buffer, l diagram.Label, small string) {
	buf.WriteString(`    <TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">` + "\n")
	fmt.Fprintf(buf, `    <TR><TD PORT="%s" COLSPAN="%d" BGCOLOR="%s"><B>%s</B></TD></TR>`+"\n",
		PortID(diagram.HeaderPort), max(l.Columns(), 1), headerColor, html.EscapeString(l.Title))

	captions := l.Captions()
	if len(captions) > 0 {
		buf.WriteString("    <TR>")
		for i, c := range captions {
			fmt.Fprintf(buf, `<TD SIDES="%s"><FONT COLOR="%s" POINT-SIZE="%s">%s</FONT></TD>`,
				captionSides(i, len(captions)), captionColor, small, c)
		}
		buf.WriteString("</TR>\n")
	}

	for _, r := range l.Rows {
		buf.WriteString("    <TR>")
		switch l.Layout {
		case diagram.LayoutPaired:
			writeCell(buf, r.Dim)
			writeCell(buf, r.Var)
		case diagram.LayoutDims:
			writeCell(buf, r.Dim)
		case diagram.LayoutVars:
			writeCell(buf, r.Var)
		}
		buf.WriteString("</TR>\n")
	}
	buf.WriteString("    </TABLE>\n")
}

func writeCell(buf *bytes.Buffer, c diagram.Cell) {
	if c.IsEmpty() {
		buf.WriteString(`<TD BORDER="0"></TD>`)
		return
	}
	fmt.Fprintf(buf, `<TD PORT="%s" BGCOLOR="%s">%s</TD>`, PortID(c.Port), cellColor, html.EscapeString(c.Text))
}

func captionSides(i, n int) string {
	switch {
	case n == 1:
		return "LR"
	case i == 0:
		return "L"
	default:
		return "R"
	}
}

func arrowhead(a diagram.ArrowStyle) string {
	if a == diagram.ArrowHollowDiamond {
		return "odiamond"
	}
	return "normal"
}

// PortID maps a logical port ("f0", "dim:<name>", "var:<name>") to a
// Graphviz port id. Graphviz reads ':' in a port reference as the compass
// separator, so names are escaped: ASCII letters and digits pass through and
// every other byte, '_' included, becomes _XX (uppercase hex). The mapping is
// injective.
//
//	dim:zone_id  -> dim_zone_5Fid
//	var:a.b      -> var_a_2Eb
func PortID(port string) string {
	if port == diagram.HeaderPort {
		return port
	}
	kind, name := diagram.SplitPort(port)
	switch kind {
	case "dim", "var":
		return kind + "_" + escapePort(name)
	default:
		return "x_" + escapePort(port)
	}
}

func escapePort(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "_%02X", c)
	}
	return b.String()
}

// dotQuote returns s as a DOT double-quoted string.
func dotQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func formatSize(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
