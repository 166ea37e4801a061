package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette (256-color codes).
var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Text styles shared by the tables, the dataset browser and status lines.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const iconArrow = "→"

// out receives all status output; tests swap it for a buffer.
var out io.Writer = os.Stdout

// marker is the colored glyph leading a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (m marker) println(format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", m.style.Render(m.glyph), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { markSuccess.println(format, args...) }
func printError(format string, args ...any)   { markError.println(format, args...) }
func printInfo(format string, args ...any)    { markInfo.println(format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Fprintf(out, "  %s %s\n", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func printNewline() { fmt.Fprintln(out) }

// cacheStatus says where a render result came from.
type cacheStatus int

const (
	statusNone cacheStatus = iota // nothing was rendered
	statusFresh
	statusCached
)

func renderStatus(hit bool) cacheStatus {
	if hit {
		return statusCached
	}
	return statusFresh
}

var statusLabels = map[cacheStatus]string{
	statusFresh:  lipgloss.NewStyle().Foreground(colorGray).Render("fresh"),
	statusCached: lipgloss.NewStyle().Foreground(colorGreen).Render("cached"),
}

// printStats prints "3 datasets · 2 relationships · cached".
func printStats(nodeCount, edgeCount int, status cacheStatus) {
	fmt.Fprintln(out, statsLine(nodeCount, edgeCount, status))
}

func statsLine(nodeCount, edgeCount int, status cacheStatus) string {
	parts := []string{
		StyleDim.Render(plural(nodeCount, "dataset")),
		StyleDim.Render(plural(edgeCount, "relationship")),
	}
	if label, ok := statusLabels[status]; ok {
		parts = append(parts, label)
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
