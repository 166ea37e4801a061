package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/errors"
	pkgio "github.com/matzehuels/treeviz/pkg/io"
	"github.com/matzehuels/treeviz/pkg/pipeline"
	"github.com/matzehuels/treeviz/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
// Zero values fall back to the configuration file.
type renderOpts struct {
	output   string   // output file (single format) or base path
	formats  []string // svg, png, pdf, dot, json
	fontName string
	fontSize float64
	rankDir  string
	engine   string
	backend  string
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a data tree as a diagram",
		Long: `Render a data tree document (.json, .toml, .yaml) as a diagram.

Image formats (svg, png, pdf) need Graphviz: the default graphviz backend runs
it in-process, the exec backend runs the dot binary. dot and json write the
DOT source and the diagram description and need no backend.`,
		Example: `  treeviz render survey.yaml
  treeviz render survey.yaml -f svg,png -o out/survey
  treeviz render survey.toml -f pdf --rankdir TB --backend exec`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.fontName, "font", "", "font name (default from config, Arial)")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", 0, "base font size in points (default from config, 12)")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", "", "rank direction: LR, RL, TB, BT (default from config, LR)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: "+strings.Join(render.Engines(), ", "))
	cmd.Flags().StringVar(&opts.backend, "backend", "", "render backend: graphviz, exec")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

// pipelineOptions overlays the flags on the configured defaults.
func (c *CLI) pipelineOptions(opts *renderOpts) pipeline.Options {
	p := c.pipelineDefaults()
	p.Formats = opts.formats
	p.Refresh = opts.refresh
	if opts.fontName != "" {
		p.FontName = opts.fontName
	}
	if opts.fontSize != 0 {
		p.FontSize = opts.fontSize
	}
	if opts.rankDir != "" {
		p.RankDir = opts.rankDir
	}
	if opts.engine != "" {
		p.Engine = opts.engine
	}
	if opts.backend != "" {
		p.Backend = opts.backend
	}
	return p
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	pOpts := c.pipelineOptions(opts)
	if err := pOpts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.output == "-" && len(pOpts.Formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(pOpts.Formats))
	}

	tree, err := loadTree(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(pOpts.Formats, ", ")+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, tree, pOpts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := out.Write(result.Artifacts[pOpts.Formats[0]])
		return err
	}

	printSuccess("Rendered %s", input)
	status := statusNone
	if len(pOpts.ImageFormats()) > 0 {
		status = renderStatus(result.CacheInfo.RenderHit())
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, status)
	for _, format := range pOpts.Formats {
		path := outputPath(opts.output, input, format, len(pOpts.Formats))
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "path", path, "bytes", len(result.Artifacts[format]))
		printFile(path)
	}
	return nil
}

// loadTree imports a data tree document and logs its size.
func loadTree(ctx context.Context, path string) (*datatree.Tree, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	sw := startStopwatch(loggerFromContext(ctx))
	tree, err := pkgio.ImportTree(path)
	if err != nil {
		return nil, err
	}
	sw.lap("loaded tree", "path", path, "datasets", tree.NodeCount(), "relationships", tree.EdgeCount())
	return tree, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath is output itself for a single format, else base.format.
func outputPath(output, input, format string, count int) string {
	if count == 1 && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
