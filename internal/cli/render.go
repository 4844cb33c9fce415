package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/render"
	"github.com/matzehuels/archgraph/pkg/scan"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file; the extension picks svg, png or pdf
	layoutOut string  // optional layout JSON path
	name      string  // project name override
	noAnimate bool    // drop the flow markers
	width     float64 // SVG width attribute
	height    float64 // SVG height attribute
	padding   float64 // canvas padding
	scale     float64 // PNG scale factor
	noCache   bool    // bypass the artifact cache
}

// renderCommand creates the render command for generating diagrams.
// The argument is a project directory or a graph.json written by analyze.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{output: "architecture.svg"}

	cmd := &cobra.Command{
		Use:   "render [root|graph.json]",
		Short: "Render an architecture diagram to SVG, PNG or PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, rootArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (.svg, .png or .pdf)")
	cmd.Flags().StringVar(&opts.layoutOut, "layout-out", "", "also write the computed layout as JSON")
	cmd.Flags().StringVar(&opts.name, "name", "", "project name (default: root directory name)")
	cmd.Flags().BoolVar(&opts.noAnimate, "no-animate", false, "disable flow animation")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "SVG width (default 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "SVG height (default 600)")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "canvas padding (default 40)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default 1)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, arg string, opts renderOpts) error {
	if err := errors.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	cfg, err := c.loadConfig(configRoot(arg))
	if err != nil {
		return err
	}
	popts := cfg.PipelineOptions()
	applyRenderFlags(&popts, opts)

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx := cmd.Context()
	out := newPrinter(cmd.OutOrStdout())
	status := startSpinner(ctx, cmd.ErrOrStderr(), "Scanning "+arg)
	defer status.Stop()

	var (
		g      arch.ArchitectureGraph
		report scan.Report
	)
	scanStart := time.Now()
	if isGraphFile(arg) {
		status.Update("Reading " + arg)
		g, err = graph.ReadGraphFile(arg)
	} else {
		g, report, err = runner.Scan(ctx, arg, popts)
	}
	if err != nil {
		return err
	}
	scanTime := time.Since(scanStart)

	status.Update(fmt.Sprintf("Laying out %s", plural(len(g.Nodes), "component")))
	res, err := runner.ExecuteGraph(ctx, g, popts)
	if err != nil {
		return err
	}
	status.Stop()
	if !isGraphFile(arg) {
		res.Scan = report
		res.Stats.ScanTime = scanTime
	}

	format := string(render.FormatFromPath(opts.output))
	if err := os.WriteFile(opts.output, res.Artifacts[format], 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	if opts.layoutOut != "" {
		if err := graph.WriteLayoutFile(res.Layout, opts.layoutOut); err != nil {
			return err
		}
	}

	out.success("Rendered %s", StyleHighlight.Render(res.Graph.Metadata.ProjectName))
	out.scanReport(res.Scan)
	out.graphSummary(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.GroupCount)
	out.stageTimes(res.Stats, res.CacheInfo)
	out.file(opts.output)
	if opts.layoutOut != "" {
		out.file(opts.layoutOut)
	}
	return nil
}

// applyRenderFlags overrides config values with explicitly set flags.
func applyRenderFlags(popts *pipeline.Options, opts renderOpts) {
	if opts.name != "" {
		popts.ProjectName = opts.name
	}
	if opts.noAnimate {
		popts.Animate = pipeline.Bool(false)
	}
	if opts.width > 0 {
		popts.Width = opts.width
	}
	if opts.height > 0 {
		popts.Height = opts.height
	}
	if opts.padding > 0 {
		popts.Padding = opts.padding
	}
	if opts.scale > 0 {
		popts.Scale = opts.scale
	}
	if f := string(render.FormatFromPath(opts.output)); f != pipeline.FormatSVG {
		popts.Formats = []string{pipeline.FormatSVG, f}
	}
	popts.Refresh = opts.noCache
}

// parseDuration parses a Go duration flag value.
func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid duration %q", s)
	}
	return d, nil
}

// joinMax joins at most n items, summarizing the rest.
func joinMax(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(items[:n], ", "), len(items)-n)
}

// defaultOutput derives "<base>.<ext>" next to a graph file or inside cwd.
func defaultOutput(arg, ext string) string {
	base := filepath.Base(arg)
	if isGraphFile(arg) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "architecture"
	}
	return base + ext
}
