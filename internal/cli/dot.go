package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/render/nodelink"
)

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	output     string // output path; "-" writes to stdout
	svg        bool   // render through Graphviz instead of emitting DOT
	detailed   bool   // add type, service and metadata to labels
	noClusters bool   // ignore logical groups
}

// dotCommand creates the dot command: a Graphviz export of the graph.
func (c *CLI) dotCommand() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot [root|graph.json]",
		Short: "Export the architecture graph as Graphviz DOT (or Graphviz SVG)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd, rootArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default: <name>.dot or <name>.svg)`)
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render with Graphviz to SVG")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include type, service and metadata in labels")
	cmd.Flags().BoolVar(&opts.noClusters, "no-clusters", false, "do not draw logical groups")

	return cmd
}

func (c *CLI) runDot(cmd *cobra.Command, arg string, opts dotOpts) error {
	cfg, err := c.loadConfig(configRoot(arg))
	if err != nil {
		return err
	}
	g, err := c.loadGraph(cmd, arg, cfg)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed, NoClusters: opts.noClusters})
	data := []byte(dot)
	ext := ".dot"
	if opts.svg {
		if data, err = nodelink.RenderSVG(cmd.Context(), dot); err != nil {
			return err
		}
		ext = ".svg"
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	out := opts.output
	if out == "" {
		out = defaultOutput(arg, ext)
		if g.Metadata.ProjectName != "" && !isGraphFile(arg) {
			out = g.Metadata.ProjectName + ext
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	p := newPrinter(cmd.OutOrStdout())
	p.success("Exported %s", plural(len(g.Nodes), "component"))
	p.file(out)
	return nil
}
