package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	output  string // graph JSON path
	name    string // project name override
	timeout string // per-scanner timeout, e.g. "30s"
}

// analyzeCommand creates the analyze command: scan and merge, then write the
// graph as JSON.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{output: graphFile}

	cmd := &cobra.Command{
		Use:   "analyze [root]",
		Short: "Scan a project and write its architecture graph as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, rootArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")
	cmd.Flags().StringVar(&opts.name, "name", "", "project name (default: root directory name)")
	cmd.Flags().StringVar(&opts.timeout, "scan-timeout", "", "per-scanner time limit, e.g. 30s")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, root string, opts analyzeOpts) error {
	if err := errors.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	cfg, err := c.loadConfig(root)
	if err != nil {
		return err
	}
	popts := cfg.PipelineOptions()
	if opts.name != "" {
		popts.ProjectName = opts.name
	}
	if opts.timeout != "" {
		d, err := parseDuration(opts.timeout)
		if err != nil {
			return err
		}
		popts.ScanTimeout = d
	}

	out := newPrinter(cmd.OutOrStdout())
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	g, report, err := runner.Scan(cmd.Context(), root, popts)
	if err != nil {
		return err
	}
	if err := graph.WriteGraphFile(g, opts.output); err != nil {
		return err
	}

	out.success("Analyzed %s", StyleHighlight.Render(g.Metadata.ProjectName))
	out.scanReport(report)
	out.graphSummary(len(g.Nodes), len(g.Edges), len(g.Groups))
	if len(g.Metadata.TechStack) > 0 {
		out.keyValue("Stack", joinMax(g.Metadata.TechStack, 8))
	}
	if g.Metadata.CloudProvider != "" {
		out.keyValue("Provider", string(g.Metadata.CloudProvider))
	}
	if len(g.Metadata.SourceFiles) > 0 {
		out.keyValue("Sources", joinMax(g.Metadata.SourceFiles, 4))
	}
	out.file(opts.output)
	out.nextStep("Render it", appName+" render "+opts.output)
	return nil
}
