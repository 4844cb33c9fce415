// Package cli implements the archgraph command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Every
// command that needs a project goes through [pipeline.Runner], so the CLI,
// the HTTP server, and library callers share defaults and caching.
//
// # Commands
//
//   - analyze: scan a project and write the merged graph as JSON
//   - render: scan (or read graph.json) and write the SVG diagram
//   - dot: export the graph as Graphviz DOT or Graphviz-rendered SVG
//   - inspect: browse components interactively
//   - serve: serve live diagrams over HTTP
//   - cache: manage the artifact cache
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/buildinfo"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/config"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "archgraph"

	// graphFile is the default output of analyze and an accepted input of
	// render and dot.
	graphFile = "graph.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	getenv     func(string) string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level, os.Getenv(envLogFormat)),
		getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "archgraph draws architecture diagrams from infrastructure code",
		Long:         `archgraph scans Terraform, Docker Compose, and plugin manifests in a project, merges what it finds into one architecture graph, and renders it as a layered SVG diagram.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to archgraph.toml (default: <root>/archgraph.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Exit codes returned by Execute.
const (
	exitOK        = 0
	exitError     = 1
	exitInterrupt = 130
)

// Execute runs the command line in args against the root command and
// returns the process exit code. Errors are printed to errOut without their
// code prefix; an interrupted run exits with 130 like a shell would.
func (c *CLI) Execute(ctx context.Context, args []string, errOut io.Writer) int {
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case stderrors.Is(err, context.Canceled):
		return exitInterrupt
	}
	c.Logger.Debug("command failed", "code", errors.GetCode(err), "err", err)
	newPrinter(errOut).failure("%s", errors.UserMessage(err))
	return exitError
}

// =============================================================================
// Configuration and Runner Factory
// =============================================================================

// loadConfig resolves archgraph.toml for root and applies environment
// overrides.
func (c *CLI) loadConfig(root string) (config.Config, error) {
	cfg, path, err := config.Resolve(root, c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	if err := cfg.ApplyEnv(c.getenv); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = cfg.CacheTTL()
	return r, nil
}

func newCache(cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	settings := cfg.CacheSettings()
	if settings.Backend == "" || settings.Backend == cache.BackendFile {
		if settings.Dir == "" {
			dir, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			settings.Dir = dir
		}
	}
	return cache.Open(settings)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/archgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// isGraphFile reports whether arg names a serialized graph rather than a
// project directory.
func isGraphFile(arg string) bool {
	if !strings.EqualFold(filepath.Ext(arg), ".json") {
		return false
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

// rootArg returns the project root named by args, defaulting to ".".
func rootArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// loadGraph reads a graph file, or scans and merges a project directory.
func (c *CLI) loadGraph(cmd *cobra.Command, arg string, cfg config.Config) (arch.ArchitectureGraph, error) {
	if isGraphFile(arg) {
		return graph.ReadGraphFile(arg)
	}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	g, _, err := runner.Scan(cmd.Context(), arg, cfg.PipelineOptions())
	return g, err
}

// configRoot returns the directory whose archgraph.toml applies to arg.
func configRoot(arg string) string {
	if isGraphFile(arg) {
		return filepath.Dir(arg)
	}
	return arg
}
