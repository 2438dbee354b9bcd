package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hwmon-tools/logviz/pkg/chart"
	"github.com/hwmon-tools/logviz/pkg/config"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
	"github.com/hwmon-tools/logviz/pkg/render"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// RenderOptions holds command-line options for the render command.
type RenderOptions struct {
	Config     string
	Output     string
	Format     string
	Separator  string
	Encoding   string
	TimeColumn string
	Title      string
	Hide       []string
	Strict     bool
	Verbose    bool
	Quiet      bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <log-file>",
		Short: "Render a log file as an interactive chart",
		Long: `Parse a hardware-monitoring log and write an interactive HTML chart.

Channels are grouped into panels by the built-in rules plus any user rules
from the grouping config. Traces marked hidden stay toggleable via the
chart legend.

Exit codes:
  0 - Chart written
  1 - Chart written, but parse warnings occurred (--strict only)
  2 - Format or configuration error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Grouping config file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: <log-file>.html)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "html", "Output format (html)")
	cmd.Flags().StringVarP(&opts.Separator, "separator", "s", "", "Field separator character")
	cmd.Flags().StringVarP(&opts.Encoding, "encoding", "e", "", "Input encoding (e.g. latin-1, utf-8)")
	cmd.Flags().StringVar(&opts.TimeColumn, "time-column", "", "Name of the timestamp column")
	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Chart title")
	cmd.Flags().StringSliceVar(&opts.Hide, "hide", nil, "Channel or group to start hidden (can be repeated, globs allowed)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit 1 when parse warnings occur")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Print a per-panel breakdown")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress the warning summary")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, opts *RenderOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, opts)

	renderer, err := createRenderer(opts.Format)
	if err != nil {
		return err
	}

	// Parse
	result, err := hwlog.ParseFile(ctx, logFile, cfg.ParserOptions())
	if err != nil {
		return fmt.Errorf("parsing %s: %w", logFile, err)
	}

	// Group
	matcher, err := cfg.Matcher()
	if err != nil {
		return err
	}
	asg := matcher.Assign(result.Store.Names())

	// Build
	title := cfg.Chart.Title
	if opts.Title != "" {
		title = opts.Title
	}
	fig, err := chart.Build(result.Store, asg, chart.Options{
		Title:        title,
		Hidden:       append(append([]string{}, cfg.Hidden...), opts.Hide...),
		HiddenGroups: cfg.HiddenGroups(),
	})
	if err != nil {
		return fmt.Errorf("building chart: %w", err)
	}

	// Render
	outPath := opts.Output
	if outPath == "" {
		outPath = defaultOutputPath(logFile)
	}
	if err := writeArtifact(ctx, renderer, fig, outPath); err != nil {
		return err
	}

	// Warnings don't block success, but silent data loss must be
	// discoverable.
	if !opts.Quiet {
		if summary := result.Warnings.Summary(); summary != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", summary)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d panels, %d channels, %d rows)\n",
		outPath, len(fig.Panels), len(result.Store.Channels), result.Store.Rows())

	if opts.Verbose {
		for _, p := range fig.Panels {
			label := p.Name
			if p.Unit != "" {
				label = fmt.Sprintf("%s [%s]", p.Name, p.Unit)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d trace(s)\n", label, len(p.Traces))
		}
	}

	if opts.Strict && !result.Warnings.Empty() {
		ExitCode = 1
	}

	return nil
}

// loadConfig loads the grouping config, or the defaults when no file was
// given.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides lets command-line flags win over the config file.
func applyFlagOverrides(cfg *config.Config, opts *RenderOptions) {
	if opts.Separator != "" {
		cfg.Input.Separator = opts.Separator
	}
	if opts.Encoding != "" {
		cfg.Input.Encoding = opts.Encoding
	}
	if opts.TimeColumn != "" {
		cfg.Input.TimeColumn = opts.TimeColumn
	}
}

func createRenderer(format string) (render.Renderer, error) {
	switch format {
	case "html":
		return render.NewHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use html)", format)
	}
}

// defaultOutputPath derives the artifact path from the log path.
func defaultOutputPath(logFile string) string {
	base := logFile
	if i := strings.LastIndex(base, "."); i > strings.LastIndexByte(base, os.PathSeparator) {
		base = base[:i]
	}
	return base + ".html"
}

// writeArtifact renders the figure to a file, removing the file again if
// rendering fails so a fatal error leaves no partial output.
func writeArtifact(ctx context.Context, renderer render.Renderer, fig *chart.Figure, path string) error {
	f, err := os.Create(path) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := renderer.Render(ctx, fig, f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("rendering: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}
