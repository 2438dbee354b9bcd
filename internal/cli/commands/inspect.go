package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hwmon-tools/logviz/pkg/config"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
	"github.com/hwmon-tools/logviz/pkg/output"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	Config      string
	Output      string
	Separator   string
	Encoding    string
	TimeColumn  string
	Verbose     bool
	Quiet       bool
	WriteConfig string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <log-file>",
		Short: "List a log's channels and their group assignment",
		Long: `Parse a log file and report its channel catalog, how the grouping rules
route each channel, and any parse warnings, without rendering a chart.

Useful for tuning a grouping config: run inspect, see where channels land,
adjust rules, repeat.

Optionally generates a starter grouping config with --write-config.

Example:
  logviz inspect bench.csv
  logviz inspect -o json bench.csv
  logviz inspect --write-config logviz.yaml bench.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Grouping config file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVarP(&opts.Separator, "separator", "s", "", "Field separator character")
	cmd.Flags().StringVarP(&opts.Encoding, "encoding", "e", "", "Input encoding (e.g. latin-1, utf-8)")
	cmd.Flags().StringVar(&opts.TimeColumn, "time-column", "", "Name of the timestamp column")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-channel detail")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}
	if opts.Separator != "" {
		cfg.Input.Separator = opts.Separator
	}
	if opts.Encoding != "" {
		cfg.Input.Encoding = opts.Encoding
	}
	if opts.TimeColumn != "" {
		cfg.Input.TimeColumn = opts.TimeColumn
	}

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	result, err := hwlog.ParseFile(ctx, logFile, cfg.ParserOptions())
	if err != nil {
		return fmt.Errorf("parsing %s: %w", logFile, err)
	}

	matcher, err := cfg.Matcher()
	if err != nil {
		return err
	}
	asg := matcher.Assign(result.Store.Names())

	report := output.NewReport(result, asg, logFile)
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(opts.WriteConfig, cfg, report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter config to %s\n", opts.WriteConfig)
	}

	return nil
}

func createFormatter(opts *InspectOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// writeStarterConfig writes a grouping config seeded with one exact rule
// per catch-all channel, so users can start from their actual leftovers.
func writeStarterConfig(path string, cfg *config.Config, report *output.Report) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing file %s", path)
	}

	starter := config.Config{Input: cfg.Input}
	for _, g := range report.Groups {
		if g.Name != "Other" {
			continue
		}
		for _, ch := range g.Channels {
			starter.Groups = append(starter.Groups, config.GroupConfig{
				Name:    "Other",
				Pattern: ch,
				Match:   "exact",
			})
		}
	}

	data, err := yaml.Marshal(&starter)
	if err != nil {
		return fmt.Errorf("encoding starter config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing starter config: %w", err)
	}
	return nil
}
