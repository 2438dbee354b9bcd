package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hwmon-tools/logviz/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a grouping config file",
		Long: `Validate a logviz grouping configuration file without rendering.

Checks:
  - YAML syntax
  - Separator and encoding settings
  - Rule pattern validity (glob and regex compilation)
  - Required rule fields (group name, pattern)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nConfiguration valid!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  User rules:  %d\n", len(cfg.Groups))
	fmt.Fprintf(cmd.OutOrStdout(), "  Hidden:      %d pattern(s)\n", len(cfg.Hidden))
	if cfg.Input.Separator != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Separator:   %q\n", cfg.Input.Separator)
	}
	if cfg.Input.Encoding != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Encoding:    %s\n", cfg.Input.Encoding)
	}

	return nil
}
