// Package cli provides the command-line interface for logviz.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwmon-tools/logviz/internal/cli/commands"
	"github.com/hwmon-tools/logviz/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	// Check if the first argument might be a plugin command
	if len(os.Args) > 1 {
		potentialCommand := os.Args[1]
		// Skip flags (start with -)
		if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
			if !isBuiltinCommand(rootCmd, potentialCommand) {
				if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
					return plugins.Execute(pluginPath, os.Args[2:])
				}
				// Plugin not found - fall through to Cobra which will show error
			}
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if len(os.Args) > 1 {
			potentialCommand := os.Args[1]
			if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
				if !isBuiltinCommand(rootCmd, potentialCommand) {
					_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(potentialCommand))
					return 2
				}
			}
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Format or configuration error
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logviz",
		Short: "Turn hardware-monitoring logs into interactive charts",
		Long: `logviz reads a hardware-monitoring export (HWiNFO-style delimited log)
and produces an interactive HTML chart: related channels are grouped into
panels, individual traces can be toggled, and the time axis can be zoomed.

Channels are routed to panels by built-in rules (temperatures, voltages,
power, fans, core clocks, ...) which you can extend or override with a
YAML grouping config.

PLUGINS:
  logviz supports plugins for extended functionality. Plugins are standalone
  binaries named logviz-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the logviz binary
    2. ~/.logviz/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
