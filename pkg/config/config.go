package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/hwmon-tools/logviz/pkg/grouping"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and compiles rule patterns.
// Grouping rule problems are reported as RuleErrors naming the offending
// rule by index and group name.
func Validate(cfg *Config) error {
	if err := validateInput(&cfg.Input); err != nil {
		return fmt.Errorf("input: %w", err)
	}

	for i, g := range cfg.Groups {
		rule := grouping.Rule{
			Pattern:   g.Pattern,
			Kind:      grouping.MatchKind(g.Match),
			Group:     g.Name,
			Unit:      g.Unit,
			Exclusive: g.Exclusive,
		}
		if err := rule.Compile(); err != nil {
			return &RuleError{Index: i, Name: g.Name, Err: err}
		}
	}

	for i, h := range cfg.Hidden {
		if h == "" {
			return fmt.Errorf("hidden[%d]: empty pattern", i)
		}
	}

	return nil
}

func validateInput(in *InputConfig) error {
	if in.Separator != "" && utf8.RuneCountInString(in.Separator) != 1 {
		return fmt.Errorf("separator must be a single character, got %q", in.Separator)
	}

	switch hwlog.UnitRowMode(in.UnitRow) {
	case "", hwlog.UnitRowAuto, hwlog.UnitRowPresent, hwlog.UnitRowAbsent:
	default:
		return fmt.Errorf("invalid unit_row %q (must be auto, present, or absent)", in.UnitRow)
	}

	return nil
}

// Matcher builds the grouping matcher from the configured user rules plus
// the built-in defaults.
func (c *Config) Matcher() (*grouping.Matcher, error) {
	m, err := grouping.NewMatcher(c.Rules(), grouping.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("building group matcher: %w", err)
	}
	return m, nil
}

// IsRuleError reports whether err wraps a grouping RuleError.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}
