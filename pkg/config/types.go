// Package config provides configuration loading and validation for logviz.
package config

import (
	"fmt"

	"github.com/hwmon-tools/logviz/pkg/grouping"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Input  InputConfig   `yaml:"input,omitempty"`
	Groups []GroupConfig `yaml:"groups,omitempty"`
	Hidden []string      `yaml:"hidden,omitempty"`
	Chart  ChartConfig   `yaml:"chart,omitempty"`
}

// InputConfig describes the log file format.
type InputConfig struct {
	// Separator is the field delimiter, a single character.
	// Defaults to ",".
	Separator string `yaml:"separator,omitempty"`

	// Encoding is the input text encoding by IANA/HTML name.
	// Defaults to latin-1, the usual encoding of Windows sensor exports.
	Encoding string `yaml:"encoding,omitempty"`

	// TimeColumn names the timestamp column. Empty means auto-detect.
	TimeColumn string `yaml:"time_column,omitempty"`

	// UnitRow controls dedicated-unit-row handling: auto, present, absent.
	UnitRow string `yaml:"unit_row,omitempty"`
}

// GroupConfig defines a single user grouping rule. User rules are evaluated
// before the built-in defaults, in list order.
type GroupConfig struct {
	// Name is the target group (and panel) label.
	Name string `yaml:"name"`

	// Pattern is matched against channel names as they appear in the
	// log header.
	Pattern string `yaml:"pattern"`

	// Match is the pattern type: exact, substring, glob, or regex.
	// Defaults to glob.
	Match string `yaml:"match,omitempty"`

	// Unit is the group's displayed axis unit, if declared.
	Unit string `yaml:"unit,omitempty"`

	// Exclusive removes the matched channel from every other group.
	Exclusive bool `yaml:"exclusive,omitempty"`

	// Hidden marks the whole group as initially not drawn. Its traces
	// stay present and toggleable.
	Hidden bool `yaml:"hidden,omitempty"`
}

// ChartConfig controls figure-level presentation.
type ChartConfig struct {
	// Title overrides the generated figure title.
	Title string `yaml:"title,omitempty"`
}

// RuleError reports a malformed grouping rule. It is fatal and surfaced
// before any chart building happens.
type RuleError struct {
	// Index is the 0-based position of the rule in the groups list.
	Index int

	// Name is the rule's group name, if it had one.
	Name string

	// Err is the underlying problem.
	Err error
}

func (e *RuleError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("groups[%d] (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("groups[%d]: %v", e.Index, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Rules converts the configured groups into compiled user rules for the
// matcher. The config must have been validated first.
func (c *Config) Rules() []grouping.Rule {
	rules := make([]grouping.Rule, len(c.Groups))
	for i, g := range c.Groups {
		rules[i] = grouping.Rule{
			Pattern:   g.Pattern,
			Kind:      grouping.MatchKind(g.Match),
			Group:     g.Name,
			Unit:      g.Unit,
			Exclusive: g.Exclusive,
		}
	}
	return rules
}

// HiddenGroups returns the names of groups configured as initially hidden.
func (c *Config) HiddenGroups() []string {
	var hidden []string
	for _, g := range c.Groups {
		if g.Hidden {
			hidden = append(hidden, g.Name)
		}
	}
	return hidden
}

// ParserOptions converts the input section into parser options.
func (c *Config) ParserOptions() hwlog.Options {
	opts := hwlog.Options{
		Encoding:   c.Input.Encoding,
		TimeColumn: c.Input.TimeColumn,
		UnitRow:    hwlog.UnitRowMode(c.Input.UnitRow),
	}
	if c.Input.Separator != "" {
		opts.Delimiter = []rune(c.Input.Separator)[0]
	}
	return opts
}
