// Package grouping classifies channel names into display groups using an
// ordered list of typed match rules.
package grouping

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchKind selects how a rule's pattern is compared against channel names.
type MatchKind string

const (
	// MatchExact requires the pattern to equal the channel name.
	MatchExact MatchKind = "exact"

	// MatchSubstring matches when the channel name contains the pattern,
	// case-insensitively.
	MatchSubstring MatchKind = "substring"

	// MatchGlob treats the pattern as a shell-style wildcard
	// (* and ?), matched case-insensitively against the whole name.
	MatchGlob MatchKind = "glob"

	// MatchRegex treats the pattern as a regular expression.
	MatchRegex MatchKind = "regex"
)

// CatchAllGroup receives channels matched by no rule. Channels are never
// silently dropped.
const CatchAllGroup = "Other"

// Rule routes channels whose names match a pattern into a group.
// Patterns are compared against the full header cell text, including any
// unit bracket, so unit-based rules like `\[W\]` work.
type Rule struct {
	// Pattern is the match pattern, interpreted per Kind.
	Pattern string

	// Kind is the pattern type. Empty means MatchGlob.
	Kind MatchKind

	// Group is the target group name.
	Group string

	// Unit is the group's declared display unit, if any. The first rule
	// routing into a group with a non-empty Unit wins.
	Unit string

	// Exclusive stops rule evaluation for a matched channel: the channel
	// is placed in this group only.
	Exclusive bool

	re *regexp.Regexp
}

// Compile validates the rule and prepares it for matching.
func (r *Rule) Compile() error {
	if r.Group == "" {
		return fmt.Errorf("rule has no group name")
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule for group %q has no pattern", r.Group)
	}
	if r.Kind == "" {
		r.Kind = MatchGlob
	}

	switch r.Kind {
	case MatchExact, MatchSubstring:
		return nil
	case MatchGlob:
		re, err := regexp.Compile(globToRegex(r.Pattern))
		if err != nil {
			return fmt.Errorf("invalid glob pattern %q: %w", r.Pattern, err)
		}
		r.re = re
		return nil
	case MatchRegex:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("invalid regex pattern %q: %w", r.Pattern, err)
		}
		r.re = re
		return nil
	default:
		return fmt.Errorf("invalid match kind %q (must be exact, substring, glob, or regex)", r.Kind)
	}
}

// Matches reports whether the rule's pattern matches the channel name.
// The rule must be compiled first.
func (r *Rule) Matches(name string) bool {
	switch r.Kind {
	case MatchExact:
		return name == r.Pattern
	case MatchSubstring:
		return strings.Contains(strings.ToLower(name), strings.ToLower(r.Pattern))
	default:
		return r.re.MatchString(name)
	}
}

// globToRegex translates a wildcard pattern into an anchored,
// case-insensitive regular expression.
func globToRegex(glob string) string {
	var sb strings.Builder
	sb.WriteString(`(?i)^`)
	for _, r := range glob {
		switch r {
		case '*':
			sb.WriteString(`.*`)
		case '?':
			sb.WriteString(`.`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(`$`)
	return sb.String()
}

// Group is a named collection of channels displayed together in one panel.
type Group struct {
	// Name is the group label.
	Name string

	// Unit is the group's declared display unit, "" if none.
	Unit string

	// Channels lists member channel names in catalog (header) order.
	Channels []string
}

// Assignment is the channel-to-group mapping produced by a Matcher.
type Assignment struct {
	// Groups holds non-empty groups ordered by the catalog position of
	// their first member channel.
	Groups []Group

	byChannel map[string][]string
}

// GroupsOf returns the group names a channel belongs to, in assignment
// order. Every catalog channel belongs to at least one group.
func (a *Assignment) GroupsOf(channel string) []string {
	return a.byChannel[channel]
}
