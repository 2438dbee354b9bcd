package chart

import (
	"fmt"
	"sort"

	"github.com/hwmon-tools/logviz/pkg/grouping"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
)

// Options configures figure assembly.
type Options struct {
	// Title overrides the generated figure title.
	Title string

	// Hidden lists channel names, group names, or glob patterns whose
	// traces start hidden. Matching is case-insensitive.
	Hidden []string

	// HiddenGroups lists group names whose panels start with every trace
	// hidden.
	HiddenGroups []string
}

// Build turns the channel store and group assignment into an ordered
// panel/trace figure.
//
// Panels are ordered by the header position of each group's first member,
// so the layout follows the log's own channel ordering. Traces keep header
// order within a panel. Values are shared with the store, not copied.
func Build(store *hwlog.Store, asg *grouping.Assignment, opts Options) (*Figure, error) {
	hidden, err := compileHidden(opts.Hidden)
	if err != nil {
		return nil, err
	}
	hiddenGroups := make(map[string]bool, len(opts.HiddenGroups))
	for _, g := range opts.HiddenGroups {
		hiddenGroups[g] = true
	}

	position := make(map[string]int, len(store.Channels))
	for i := range store.Channels {
		position[store.Channels[i].Name] = i
	}

	groups := make([]grouping.Group, len(asg.Groups))
	copy(groups, asg.Groups)
	sort.SliceStable(groups, func(i, j int) bool {
		return firstPosition(groups[i], position) < firstPosition(groups[j], position)
	})

	fig := &Figure{
		Title:      opts.Title,
		TimeLabels: store.TimeLabels,
	}
	if fig.Title == "" {
		fig.Title = defaultTitle(store)
	}

	for _, g := range groups {
		panel := Panel{
			Name: g.Name,
			Unit: g.Unit,
		}

		for _, name := range g.Channels {
			ch, ok := store.Channel(name)
			if !ok {
				return nil, fmt.Errorf("group %q references unknown channel %q", g.Name, name)
			}
			values, _ := store.ValuesByName(name)
			if len(values) != store.Rows() {
				return nil, fmt.Errorf("channel %q has %d values for %d rows", name, len(values), store.Rows())
			}

			panel.Traces = append(panel.Traces, Trace{
				Name:    name,
				Unit:    ch.Unit,
				Values:  values,
				Visible: !hiddenGroups[g.Name] && !matchesAny(hidden, name, g.Name),
				Color:   ColorAt(len(panel.Traces)),
			})
		}

		if panel.Unit == "" {
			panel.Unit = commonUnit(panel.Traces)
		}
		fig.Panels = append(fig.Panels, panel)
	}

	return fig, nil
}

// firstPosition returns the catalog index of a group's earliest member.
func firstPosition(g grouping.Group, position map[string]int) int {
	first := int(^uint(0) >> 1)
	for _, name := range g.Channels {
		if p, ok := position[name]; ok && p < first {
			first = p
		}
	}
	return first
}

// compileHidden turns hide entries into glob rules so both literal names
// and wildcard patterns work.
func compileHidden(patterns []string) ([]grouping.Rule, error) {
	rules := make([]grouping.Rule, len(patterns))
	for i, p := range patterns {
		rules[i] = grouping.Rule{Pattern: p, Kind: grouping.MatchGlob, Group: "hidden"}
		if err := rules[i].Compile(); err != nil {
			return nil, fmt.Errorf("hidden[%d]: %w", i, err)
		}
	}
	return rules, nil
}

func matchesAny(rules []grouping.Rule, names ...string) bool {
	for i := range rules {
		for _, name := range names {
			if rules[i].Matches(name) {
				return true
			}
		}
	}
	return false
}

// commonUnit infers a panel unit as the most common declared unit among
// member traces. Ties go to the unit seen first, so the result is stable.
func commonUnit(traces []Trace) string {
	counts := make(map[string]int)
	var best string
	bestCount := 0
	for _, tr := range traces {
		if tr.Unit == "" {
			continue
		}
		counts[tr.Unit]++
		if counts[tr.Unit] > bestCount {
			best = tr.Unit
			bestCount = counts[tr.Unit]
		}
	}
	return best
}

// defaultTitle derives a figure heading from the log's first timestamp,
// falling back to a generic label for time-of-day-only logs.
func defaultTitle(store *hwlog.Store) string {
	for _, ts := range store.Times {
		if !ts.IsZero() && ts.Year() > 1 {
			return fmt.Sprintf("Sensor log (%s)", ts.Format("2006-01-02"))
		}
	}
	return "Sensor log"
}
