package grouping

import "fmt"

// Matcher assigns channels to groups. User rules form the first precedence
// tier and are evaluated before the built-in defaults, so a user rule can
// claim a channel ahead of any default.
type Matcher struct {
	user     []Rule
	defaults []Rule
}

// NewMatcher compiles both rule tiers and returns a ready matcher.
// Rule errors carry the tier and 0-based rule index.
func NewMatcher(user, defaults []Rule) (*Matcher, error) {
	m := &Matcher{
		user:     make([]Rule, len(user)),
		defaults: make([]Rule, len(defaults)),
	}
	copy(m.user, user)
	copy(m.defaults, defaults)

	for i := range m.user {
		if err := m.user[i].Compile(); err != nil {
			return nil, fmt.Errorf("user rule %d: %w", i, err)
		}
	}
	for i := range m.defaults {
		if err := m.defaults[i].Compile(); err != nil {
			return nil, fmt.Errorf("default rule %d: %w", i, err)
		}
	}
	return m, nil
}

// Assign maps every channel name to its group memberships.
//
// Rules run in list order within each tier, user tier first. An exclusive
// rule match makes its group the channel's only membership and stops
// evaluation; additive matches accumulate across both tiers. Channels
// matched by nothing land in the catch-all group. The result depends only
// on the rule lists and the catalog order, so repeated runs over the same
// log produce identical assignments.
func (m *Matcher) Assign(channels []string) *Assignment {
	asg := &Assignment{
		byChannel: make(map[string][]string, len(channels)),
	}
	groupIdx := make(map[string]int)

	appendMember := func(group, unit, channel string) {
		i, ok := groupIdx[group]
		if !ok {
			i = len(asg.Groups)
			groupIdx[group] = i
			asg.Groups = append(asg.Groups, Group{Name: group, Unit: unit})
		}
		if asg.Groups[i].Unit == "" {
			asg.Groups[i].Unit = unit
		}
		asg.Groups[i].Channels = append(asg.Groups[i].Channels, channel)
		asg.byChannel[channel] = append(asg.byChannel[channel], group)
	}

	for _, channel := range channels {
		groups, units, exclusive := matchTier(m.user, channel)
		if !exclusive {
			dg, du, dexcl := matchTier(m.defaults, channel)
			if dexcl && len(groups) == 0 {
				// A default may claim exclusivity only when no user
				// rule already placed the channel.
				groups, units = dg, du
			} else {
				groups = append(groups, dg...)
				units = append(units, du...)
			}
		}

		if len(groups) == 0 {
			appendMember(CatchAllGroup, "", channel)
			continue
		}
		for i := range groups {
			appendMember(groups[i], units[i], channel)
		}
	}

	return asg
}

// matchTier evaluates one rule tier against a channel name.
// It returns the matched group names in rule order. The first exclusive
// rule that matches claims the channel outright: only its group is
// returned and exclusive is true.
func matchTier(rules []Rule, channel string) (groups, units []string, exclusive bool) {
	seen := make(map[string]bool)
	for i := range rules {
		r := &rules[i]
		if !r.Matches(channel) {
			continue
		}
		if r.Exclusive {
			return []string{r.Group}, []string{r.Unit}, true
		}
		if seen[r.Group] {
			continue
		}
		seen[r.Group] = true
		groups = append(groups, r.Group)
		units = append(units, r.Unit)
	}
	return groups, units, false
}
