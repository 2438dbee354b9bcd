package grouping

// DefaultRules returns the built-in rule list for common hardware-monitor
// channel naming. Unit-bracket rules cover well-formed exports; the name
// substrings catch channels logged without a declared unit. HWiNFO can be
// configured for Fahrenheit, so both temperature brackets are accepted.
// All default rules are additive: a channel may show up in several panels,
// e.g. a CPU fan in both Fans and a vendor-specific group.
func DefaultRules() []Rule {
	return []Rule{
		{Group: "Core Effective Clocks", Kind: MatchRegex, Pattern: `Core [\w\s]+ Effective Clock`, Unit: "MHz"},
		{Group: "Core Clocks", Kind: MatchRegex, Pattern: `Core \d+ Clock`, Unit: "MHz"},
		{Group: "Core Usage", Kind: MatchRegex, Pattern: `Core [\w\s]+ Usage`, Unit: "%"},
		{Group: "Temperatures", Kind: MatchRegex, Pattern: `\[°[CF]\]`},
		{Group: "Temperatures", Kind: MatchSubstring, Pattern: "temp"},
		{Group: "Throttling", Kind: MatchSubstring, Pattern: "throttling"},
		{Group: "Voltages", Kind: MatchRegex, Pattern: `\[V\]`, Unit: "V"},
		{Group: "Currents", Kind: MatchRegex, Pattern: `\[A\]`, Unit: "A"},
		{Group: "Power", Kind: MatchRegex, Pattern: `\[W\]`, Unit: "W"},
		{Group: "Fans", Kind: MatchRegex, Pattern: `\[RPM\]`, Unit: "RPM"},
		{Group: "Fans", Kind: MatchSubstring, Pattern: "fan"},
		{Group: "Usage", Kind: MatchRegex, Pattern: `\[%\]`, Unit: "%"},
	}
}
