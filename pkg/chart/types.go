// Package chart assembles grouped channel data into an ordered panel/trace
// structure ready for rendering.
package chart

// Figure is the complete chart structure handed to a renderer. It is not
// mutated after Build returns it.
type Figure struct {
	// Title is the figure heading.
	Title string

	// TimeLabels holds one axis label per sample row, shared by every
	// panel.
	TimeLabels []string

	// Panels holds one chart region per non-empty group, ordered by the
	// header position of each group's first member channel.
	Panels []Panel
}

// Panel is one chart region corresponding to one group.
type Panel struct {
	// Name is the group label.
	Name string

	// Unit is the displayed axis unit, "" when unknown.
	Unit string

	// Traces holds the panel's channels in header order.
	Traces []Trace
}

// Trace is one channel's rendering within a panel.
type Trace struct {
	// Name is the channel name.
	Name string

	// Unit is the channel's own declared unit, which may differ from the
	// panel unit. Values are never converted.
	Unit string

	// Values is the channel's sample sequence, aligned to the figure's
	// TimeLabels. Missing samples stay NaN and render as gaps.
	Values []float64

	// Visible is the initial visibility; hidden traces stay toggleable.
	Visible bool

	// Color is the deterministic color assignment, as a hex string.
	Color string
}
