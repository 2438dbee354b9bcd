// Package output provides formatting for channel/group inspection reports.
package output

import (
	"time"

	"github.com/hwmon-tools/logviz/pkg/grouping"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
)

// Report describes a parsed log and its group assignment.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Channels is the catalog in header order with group memberships.
	Channels []ChannelInfo `json:"channels"`

	// Groups lists the non-empty groups in panel order.
	Groups []GroupInfo `json:"groups"`

	// Warnings summarizes recoverable parse conditions.
	Warnings WarningInfo `json:"warnings"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Channels is the number of sensor channels (timestamp excluded).
	Channels int `json:"channels"`

	// Rows is the number of data rows.
	Rows int `json:"rows"`

	// Groups is the number of non-empty groups.
	Groups int `json:"groups"`
}

// ChannelInfo describes one channel and where it was routed.
type ChannelInfo struct {
	Name   string   `json:"name"`
	Unit   string   `json:"unit,omitempty"`
	Groups []string `json:"groups"`
}

// GroupInfo describes one group and its members.
type GroupInfo struct {
	Name     string   `json:"name"`
	Unit     string   `json:"unit,omitempty"`
	Channels []string `json:"channels"`
}

// WarningInfo summarizes recoverable parse conditions.
type WarningInfo struct {
	// BadCells is the number of cells recorded as missing values.
	BadCells int `json:"bad_cells"`

	// AffectedChannels is the number of channels with at least one
	// bad cell.
	AffectedChannels int `json:"affected_channels"`

	// OutOfOrder is the number of non-monotonic timestamps.
	OutOfOrder int `json:"out_of_order"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Source is the log file that was inspected.
	Source string `json:"source"`

	// InspectedAt is when the report was produced.
	InspectedAt time.Time `json:"inspected_at"`
}

// NewReport creates a Report from a parse result and group assignment.
func NewReport(result *hwlog.Result, asg *grouping.Assignment, source string) *Report {
	store := result.Store

	report := &Report{
		Summary: Summary{
			Channels: len(store.Channels),
			Rows:     store.Rows(),
			Groups:   len(asg.Groups),
		},
		Warnings: WarningInfo{
			BadCells:         len(result.Warnings.Cells),
			AffectedChannels: result.Warnings.AffectedChannels(),
			OutOfOrder:       len(result.Warnings.Ordering),
		},
		Metadata: Metadata{
			Source:      source,
			InspectedAt: time.Now(),
		},
	}

	for _, ch := range store.Channels {
		report.Channels = append(report.Channels, ChannelInfo{
			Name:   ch.Name,
			Unit:   ch.Unit,
			Groups: asg.GroupsOf(ch.Name),
		})
	}
	for _, g := range asg.Groups {
		report.Groups = append(report.Groups, GroupInfo{
			Name:     g.Name,
			Unit:     g.Unit,
			Channels: g.Channels,
		})
	}

	return report
}

// HasWarnings returns true if any recoverable conditions were recorded.
func (r *Report) HasWarnings() bool {
	return r.Warnings.BadCells > 0 || r.Warnings.OutOfOrder > 0
}
