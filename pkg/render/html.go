package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hwmon-tools/logviz/pkg/chart"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
)

// HTMLRenderer renders the figure as a single self-contained interactive
// HTML page: one line chart per panel, legend clicks toggle traces, a
// slider zooms the shared time axis.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Name returns the format name.
func (r *HTMLRenderer) Name() string {
	return "html"
}

// Render writes the interactive page.
func (r *HTMLRenderer) Render(ctx context.Context, fig *chart.Figure, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = fig.Title

	for _, panel := range fig.Panels {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		page.AddCharts(panelChart(fig, &panel))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering chart page: %w", err)
	}
	return nil
}

// panelChart builds one line chart for a panel.
func panelChart(fig *chart.Figure, panel *chart.Panel) *charts.Line {
	line := charts.NewLine()

	// Legend selection carries the initial per-trace visibility; hidden
	// traces stay in the legend and can be toggled back on.
	selected := make(map[string]bool, len(panel.Traces))
	for _, tr := range panel.Traces {
		selected[tr.Name] = tr.Visible
	}

	title := panel.Name
	if panel.Unit != "" {
		title = fmt.Sprintf("%s [%s]", panel.Name, panel.Unit)
	}

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fig.Title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:     opts.Bool(true),
			Selected: selected,
			Type:     "scroll",
			Top:      "30",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Time",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: panel.Unit,
			Type: "value",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "8%",
			Right:  "5%",
			Bottom: "18%",
			Top:    "80",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "420px",
		}),
	)

	line.SetXAxis(fig.TimeLabels)

	for _, tr := range panel.Traces {
		line.AddSeries(tr.Name, traceData(tr.Values),
			charts.WithLineStyleOpts(opts.LineStyle{Color: tr.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: tr.Color}),
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(false),
			}),
		)
	}

	return line
}

// nullPoint is a literal JSON null. LineData.Value carries omitempty, so a
// nil interface would be dropped from the series entirely; a RawMessage
// survives serialization and ECharts draws the null as a gap.
var nullPoint = json.RawMessage("null")

// traceData converts a value sequence to series points. Missing samples
// become null points, which ECharts draws as gaps rather than zeros.
func traceData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if hwlog.IsMissing(v) {
			data[i] = opts.LineData{Value: nullPoint}
			continue
		}
		data[i] = opts.LineData{Value: v}
	}
	return data
}
