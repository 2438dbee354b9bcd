package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hwmon-tools/logviz/pkg/chart"
	"github.com/hwmon-tools/logviz/pkg/hwlog"
)

func testFigure() *chart.Figure {
	return &chart.Figure{
		Title:      "Sensor log (2024-01-15)",
		TimeLabels: []string{"10:00:00", "10:00:01", "10:00:02"},
		Panels: []chart.Panel{
			{
				Name: "Fans",
				Unit: "RPM",
				Traces: []chart.Trace{
					{Name: "CPU Fan", Unit: "RPM", Values: []float64{900, 910, 920}, Visible: true, Color: chart.ColorAt(0)},
					{Name: "Chassis Fan", Unit: "RPM", Values: []float64{600, hwlog.Missing, 620}, Visible: false, Color: chart.ColorAt(1)},
				},
			},
			{
				Name: "Temperatures",
				Unit: "°C",
				Traces: []chart.Trace{
					{Name: "CPU Package", Unit: "°C", Values: []float64{45.5, 46.0, 47.2}, Visible: true, Color: chart.ColorAt(0)},
				},
			},
		},
	}
}

func TestHTMLRenderer_Render(t *testing.T) {
	r := NewHTMLRenderer()
	if r.Name() != "html" {
		t.Errorf("Name() = %q", r.Name())
	}

	var buf bytes.Buffer
	if err := r.Render(context.Background(), testFigure(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"echarts",
		"CPU Fan",
		"Chassis Fan",
		"CPU Package",
		"Fans [RPM]",
		"10:00:01",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Rendered page missing %q", want)
		}
	}
}

func TestHTMLRenderer_HiddenTraceInLegendSelection(t *testing.T) {
	var buf bytes.Buffer
	if err := NewHTMLRenderer().Render(context.Background(), testFigure(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// The hidden trace is deselected in the legend, not removed.
	html := buf.String()
	if !strings.Contains(html, `"Chassis Fan":false`) {
		t.Error("Hidden trace not encoded as a deselected legend entry")
	}
	if !strings.Contains(html, `"CPU Fan":true`) {
		t.Error("Visible trace not encoded as a selected legend entry")
	}
}

func TestHTMLRenderer_GapIsNull(t *testing.T) {
	var buf bytes.Buffer
	if err := NewHTMLRenderer().Render(context.Background(), testFigure(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(buf.String(), "null") {
		t.Error("Missing sample not rendered as a null gap point")
	}
}

func TestHTMLRenderer_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := NewHTMLRenderer().Render(ctx, testFigure(), &buf); err == nil {
		t.Error("Render() succeeded with cancelled context")
	}
}
