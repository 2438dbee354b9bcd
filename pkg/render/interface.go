// Package render emits the interactive chart artifact from an assembled
// figure. The figure structure is a pure data contract, so renderers can
// be swapped without touching the pipeline.
package render

import (
	"context"
	"io"

	"github.com/hwmon-tools/logviz/pkg/chart"
)

// Renderer writes a figure to an output stream in a specific format.
type Renderer interface {
	// Render writes the artifact for the figure.
	Render(ctx context.Context, fig *chart.Figure, w io.Writer) error

	// Name returns the format name (html).
	Name() string
}
