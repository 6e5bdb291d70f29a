package analysis

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RenderHydropathyPNG draws the profile's hydropathy curve as a PNG.
func RenderHydropathyPNG(profile *Profile) ([]byte, error) {
	if profile == nil || len(profile.Hydropathy) == 0 {
		return nil, fmt.Errorf("profile has no hydropathy data")
	}

	points := make(plotter.XYs, len(profile.Hydropathy))
	for i, v := range profile.Hydropathy {
		// Center each window on its middle residue, 1-based.
		points[i].X = float64(i + profile.Window/2 + 1)
		points[i].Y = v
	}

	p := plot.New()
	p.Title.Text = "Kyte-Doolittle hydropathy"
	p.X.Label.Text = "Residue"
	p.Y.Label.Text = fmt.Sprintf("Mean hydropathy (window %d)", profile.Window)
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("failed to build hydropathy line: %w", err)
	}
	p.Add(line)

	writer, err := p.WriterTo(6*vg.Inch, 3*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render hydropathy plot: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode hydropathy plot: %w", err)
	}
	return buf.Bytes(), nil
}
