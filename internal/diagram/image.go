package diagram

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Supported export formats
var formats = map[string]bool{
	"png": true,
	"svg": true,
	"pdf": true,
	"jpg": true,
}

// NewCrossSectionPlot builds the stability map: ground surface, phreatic
// line, slip circle with its center, and the slices as bars standing on the
// slip surface
func NewCrossSectionPlot(data CrossSectionData) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Stability Map (FS: %s)", data.FSLabel())
	if data.Title != "" {
		p.Title.Text = data.Title + " - " + p.Title.Text
	}
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Elevation (m)"
	p.Add(plotter.NewGrid())

	if len(data.Ground) < 2 {
		return nil, fmt.Errorf("ground profile needs at least 2 points")
	}

	// Slices are drawn first so outlines stay on top
	for _, s := range data.Slices {
		if s.Height <= 0 {
			continue
		}
		left, right := s.XMid-s.Width/2, s.XMid+s.Width/2
		bar, err := plotter.NewPolygon(plotter.XYs{
			{X: left, Y: s.YBot},
			{X: right, Y: s.YBot},
			{X: right, Y: s.YBot + s.Height},
			{X: left, Y: s.YBot + s.Height},
		})
		if err != nil {
			return nil, err
		}
		bar.Color = color.RGBA{R: 255, G: 165, B: 0, A: 128}
		bar.LineStyle.Width = vg.Points(0.5)
		bar.LineStyle.Color = color.Black
		p.Add(bar)
	}

	// Dam surface with light fill down to the base of the plot
	groundPts := make(plotter.XYs, len(data.Ground))
	for i, pt := range data.Ground {
		groundPts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	fill, err := plotter.NewLine(groundPts)
	if err != nil {
		return nil, err
	}
	fill.FillColor = color.RGBA{R: 165, G: 42, B: 42, A: 26}
	fill.LineStyle.Width = 0
	p.Add(fill)

	groundLine, err := plotter.NewLine(groundPts)
	if err != nil {
		return nil, err
	}
	groundLine.LineStyle.Width = vg.Points(3)
	groundLine.LineStyle.Color = color.Black
	p.Add(groundLine)
	p.Legend.Add("Dam Surface", groundLine)

	if len(data.Water) > 0 {
		waterPts := make(plotter.XYs, len(data.Water))
		for i, pt := range data.Water {
			waterPts[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		waterLine, err := plotter.NewLine(waterPts)
		if err != nil {
			return nil, err
		}
		waterLine.LineStyle.Width = vg.Points(1.5)
		waterLine.LineStyle.Color = color.RGBA{B: 255, A: 255}
		waterLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(waterLine)
		p.Legend.Add("Phreatic Line", waterLine)
	}

	// The circle is only meaningful when it cuts a slip mass
	if len(data.Slices) > 0 {
		outline := data.Circle.Outline(500)
		circlePts := make(plotter.XYs, len(outline))
		for i, pt := range outline {
			circlePts[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		circle, err := plotter.NewLine(circlePts)
		if err != nil {
			return nil, err
		}
		circle.LineStyle.Width = vg.Points(1)
		circle.LineStyle.Color = color.RGBA{R: 255, A: 77}
		circle.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(circle)

		center, err := plotter.NewScatter(plotter.XYs{{X: data.Circle.Xc, Y: data.Circle.Yc}})
		if err != nil {
			return nil, err
		}
		center.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
		center.GlyphStyle.Radius = vg.Points(4)
		center.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(center)
		p.Legend.Add("Slip Circle", circle)
	}

	equalAspect(p)
	return p, nil
}

// equalAspect widens the shorter axis so that one unit spans the same
// length on both axes for a square canvas
func equalAspect(p *plot.Plot) {
	xr := p.X.Max - p.X.Min
	yr := p.Y.Max - p.Y.Min
	if xr <= 0 || yr <= 0 {
		return
	}
	if xr > yr {
		mid := (p.Y.Min + p.Y.Max) / 2
		p.Y.Min, p.Y.Max = mid-xr/2, mid+xr/2
	} else {
		mid := (p.X.Min + p.X.Max) / 2
		p.X.Min, p.X.Max = mid-yr/2, mid+yr/2
	}
}

// RenderCrossSection writes the stability map in the given format
// (png, svg, pdf or jpg)
func RenderCrossSection(data CrossSectionData, format string, w io.Writer) error {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if !formats[format] {
		return fmt.Errorf("unsupported diagram format %q", format)
	}

	p, err := NewCrossSectionPlot(data)
	if err != nil {
		return err
	}

	size := 8 * vg.Inch
	wt, err := p.WriterTo(size, size, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// ExportCrossSection exports the stability map to an image file. The format
// follows the file extension; files without a known extension get ".png".
func ExportCrossSection(data CrossSectionData, filename string) error {
	p, err := NewCrossSectionPlot(data)
	if err != nil {
		return err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !formats[ext] {
		filename += ".png"
	}

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	size := 8 * vg.Inch
	return p.Save(size, size, filename)
}
