// Package report writes analysis results to PDF and Excel documents.
package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/diagram"
	"github.com/alexiusacademia/goslope/internal/project"
)

// compressStreams is turned off in tests to inspect page content
var compressStreams = true

// Report is the content of a PDF analysis report
type Report struct {
	Title       string
	Author      string
	Case        *project.Case
	Outcome     *project.Outcome
	GeneratedAt time.Time
	NoDiagram   bool // skip the embedded stability map
}

// CrossSection builds diagram data from a case and its outcome
func CrossSection(c *project.Case, out *project.Outcome) diagram.CrossSectionData {
	return diagram.CrossSectionData{
		Title:  c.Name,
		Ground: c.Ground,
		Water:  c.Water,
		Circle: c.Circle,
		Slices: out.Result.Slices,
		FS:     out.Result.FS,
		HasFS:  out.Result.HasValue(),
	}
}

// WritePDF renders the report as an A4 PDF
func WritePDF(w io.Writer, r Report) error {
	if r.Case == nil || r.Outcome == nil {
		return fmt.Errorf("report needs a case and an outcome")
	}
	if r.Title == "" {
		r.Title = "Slope Stability Report"
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}

	c, res := r.Case, r.Outcome.Result
	soil := c.SoilParams()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compressStreams)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(r.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if c.Name != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Case: %s", c.Name)))
		pdf.Ln(6)
	}
	if c.Description != "" {
		pdf.MultiCell(0, 6, tr(c.Description), "", "L", false)
	}
	if r.Author != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", r.Author)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", r.GeneratedAt.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Method: Bishop's simplified method of slices")
	pdf.Ln(10)

	section(pdf, "Input")
	keyValues(pdf, tr, [][2]string{
		{"Slip circle center", fmt.Sprintf("(%.2f, %.2f) m", c.Circle.Xc, c.Circle.Yc)},
		{"Slip circle radius", fmt.Sprintf("%.2f m", c.Circle.Radius)},
		{"Unit weight (gamma)", fmt.Sprintf("%.2f kN/m³", soil.UnitWeight)},
		{"Water unit weight (gamma_w)", fmt.Sprintf("%.2f kN/m³", soil.WaterUnitWeight)},
		{"Cohesion (c')", fmt.Sprintf("%.2f kPa", soil.Cohesion)},
		{"Friction angle (phi')", fmt.Sprintf("%.2f°", soil.FrictionAngle)},
		{"Phreatic line", phreaticText(c)},
	})

	section(pdf, "Result")
	fsText := "N/A"
	if res.HasValue() {
		fsText = fmt.Sprintf("%.3f", res.FS)
	}
	rows := [][2]string{
		{"Factor of safety", fsText},
		{"Termination", res.Outcome.Description()},
		{"Status", r.Outcome.StatusText()},
	}
	if res.HasSlipMass() {
		rows = append(rows,
			[2]string{"Slip mass span", fmt.Sprintf("%.2f m to %.2f m", res.Span.Start, res.Span.End)},
			[2]string{"Iterations", fmt.Sprintf("%d", res.Iterations)},
			[2]string{"Driving sum", fmt.Sprintf("%.1f kN/m", res.Driving)},
			[2]string{"Resisting sum", fmt.Sprintf("%.1f kN/m", res.Resisting)},
		)
	}
	if chk := r.Outcome.Check; chk != nil {
		rows = append(rows,
			[2]string{"Loading condition", chk.Condition.Description},
			[2]string{"Required FS", fmt.Sprintf("%.2f", chk.Condition.MinimumFS)},
			[2]string{"Assessment", chk.Message},
		)
	}
	keyValues(pdf, tr, rows)

	if !r.NoDiagram && res.HasSlipMass() {
		var img bytes.Buffer
		if err := diagram.RenderCrossSection(CrossSection(c, r.Outcome), "png", &img); err != nil {
			return fmt.Errorf("render diagram: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("cross-section", opts, &img)
		pdf.AddPage()
		section(pdf, "Stability map")
		pdf.ImageOptions("cross-section", 15, pdf.GetY(), 180, 180, false, opts, 0, "")
	}

	if len(res.Slices) > 0 {
		pdf.AddPage()
		section(pdf, "Slices")
		sliceTable(pdf, tr, res)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
}

func keyValues(pdf *gofpdf.Fpdf, tr func(string) string, rows [][2]string) {
	for _, row := range rows {
		pdf.CellFormat(70, 6, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func sliceTable(pdf *gofpdf.Fpdf, tr func(string) string, res bishop.Result) {
	headers := []string{"#", "x_mid (m)", "b (m)", "h (m)", "W (kN/m)", "alpha (°)", "u (kPa)", "y_bot (m)"}
	widths := []float64{10, 24, 20, 20, 26, 24, 24, 24}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range res.Slices {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", s.XMid),
			fmt.Sprintf("%.3f", s.Width),
			fmt.Sprintf("%.2f", s.Height),
			fmt.Sprintf("%.1f", s.Weight),
			fmt.Sprintf("%.2f", s.Alpha),
			fmt.Sprintf("%.1f", s.PorePressure),
			fmt.Sprintf("%.2f", s.YBot),
		}
		for j, cell := range cells {
			pdf.CellFormat(widths[j], 6, cell, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func phreaticText(c *project.Case) string {
	if len(c.Water) == 0 {
		return "none (dry)"
	}
	return fmt.Sprintf("%d points", len(c.Water))
}
