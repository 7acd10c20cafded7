package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/criteria"
	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/project"
)

const (
	summarySheet = "Summary"
	slicesSheet  = "Slices"
	circlesSheet = "Circles"
	resultsSheet = "Results"
)

// CircleRow is one candidate circle read from a workbook
type CircleRow struct {
	Name   string
	Circle geometry.Circle
}

// BatchRow is the analysis of one candidate circle
type BatchRow struct {
	Name   string
	Circle geometry.Circle
	Result bishop.Result
	Status criteria.Status
}

// WriteSlicesXLSX writes a workbook with a summary sheet and the full
// slice table
func WriteSlicesXLSX(w io.Writer, c *project.Case, out *project.Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(slicesSheet); err != nil {
		return err
	}

	res := out.Result
	soil := c.SoilParams()
	summary := [][]interface{}{
		{"Case", c.Name},
		{"Center X (m)", c.Circle.Xc},
		{"Center Y (m)", c.Circle.Yc},
		{"Radius (m)", c.Circle.Radius},
		{"Unit weight (kN/m³)", soil.UnitWeight},
		{"Water unit weight (kN/m³)", soil.WaterUnitWeight},
		{"Cohesion (kPa)", soil.Cohesion},
		{"Friction angle (°)", soil.FrictionAngle},
		{"Outcome", res.Outcome.String()},
		{"Factor of safety", fsCell(res)},
		{"Iterations", res.Iterations},
		{"Status", out.StatusText()},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	headers := []interface{}{"#", "x_mid (m)", "b (m)", "h (m)", "W (kN/m)", "alpha (°)", "u (kPa)", "y_bot (m)"}
	if err := setRow(f, slicesSheet, 1, headers); err != nil {
		return err
	}
	for i, s := range res.Slices {
		row := []interface{}{i + 1, s.XMid, s.Width, s.Height, s.Weight, s.Alpha, s.PorePressure, s.YBot}
		if err := setRow(f, slicesSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := boldHeader(f, slicesSheet, len(headers)); err != nil {
		return err
	}

	return f.Write(w)
}

// ReadCircles reads candidate circles from the first sheet of a workbook.
// The first row is a header; columns are name, xc, yc, radius. Blank rows
// are skipped.
func ReadCircles(r io.Reader) ([]CircleRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no circles", sheet)
	}

	var circles []CircleRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		circle, err := parseCircleRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		circles = append(circles, circle)
	}

	return circles, nil
}

func parseCircleRow(row []string) (CircleRow, error) {
	// expected: name, xc, yc, radius
	if len(row) < 4 {
		return CircleRow{}, fmt.Errorf("expected 4 columns (name, xc, yc, radius), got %d", len(row))
	}

	vals := make([]float64, 3)
	for j := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[j+1]), 64)
		if err != nil {
			return CircleRow{}, fmt.Errorf("column %d: %w", j+2, err)
		}
		vals[j] = v
	}
	if vals[2] <= 0 {
		return CircleRow{}, fmt.Errorf("radius must be positive")
	}

	return CircleRow{
		Name:   strings.TrimSpace(row[0]),
		Circle: geometry.Circle{Xc: vals[0], Yc: vals[1], Radius: vals[2]},
	}, nil
}

// WriteCirclesTemplate writes a workbook in the layout ReadCircles expects
func WriteCirclesTemplate(w io.Writer, circles []CircleRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", circlesSheet); err != nil {
		return err
	}
	if err := setRow(f, circlesSheet, 1, []interface{}{"name", "xc", "yc", "radius"}); err != nil {
		return err
	}
	for i, c := range circles {
		if err := setRow(f, circlesSheet, i+2, []interface{}{c.Name, c.Circle.Xc, c.Circle.Yc, c.Circle.Radius}); err != nil {
			return err
		}
	}
	if err := boldHeader(f, circlesSheet, 4); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteBatchXLSX writes one result row per candidate circle
func WriteBatchXLSX(w io.Writer, rows []BatchRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}

	headers := []interface{}{"name", "xc", "yc", "radius", "outcome", "fs", "iterations", "slices", "status"}
	if err := setRow(f, resultsSheet, 1, headers); err != nil {
		return err
	}
	for i, r := range rows {
		row := []interface{}{
			r.Name, r.Circle.Xc, r.Circle.Yc, r.Circle.Radius,
			r.Result.Outcome.String(), fsCell(r.Result), r.Result.Iterations, len(r.Result.Slices), r.Status.String(),
		}
		if err := setRow(f, resultsSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := boldHeader(f, resultsSheet, len(headers)); err != nil {
		return err
	}

	return f.Write(w)
}

// fsCell leaves the cell empty when there is no stability value
func fsCell(res bishop.Result) interface{} {
	if !res.HasValue() {
		return ""
	}
	return res.FS
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func boldHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
