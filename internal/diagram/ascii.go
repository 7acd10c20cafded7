package diagram

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/geometry"
)

// CrossSectionData holds everything needed to draw the embankment cross
// section with its trial slip circle
type CrossSectionData struct {
	Title string

	// Geometry
	Ground []geometry.Point
	Water  []geometry.Point // empty when there is no phreatic line
	Circle geometry.Circle

	// Analysis results
	Slices []bishop.Slice
	FS     float64
	HasFS  bool // false for "no slip mass" results
}

// FSLabel formats the factor of safety for titles and captions
func (d CrossSectionData) FSLabel() string {
	if !d.HasFS {
		return "N/A"
	}
	return fmt.Sprintf("%.3f", d.FS)
}

func (d CrossSectionData) profiles() (ground, water *geometry.Profile, err error) {
	ground, err = geometry.NewProfile(d.Ground)
	if err != nil {
		return nil, nil, fmt.Errorf("ground: %w", err)
	}
	if len(d.Water) > 0 {
		water, err = geometry.NewProfile(d.Water)
		if err != nil {
			return nil, nil, fmt.Errorf("water: %w", err)
		}
	}
	return ground, water, nil
}

// slipSpan returns the x extent covered by the slices
func (d CrossSectionData) slipSpan() (float64, float64, bool) {
	if len(d.Slices) == 0 {
		return 0, 0, false
	}
	first, last := d.Slices[0], d.Slices[len(d.Slices)-1]
	return first.XMid - first.Width/2, last.XMid + last.Width/2, true
}

// DrawASCIICrossSection renders the cross section on a character grid.
// Soil is shaded ▒, the slip mass ░, the slip surface * and the phreatic
// line ~.
func DrawASCIICrossSection(data CrossSectionData) string {
	var sb strings.Builder

	// Grid size in characters
	widthChars := 70
	heightChars := 20

	ground, water, err := data.profiles()
	if err != nil {
		return fmt.Sprintf("  (cross section unavailable: %v)\n", err)
	}

	minX, maxX, minY, maxY := ground.Bounds()
	for _, s := range data.Slices {
		minY = math.Min(minY, s.YBot)
	}
	if water != nil {
		_, _, _, wMax := water.Bounds()
		maxY = math.Max(maxY, wMax)
	}
	// Leave a band of air above the crest
	maxY += (maxY - minY) * 0.1
	if maxY == minY {
		maxY = minY + 1
	}

	dx := (maxX - minX) / float64(widthChars)
	dy := (maxY - minY) / float64(heightChars)
	spanStart, spanEnd, hasSpan := data.slipSpan()

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  CROSS SECTION (FS: %s)\n", data.FSLabel()))
	sb.WriteString("  ─────────────────────────\n")

	for row := 0; row < heightChars; row++ {
		y := maxY - (float64(row)+0.5)*dy

		sb.WriteString(fmt.Sprintf("  %7.1f │", y))
		for col := 0; col < widthChars; col++ {
			x := minX + (float64(col)+0.5)*dx
			sb.WriteRune(cellAt(data.Circle, ground, water, x, y, dy, hasSpan && x >= spanStart && x <= spanEnd))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("          └%s\n", strings.Repeat("─", widthChars)))
	sb.WriteString(fmt.Sprintf("          %-*.1f%*.1f\n", widthChars/2, minX, widthChars/2, maxX))

	// Legend
	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ▒▒▒ = Embankment\n")
	sb.WriteString("  ░░░ = Slip mass\n")
	sb.WriteString("  *** = Slip surface\n")
	if water != nil {
		sb.WriteString("  ~~~ = Phreatic line\n")
	}
	sb.WriteString(fmt.Sprintf("  Circle: center (%.2f, %.2f), R = %.2f m\n", data.Circle.Xc, data.Circle.Yc, data.Circle.Radius))

	return sb.String()
}

func cellAt(c geometry.Circle, ground, water *geometry.Profile, x, y, dy float64, inSpan bool) rune {
	half := dy / 2

	if c.Contains(x) {
		base := c.Base(x)
		if math.Abs(y-base) <= half {
			return '*'
		}
	}
	if water != nil && math.Abs(y-water.At(x)) <= half {
		return '~'
	}

	top := ground.At(x)
	if y > top {
		return ' '
	}
	if inSpan && c.Contains(x) && y > c.Base(x) {
		return '░'
	}
	return '▒'
}

// ConvergenceChart plots the factor of safety estimates per iteration
func ConvergenceChart(history []float64) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) == 1 {
		history = []float64{history[0], history[0]}
	}

	return asciigraph.Plot(history,
		asciigraph.Height(8),
		asciigraph.Width(48),
		asciigraph.Precision(3),
		asciigraph.Caption("FS estimate per iteration"),
	)
}

// DrawSliceTable renders per-slice values as fixed-width text
func DrawSliceTable(slices []bishop.Slice) string {
	var sb strings.Builder

	sb.WriteString("     #     x_mid       b       h        W    α (°)       u    y_bot\n")
	sb.WriteString("  ────  ────────  ──────  ──────  ───────  ───────  ──────  ───────\n")
	for i, s := range slices {
		sb.WriteString(fmt.Sprintf("  %4d  %8.2f  %6.3f  %6.2f  %7.1f  %7.2f  %6.1f  %7.2f\n",
			i+1, s.XMid, s.Width, s.Height, s.Weight, s.Alpha, s.PorePressure, s.YBot))
	}

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// pad right-pads s with spaces to n runes
func pad(s string, n int) string {
	if k := utf8.RuneCountInString(s); k < n {
		return s + strings.Repeat(" ", n-k)
	}
	return s
}
