package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/diagram"
	"github.com/alexiusacademia/goslope/internal/geometry"
	"github.com/alexiusacademia/goslope/internal/project"
	"github.com/alexiusacademia/goslope/internal/report"
	"github.com/alexiusacademia/goslope/internal/store"
	"github.com/spf13/cobra"
)

var (
	analyzeFile string

	// Circle overrides
	analyzeXc     float64
	analyzeYc     float64
	analyzeRadius float64

	// Soil overrides
	analyzeGamma    float64
	analyzeGammaW   float64
	analyzeCohesion float64
	analyzePhi      float64

	analyzeCondition string
	analyzeSlices    int

	// Output options
	analyzeShowDiagram bool
	analyzeShowSlices  bool
	analyzeShowChart   bool
	analyzeExportFile  string
	analyzePDFFile     string
	analyzeXLSXFile    string
	analyzeAuthor      string
	analyzeSave        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Calculate the factor of safety of a trial slip circle",
	Long: `Calculate the factor of safety (FS) of a circular slip surface using
Bishop's simplified method of slices.

The slope is defined in a JSON case file with the ground surface, an
optional phreatic line, soil parameters and the trial circle. Circle and
soil values can be overridden from the command line.

Example JSON file structure:
{
  "name": "Tailings Dam - Section A",
  "circle": {"xc": 95, "yc": 80, "radius": 60},
  "ground": [
    {"x": 40, "y": 10}, {"x": 70, "y": 45},
    {"x": 100, "y": 45}, {"x": 130, "y": 14}
  ],
  "water": [
    {"x": 40, "y": 10}, {"x": 85, "y": 30},
    {"x": 110, "y": 40}, {"x": 130, "y": 42}
  ],
  "soil": {"gamma": 18, "gamma_w": 9.81, "c": 15, "phi": 25},
  "condition": "steady"
}

Examples:
  goslope analyze --file examples/tailings-dam.json
  goslope analyze -f dam.json --yc 85 --radius 65 --diagram
  goslope analyze -f dam.json --phi 30 --pdf report.pdf --output map.png`,
	Run: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to case JSON file [required]")
	analyzeCmd.MarkFlagRequired("file")

	// Overrides
	analyzeCmd.Flags().Float64Var(&analyzeXc, "xc", 0, "Circle center x (m)")
	analyzeCmd.Flags().Float64Var(&analyzeYc, "yc", 0, "Circle center y (m)")
	analyzeCmd.Flags().Float64VarP(&analyzeRadius, "radius", "r", 0, "Circle radius (m)")
	analyzeCmd.Flags().Float64Var(&analyzeGamma, "gamma", 0, "Soil unit weight γ (kN/m³)")
	analyzeCmd.Flags().Float64Var(&analyzeGammaW, "gamma-w", 0, "Water unit weight γw (kN/m³)")
	analyzeCmd.Flags().Float64VarP(&analyzeCohesion, "cohesion", "c", 0, "Effective cohesion c' (kPa)")
	analyzeCmd.Flags().Float64Var(&analyzePhi, "phi", 0, "Effective friction angle φ' (degrees)")
	analyzeCmd.Flags().StringVar(&analyzeCondition, "condition", "", "Loading condition for the acceptance check (see 'goslope criteria')")
	analyzeCmd.Flags().IntVarP(&analyzeSlices, "slices", "n", 0, "Number of slices (default from config)")

	// Output options
	analyzeCmd.Flags().BoolVar(&analyzeShowDiagram, "diagram", false, "Show ASCII cross-section")
	analyzeCmd.Flags().BoolVar(&analyzeShowSlices, "table", false, "Show the slice table")
	analyzeCmd.Flags().BoolVar(&analyzeShowChart, "chart", false, "Show the FS convergence chart")
	analyzeCmd.Flags().StringVarP(&analyzeExportFile, "output", "o", "", "Export stability map to file (png, svg, pdf, jpg)")
	analyzeCmd.Flags().StringVar(&analyzePDFFile, "pdf", "", "Write a PDF report")
	analyzeCmd.Flags().StringVar(&analyzeXLSXFile, "xlsx", "", "Write slice data to an Excel workbook")
	analyzeCmd.Flags().StringVar(&analyzeAuthor, "author", "", "Author shown on the PDF report")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Record the analysis in the history database")
}

// applyAnalyzeOverrides copies explicitly set flags onto the case
func applyAnalyzeOverrides(cmd *cobra.Command, c *project.Case) {
	flags := cmd.Flags()

	if flags.Changed("xc") {
		c.Circle.Xc = analyzeXc
	}
	if flags.Changed("yc") {
		c.Circle.Yc = analyzeYc
	}
	if flags.Changed("radius") {
		c.Circle.Radius = analyzeRadius
	}

	soil := c.SoilParams()
	if flags.Changed("gamma") {
		soil.UnitWeight = analyzeGamma
	}
	if flags.Changed("gamma-w") {
		soil.WaterUnitWeight = analyzeGammaW
	}
	if flags.Changed("cohesion") {
		soil.Cohesion = analyzeCohesion
	}
	if flags.Changed("phi") {
		soil.FrictionAngle = analyzePhi
	}
	c.SetSoil(soil)

	if flags.Changed("condition") {
		c.Condition = analyzeCondition
	}
	if flags.Changed("slices") {
		if c.Options == nil {
			c.Options = &bishop.Options{}
		}
		c.Options.Slices = analyzeSlices
	}
}

func runAnalyze(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	c, err := project.LoadFromFile(analyzeFile)
	if err != nil {
		fmt.Printf("Error loading case: %v\n", err)
		return
	}
	applyAnalyzeOverrides(cmd, c)
	c.ApplyOptions(cfg.Solver.Options())

	out, err := c.Run()
	if err != nil {
		fmt.Printf("Error analyzing case: %v\n", err)
		return
	}
	res := out.Result
	soil := c.SoilParams()

	// Print results
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     SLOPE STABILITY ANALYSIS - BISHOP SIMPLIFIED METHOD")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	if c.Name != "" {
		fmt.Printf("  Case: %s\n", c.Name)
	}
	if c.Description != "" {
		fmt.Printf("  Description: %s\n", c.Description)
	}
	fmt.Println()

	fmt.Println("SOIL PARAMETERS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Unit weight (γ):\t%.2f kN/m³\n", soil.UnitWeight)
	fmt.Fprintf(w, "  Water unit weight (γw):\t%.2f kN/m³\n", soil.WaterUnitWeight)
	fmt.Fprintf(w, "  Cohesion (c'):\t%.2f kPa\n", soil.Cohesion)
	fmt.Fprintf(w, "  Friction angle (φ'):\t%.2f°\n", soil.FrictionAngle)
	w.Flush()
	fmt.Println()

	fmt.Println("GEOMETRY:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Circle center:\t(%.2f, %.2f) m\n", c.Circle.Xc, c.Circle.Yc)
	fmt.Fprintf(w, "  Radius:\t%.2f m\n", c.Circle.Radius)
	fmt.Fprintf(w, "  Ground points:\t%d\n", len(c.Ground))
	if len(c.Water) > 0 {
		fmt.Fprintf(w, "  Phreatic points:\t%d\n", len(c.Water))
	} else {
		fmt.Fprintf(w, "  Phreatic line:\tnone (dry)\n")
	}
	w.Flush()
	fmt.Println()

	if res.HasSlipMass() {
		fmt.Println("SLIP MASS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Entry (x_start):\t%.3f m\n", res.Span.Start)
		fmt.Fprintf(w, "  Exit (x_end):\t%.3f m\n", res.Span.End)
		fmt.Fprintf(w, "  Span:\t%.3f m\n", res.Span.Length())
		fmt.Fprintf(w, "  Slices:\t%d\n", len(res.Slices))
		if len(res.Slices) > 0 {
			fmt.Fprintf(w, "  Slice width (b):\t%.3f m\n", res.Slices[0].Width)
		}
		w.Flush()
		fmt.Println()

		fmt.Println("SOLVER:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Driving moment ΣW·sinα:\t%.2f kN/m\n", res.Driving)
		fmt.Fprintf(w, "  Resisting sum (final):\t%.2f kN/m\n", res.Resisting)
		fmt.Fprintf(w, "  Iterations:\t%d\n", res.Iterations)
		fmt.Fprintf(w, "  Outcome:\t%s\n", res.Outcome.Description())
		w.Flush()
		fmt.Println()
	}

	fs := "N/A"
	if res.HasValue() {
		fs = fmt.Sprintf("%.3f", res.FS)
	}
	fmt.Printf("  ╔═════════════════════════════════════════════════╗\n")
	fmt.Printf("  ║  FACTOR OF SAFETY FS = %-25s║\n", fs)
	fmt.Printf("  ╚═════════════════════════════════════════════════╝\n")
	fmt.Println()

	fmt.Println("STATUS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	if !res.HasSlipMass() {
		fmt.Println("  No valid slip mass: the circle does not cut the ground surface.")
	}
	fmt.Printf("  %s\n", out.StatusText())
	if out.Check != nil {
		fmt.Printf("  %s (%s, FS ≥ %.2f)\n", out.Check.Message, out.Check.Condition.ID, out.Check.Condition.MinimumFS)
	}
	fmt.Println()

	data := report.CrossSection(c, out)

	if analyzeShowDiagram {
		fmt.Println(diagram.DrawASCIICrossSection(data))
	}
	if analyzeShowSlices && len(res.Slices) > 0 {
		fmt.Println("SLICES:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		fmt.Println(diagram.DrawSliceTable(res.Slices))
	}
	if analyzeShowChart && len(res.History) > 1 {
		fmt.Println(diagram.ConvergenceChart(res.History))
		fmt.Println()
	}

	if analyzeExportFile != "" {
		if err := diagram.ExportCrossSection(data, analyzeExportFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", analyzeExportFile)
		}
	}

	if analyzePDFFile != "" {
		if err := writeFile(analyzePDFFile, func(f *os.File) error {
			return report.WritePDF(f, report.Report{Author: analyzeAuthor, Case: c, Outcome: out})
		}); err != nil {
			fmt.Printf("Error writing PDF report: %v\n", err)
		} else {
			fmt.Printf("PDF report written to: %s\n", analyzePDFFile)
		}
	}

	if analyzeXLSXFile != "" {
		if err := writeFile(analyzeXLSXFile, func(f *os.File) error {
			return report.WriteSlicesXLSX(f, c, out)
		}); err != nil {
			fmt.Printf("Error writing workbook: %v\n", err)
		} else {
			fmt.Printf("Workbook written to: %s\n", analyzeXLSXFile)
		}
	}

	if analyzeSave {
		id, err := saveAnalysis(cfg.Store.Path, c, out)
		if err != nil {
			fmt.Printf("Error saving analysis: %v\n", err)
		} else {
			fmt.Printf("Analysis saved with id: %s\n", id)
		}
	}
}

func saveAnalysis(path string, c *project.Case, out *project.Outcome) (string, error) {
	if path == "" {
		return "", fmt.Errorf("store.path is not configured")
	}
	st, err := store.NewStore(path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	rec, err := st.Save(context.Background(), c, out.Result)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// writeFile creates path and hands it to write
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// circleLabel formats a circle for tables
func circleLabel(c geometry.Circle) string {
	return fmt.Sprintf("(%.2f, %.2f) R=%.2f", c.Xc, c.Yc, c.Radius)
}
