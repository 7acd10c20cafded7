package cmd

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/alexiusacademia/goslope/internal/project"
	"github.com/alexiusacademia/goslope/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	batchFile        string
	batchCirclesFile string
	batchOutputFile  string
	batchWorkers     int

	batchTemplateFile string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze many trial circles against one slope",
	Long: `Run the analysis for every trial circle listed in an Excel workbook.

The slope (ground, phreatic line, soil) comes from the case file; the
circle in the case file is replaced by each row of the workbook. The
workbook's first sheet must have the columns name, xc, yc, radius with
one header row. Each circle is analyzed independently.

Examples:
  goslope batch template -f dam.json -o circles.xlsx
  goslope batch -f dam.json --circles circles.xlsx -o results.xlsx`,
	Run: runBatch,
}

var batchTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a circles workbook to fill in",
	Run:   runBatchTemplate,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.AddCommand(batchTemplateCmd)

	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Path to case JSON file [required]")
	batchCmd.Flags().StringVar(&batchCirclesFile, "circles", "", "Workbook listing the trial circles [required]")
	batchCmd.Flags().StringVarP(&batchOutputFile, "output", "o", "", "Write results to an Excel workbook")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", runtime.NumCPU(), "Number of circles analyzed in parallel")
	batchCmd.MarkFlagRequired("file")
	batchCmd.MarkFlagRequired("circles")

	batchTemplateCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Case file whose circle seeds the template")
	batchTemplateCmd.Flags().StringVarP(&batchTemplateFile, "output", "o", "circles.xlsx", "Template file to write")
}

// analyzeCircles runs every circle against the base case. Results keep the
// order of circles.
func analyzeCircles(base *project.Case, circles []report.CircleRow, workers int) ([]report.BatchRow, error) {
	rows := make([]report.BatchRow, len(circles))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, cr := range circles {
		i, cr := i, cr
		g.Go(func() error {
			c := base.WithCircle(cr.Circle, cr.Name)
			out, err := c.Run()
			if err != nil {
				return fmt.Errorf("%s: %w", cr.Name, err)
			}
			rows[i] = report.BatchRow{
				Name:   cr.Name,
				Circle: cr.Circle,
				Result: out.Result,
				Status: out.Status,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func runBatch(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	base, err := project.LoadFromFile(batchFile)
	if err != nil {
		fmt.Printf("Error loading case: %v\n", err)
		return
	}
	base.ApplyOptions(cfg.Solver.Options())

	f, err := os.Open(batchCirclesFile)
	if err != nil {
		fmt.Printf("Error opening circles: %v\n", err)
		return
	}
	circles, err := report.ReadCircles(f)
	f.Close()
	if err != nil {
		fmt.Printf("Error reading circles: %v\n", err)
		return
	}

	rows, err := analyzeCircles(base, circles, batchWorkers)
	if err != nil {
		fmt.Printf("Error analyzing circles: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("          BATCH SLOPE STABILITY ANALYSIS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Case: %s\n", base.Name)
	fmt.Printf("  Circles: %d\n", len(rows))
	fmt.Println()

	critical := -1
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tName\tCircle\tFS\tIter\tStatus\n")
	fmt.Fprintf(w, "  ─\t────\t──────\t──\t────\t──────\n")
	for i, row := range rows {
		fs := "N/A"
		if row.Result.HasValue() {
			fs = fmt.Sprintf("%.3f", row.Result.FS)
			if critical < 0 || row.Result.FS < rows[critical].Result.FS {
				critical = i
			}
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%d\t%s\n", i+1, row.Name, circleLabel(row.Circle), fs, row.Result.Iterations, row.Status)
	}
	w.Flush()
	fmt.Println()

	if critical >= 0 {
		row := rows[critical]
		fmt.Println("CRITICAL CIRCLE:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		fmt.Printf("  %s %s  FS = %.3f\n", row.Name, circleLabel(row.Circle), row.Result.FS)
		fmt.Println()
	}

	if batchOutputFile != "" {
		if err := writeFile(batchOutputFile, func(f *os.File) error {
			return report.WriteBatchXLSX(f, rows)
		}); err != nil {
			fmt.Printf("Error writing results: %v\n", err)
		} else {
			fmt.Printf("Results written to: %s\n", batchOutputFile)
		}
	}
}

func runBatchTemplate(cmd *cobra.Command, args []string) {
	var circles []report.CircleRow
	if batchFile != "" {
		c, err := project.LoadFromFile(batchFile)
		if err != nil {
			fmt.Printf("Error loading case: %v\n", err)
			return
		}
		circles = append(circles, report.CircleRow{Name: c.Name, Circle: c.Circle})
	}

	if err := writeFile(batchTemplateFile, func(f *os.File) error {
		return report.WriteCirclesTemplate(f, circles)
	}); err != nil {
		fmt.Printf("Error writing template: %v\n", err)
		return
	}
	fmt.Printf("Template written to: %s\n", batchTemplateFile)
}
