package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/goslope/internal/criteria"
	"github.com/spf13/cobra"
)

var criteriaFS float64

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Show loading conditions and factor of safety bands",
	Long: `List the minimum factors of safety for each loading condition and the
status bands used to classify results.

With --fs, the given factor of safety is checked against every loading
condition.

Examples:
  goslope criteria
  goslope criteria --fs 1.42`,
	Run: runCriteria,
}

func init() {
	rootCmd.AddCommand(criteriaCmd)
	criteriaCmd.Flags().Float64Var(&criteriaFS, "fs", 0, "Factor of safety to check")
}

func runCriteria(cmd *cobra.Command, args []string) {
	check := cmd.Flags().Changed("fs")

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("          SLOPE STABILITY ACCEPTANCE CRITERIA")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("STATUS BANDS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  FS < %.1f\t%s\n", criteria.FailureLimit, criteria.Failure)
	fmt.Fprintf(w, "  %.1f ≤ FS < %.1f\t%s\n", criteria.FailureLimit, criteria.MarginalLimit, criteria.Marginal)
	fmt.Fprintf(w, "  FS ≥ %.1f\t%s\n", criteria.MarginalLimit, criteria.Stable)
	w.Flush()
	fmt.Println()

	fmt.Println("LOADING CONDITIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if check {
		fmt.Fprintf(w, "  ID\tCondition\tSlope\tMin FS\tRatio\tResult\n")
		fmt.Fprintf(w, "  ──\t─────────\t─────\t──────\t─────\t──────\n")
	} else {
		fmt.Fprintf(w, "  ID\tCondition\tSlope\tMin FS\n")
		fmt.Fprintf(w, "  ──\t─────────\t─────\t──────\n")
	}
	for _, lc := range criteria.LoadingConditions {
		if !check {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%.2f\n", lc.ID, lc.Description, lc.Slope, lc.MinimumFS)
			continue
		}
		chk := lc.Evaluate(criteriaFS, true)
		result := "✗ INADEQUATE"
		if chk.Adequate {
			result = "✓ OK"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%.2f\t%.3f\t%s\n", lc.ID, lc.Description, lc.Slope, lc.MinimumFS, chk.Ratio, result)
	}
	w.Flush()
	fmt.Println()

	if check {
		fmt.Println("STATUS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		fmt.Printf("  FS = %.3f: %s\n", criteriaFS, criteria.Classify(criteriaFS, true))
		fmt.Println()
	}
}
