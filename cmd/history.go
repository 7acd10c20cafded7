package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/goslope/internal/diagram"
	"github.com/alexiusacademia/goslope/internal/store"
	"github.com/spf13/cobra"
)

var (
	historyDB    string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded analyses",
	Long: `List, show and delete analyses recorded with 'analyze --save' or
through the HTTP API.

Examples:
  goslope history list --limit 10
  goslope history show 7f9c2d0e-...
  goslope history delete 7f9c2d0e-...`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analyses, newest first",
	Run:   runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded analysis",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one recorded analysis",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryDelete,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)

	historyCmd.PersistentFlags().StringVar(&historyDB, "db", "", "History database (default from config store.path)")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of analyses to list")
}

func openHistory() (*store.Store, error) {
	path := historyDB
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Store.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no history database configured")
	}
	return store.NewStore(path)
}

func runHistoryList(cmd *cobra.Command, args []string) {
	st, err := openHistory()
	if err != nil {
		fmt.Printf("Error opening history: %v\n", err)
		return
	}
	defer st.Close()

	recs, err := st.List(context.Background(), historyLimit)
	if err != nil {
		fmt.Printf("Error listing analyses: %v\n", err)
		return
	}
	if len(recs) == 0 {
		fmt.Println("No analyses recorded.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID\tName\tDate\tOutcome\tFS\n")
	fmt.Fprintf(w, "  ──\t────\t────\t───────\t──\n")
	for _, rec := range recs {
		fs := "N/A"
		if rec.FS != nil {
			fs = fmt.Sprintf("%.3f", *rec.FS)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", rec.ID, rec.Name, rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Outcome, fs)
	}
	w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	st, err := openHistory()
	if err != nil {
		fmt.Printf("Error opening history: %v\n", err)
		return
	}
	defer st.Close()

	rec, err := st.Get(context.Background(), args[0])
	if err != nil {
		fmt.Printf("Error loading analysis: %v\n", err)
		return
	}

	fs := "N/A"
	if rec.FS != nil {
		fs = fmt.Sprintf("%.3f", *rec.FS)
	}
	lines := []string{
		"ID:         " + rec.ID,
		"Name:       " + rec.Name,
		"Date:       " + rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		"Outcome:    " + rec.Outcome.Description(),
		"FS:         " + fs,
		fmt.Sprintf("Iterations: %d", rec.Iterations),
	}
	if rec.Case != nil {
		lines = append(lines, "Circle:     "+circleLabel(rec.Case.Circle))
	}
	fmt.Println(diagram.DrawSummaryBox("RECORDED ANALYSIS", lines))

	if rec.Result != nil && len(rec.Result.Slices) > 0 {
		fmt.Println(diagram.DrawSliceTable(rec.Result.Slices))
	}
}

func runHistoryDelete(cmd *cobra.Command, args []string) {
	st, err := openHistory()
	if err != nil {
		fmt.Printf("Error opening history: %v\n", err)
		return
	}
	defer st.Close()

	if err := st.Delete(context.Background(), args[0]); err != nil {
		fmt.Printf("Error deleting analysis: %v\n", err)
		return
	}
	fmt.Printf("Deleted analysis %s\n", args[0])
}
