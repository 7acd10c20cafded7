package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/goslope/internal/config"
	"github.com/alexiusacademia/goslope/internal/version"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "goslope",
	Short: "Slope Stability Analysis Tool",
	Long: `goslope - Go Slope Stability Analyzer

A CLI tool for the stability analysis of earth slopes and embankments
using Bishop's simplified method of slices on circular slip surfaces.

This tool helps geotechnical engineers perform:
  - Factor of safety calculation for a trial slip circle
  - Pore pressure effects from a phreatic line
  - Batch evaluation of many trial circles from a spreadsheet
  - Acceptance checks against loading condition minimums
  - PDF, Excel and image reporting

Settings are read from an optional config file, a .env file and
GOSLOPE_* environment variables.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   goslope v%-47s║\n", version.Version)
		fmt.Println("  ║   Go Slope Stability Analyzer                             ║")
		fmt.Println("  ║   Bishop Simplified Method of Slices                      ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the stability analysis of earth slopes")
		fmt.Println("  on circular slip surfaces.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Factor of safety by Bishop's simplified method")
		fmt.Println("    • Phreatic line and pore pressure support")
		fmt.Println("    • Batch analysis of trial circles from Excel")
		fmt.Println("    • Loading condition acceptance checks")
		fmt.Println("    • HTTP API with analysis history")
		fmt.Println()
		fmt.Println("  Use 'goslope --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (yaml, json or toml)")
}

// loadConfig reads settings for commands that need them
func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}
