package cmd

import (
	"fmt"

	"github.com/alexiusacademia/goslope/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of goslope",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("goslope v%s\n", version.Version)
		fmt.Println("Slope Stability Analysis Tool")
		fmt.Println("Bishop Simplified Method of Slices")
		fmt.Printf("Build: %s (%s)\n", version.BuildTime, version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
