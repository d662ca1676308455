package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// analysisName, analysisGroup, and analysisTags describe this tool to the
// harness via the analysis-tool protocol's info line (spec.md §6):
// "name;version;group;tag,tag,...", grounded on
// original_source/lib/jpamb/model.py's AnalysisInfo.parse.
const (
	analysisName  = "jpamb-sub000"
	analysisGroup = "go"
)

var analysisTags = []string{"concrete", "abstract", "syntactic", "debloat"}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the analysis-tool protocol info line",
	Long: `Print a single line the harness parses to discover this tool:
name;version;group;tag,tag,...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s;%s;%s;%s\n", analysisName, Version, analysisGroup, strings.Join(analysisTags, ","))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
