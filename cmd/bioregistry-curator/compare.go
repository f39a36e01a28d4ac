package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pdiddy/bioregistry-curator/internal/compare"
	"github.com/pdiddy/bioregistry-curator/internal/merge"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare manual and automated curations field by field",
	Long: `Compare pairs each <resource>.json in the manual directory with the file of
the same name in the automated directory and writes a CSV with one row per
side. Each file holds a bioregistry-shaped object keyed by the resource id,
as written by "extract --format bioregistry". Resources without an
automated file are skipped.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().String("manual-dir", "benchmarks/data/manual", "directory of manually curated entries")
	compareCmd.Flags().String("automated-dir", "benchmarks/data/automated", "directory of automated drafts")
	compareCmd.Flags().String("out", "benchmarks/results/comparison_results.csv", "CSV output path")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	manualDir, _ := cmd.Flags().GetString("manual-dir")
	automatedDir, _ := cmd.Flags().GetString("automated-dir")
	outPath, _ := cmd.Flags().GetString("out")

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	summary, err := compare.Compare(manualDir, automatedDir, merge.BioregistryFields, f)
	if err != nil {
		return err
	}

	for _, id := range summary.Skipped {
		pterm.Warning.Printfln("%s skipped (no automated version)", id)
	}
	if summary.Compared > 0 {
		data := pterm.TableData{{"Field", "Matching"}}
		for _, field := range merge.BioregistryFields {
			data = append(data, []string{field, strconv.Itoa(summary.Matches[field]) + "/" + strconv.Itoa(summary.Compared)})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}
	pterm.Success.Printfln("Compared %d resources; results saved to %s", summary.Compared, outPath)
	return nil
}
