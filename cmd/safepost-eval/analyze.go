package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/safepost/safepost-eval/internal/chart"
	"github.com/safepost/safepost-eval/internal/evaluation"
	"github.com/safepost/safepost-eval/internal/report"
	"github.com/safepost/safepost-eval/internal/results"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Regenerate summary and charts from a saved results CSV",
		Long: `Reload a per-record results CSV from a previous run and re-derive the
confusion matrices, summary CSV and charts from it. Rows marked in the
error column are excluded from every matrix, exactly as in the original
run; for an error-free CSV the reconstructed counts are identical to the
live run's.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			csvPath, _ := cmd.Flags().GetString("csv")
			outputDir, _ := cmd.Flags().GetString("output")
			if outputDir == "" {
				outputDir = filepath.Join(filepath.Dir(csvPath), "analysis")
			}

			records, err := results.ReadCSV(csvPath)
			if err != nil {
				return err
			}
			log.Info("loaded records", "count", len(records), "csv", csvPath)

			// Same corpus invariant as the live run: ground truth is
			// never safe.
			for _, r := range records {
				if r.Expected.Safe {
					log.WithImage(r.ImagePath).Warn("ground truth marked safe, corpus expects every image unsafe")
				}
			}

			rep := evaluation.Evaluate(results.Outcomes(records))
			if rep.Errored > 0 {
				log.Warn("error records excluded from matrices", "errored", rep.Errored, "total", rep.Total)
			}

			if err := report.WriteSummaryCSV(filepath.Join(outputDir, "summary_metrics.csv"), rep); err != nil {
				return err
			}
			if err := chart.WriteAll(rep, outputDir); err != nil {
				return err
			}

			fmt.Printf("Analyzed %d record(s); summary and charts saved to: %s\n", rep.Total, outputDir)
			return nil
		},
	}

	cmd.Flags().String("csv", "", "results CSV from a previous run")
	cmd.Flags().String("output", "", "output directory (default: <csv dir>/analysis)")
	cmd.MarkFlagRequired("csv")

	return cmd
}
