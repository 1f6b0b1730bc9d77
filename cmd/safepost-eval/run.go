package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/safepost/safepost-eval/internal/chart"
	"github.com/safepost/safepost-eval/internal/config"
	"github.com/safepost/safepost-eval/internal/corpus"
	"github.com/safepost/safepost-eval/internal/detector"
	"github.com/safepost/safepost-eval/internal/evaluation"
	"github.com/safepost/safepost-eval/internal/history"
	"github.com/safepost/safepost-eval/internal/pkg/logger"
	"github.com/safepost/safepost-eval/internal/report"
	"github.com/safepost/safepost-eval/internal/results"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the corpus against a live analyze endpoint",
		Long: `Walk the corpus root, submit every labeled image to the analyze
endpoint one at a time, and write the full artifact set: console report,
per-record CSV and JSON, summary CSV, and charts.

Individual detector failures become error-marked records and do not stop
the run; a missing corpus or empty corpus aborts before anything is
written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
				cfg.Endpoint = endpoint
			}
			if corpusDir, _ := cmd.Flags().GetString("corpus"); corpusDir != "" {
				cfg.CorpusDir = corpusDir
			}
			if outputDir, _ := cmd.Flags().GetString("output"); outputDir != "" {
				cfg.OutputDir = outputDir
			}

			return runEvaluation(cmd, cfg, log)
		},
	}

	cmd.Flags().String("endpoint", "", "analyze endpoint URL (overrides config)")
	cmd.Flags().String("corpus", "", "corpus root directory (overrides config)")
	cmd.Flags().String("output", "", "output directory (overrides config)")

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Format), nil
}

func runEvaluation(cmd *cobra.Command, cfg *config.Config, log *logger.Logger) error {
	ctx := cmd.Context()

	cases, err := corpus.Discover(cfg.CorpusDir, log)
	if err != nil {
		return err
	}
	if violations := corpus.VerifyGroundTruth(cases, log); violations > 0 {
		log.Warn("corpus integrity check failed", "violations", violations)
	}
	log.Info("collected test images", "count", len(cases), "corpus", cfg.CorpusDir)

	client := detector.New(detectorConfig(cfg))

	fmt.Printf("Analyzing %d image(s) against %s\n", len(cases), cfg.Endpoint)
	records := collect(ctx, client, cases, log)

	rep := evaluation.Evaluate(results.Outcomes(records))

	report.Console(os.Stdout, rep)
	report.ReasoningSummary(os.Stdout, records)

	if err := writeArtifacts(cfg.OutputDir, records, rep, log); err != nil {
		return err
	}

	if cfg.History.Enabled {
		recordHistory(cmd, cfg, rep, log)
	}

	return nil
}

func detectorConfig(cfg *config.Config) detector.Config {
	dc := detector.DefaultConfig()
	dc.Endpoint = cfg.Endpoint
	dc.Timeout = time.Duration(cfg.Detector.TimeoutSeconds) * time.Second
	dc.RequestsPerSecond = cfg.Detector.RequestsPerSecond
	return dc
}

// collect calls the detector once per image, strictly sequentially. Each
// failure degrades to an error-marked record.
func collect(ctx context.Context, client *detector.Client, cases []corpus.TestCase, log *logger.Logger) []results.Record {
	records := make([]results.Record, 0, len(cases))
	for i, tc := range cases {
		fmt.Printf("[%d/%d] %s/%s... ", i+1, len(cases), tc.Category, filepath.Base(tc.Path))

		record := results.Record{
			ImagePath: tc.Path,
			Category:  tc.Category,
			Expected:  tc.Expected,
		}

		analysis, err := client.Analyze(ctx, tc.Path)
		if err != nil {
			record.Error = err.Error()
			fmt.Printf("ERROR: %v\n", err)
			log.WithImage(tc.Path).WithError(err).Warn("detector call failed")
		} else {
			record.Actual = analysis.Labels()
			record.Message = analysis.Message
			record.Reasoning = analysis.Reasoning
			record.RedactionSuggestions = analysis.RedactionSuggestions

			verdict := "OK"
			if record.Actual.Safe != record.Expected.Safe {
				verdict = "MISS"
			}
			fmt.Printf("%s safe=%t (expected %t)\n", verdict, record.Actual.Safe, record.Expected.Safe)
		}

		records = append(records, record)
	}
	return records
}

func writeArtifacts(outputDir string, records []results.Record, rep *evaluation.Report, log *logger.Logger) error {
	analysisDir := filepath.Join(outputDir, "analysis")
	if err := os.MkdirAll(analysisDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	imagesDir := filepath.Join(outputDir, "images")
	copied := results.CopyImages(records, imagesDir, log)
	fmt.Printf("Copied %d image(s) to %s\n", copied, imagesDir)

	stamp := rep.Timestamp.Format("20060102_150405")

	csvPath := filepath.Join(outputDir, "test_results_"+stamp+".csv")
	if err := results.WriteCSV(csvPath, records); err != nil {
		return err
	}
	fmt.Printf("Results saved to CSV: %s\n", csvPath)

	jsonPath := filepath.Join(outputDir, "test_results_"+stamp+".json")
	if err := results.WriteJSON(jsonPath, records, rep.Timestamp); err != nil {
		return err
	}
	fmt.Printf("Detailed results saved to JSON: %s\n", jsonPath)

	if err := report.WriteSummaryCSV(filepath.Join(analysisDir, "summary_metrics.csv"), rep); err != nil {
		return err
	}
	if err := chart.WriteAll(rep, analysisDir); err != nil {
		return err
	}
	fmt.Printf("Summary and charts saved to: %s\n", analysisDir)

	return nil
}

// recordHistory appends the run summary to Redis. History is best
// effort: failures are logged, never fatal.
func recordHistory(cmd *cobra.Command, cfg *config.Config, rep *evaluation.Report, log *logger.Logger) {
	store, err := history.NewStore(cfg.History.RedisURL, time.Duration(cfg.History.TTLHours)*time.Hour)
	if err != nil {
		log.WithError(err).Warn("run history unavailable")
		return
	}
	defer store.Close()

	if err := store.Record(cmd.Context(), history.Summarize(rep)); err != nil {
		log.WithError(err).Warn("recording run history failed")
		return
	}
	log.Info("run summary recorded", "redis", cfg.History.RedisURL)
}
