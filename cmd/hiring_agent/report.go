package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-agent/internal/config"
	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/observability"
	"github.com/jonathan/hiring-agent/internal/report"
)

var (
	reportJobID   int64
	reportOut     string
	reportVerbose bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the hiring report for a job description as an xlsx workbook",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&reportJobID, "job", 0, "Job description ID (required)")
	reportCmd.Flags().StringVar(&reportOut, "out", "hiring_report.xlsx", "Output file path")
	reportCmd.Flags().BoolVarP(&reportVerbose, "verbose", "v", false, "Print the report summary to stdout")
	_ = reportCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	jd, err := database.GetJobDescription(ctx, reportJobID)
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}
	if jd == nil {
		return fmt.Errorf("job description %d not found", reportJobID)
	}

	runs, err := database.LatestAnalysesForJob(ctx, reportJobID)
	if err != nil {
		return fmt.Errorf("failed to load analyses: %w", err)
	}

	entries := make([]report.CandidateAnalysis, 0, len(runs))
	for _, run := range runs {
		cand, err := database.GetCandidate(ctx, run.CandidateID)
		if err != nil {
			return fmt.Errorf("failed to load candidate %d: %w", run.CandidateID, err)
		}
		entry := report.CandidateAnalysis{
			CandidateID: run.CandidateID,
			AnalyzedAt:  run.AnalysisTimestamp,
			Analysis:    run.Result,
		}
		if cand != nil {
			entry.CandidateName = cand.Name
			entry.CandidateEmail = cand.Email
		}
		entries = append(entries, entry)
	}

	rep := report.Build(jd.ID, jd.Title, entries, time.Now().UTC())

	if reportVerbose {
		observability.NewPrinter(os.Stdout).PrintHiringReport(&rep)
	}

	f, err := os.Create(reportOut)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := report.WriteWorkbook(f, rep); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	fmt.Printf("Wrote %s (%d candidates)\n", reportOut, rep.Summary.TotalCandidates)
	return nil
}
