package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-agent/internal/agent"
	"github.com/jonathan/hiring-agent/internal/config"
	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/llm"
	"github.com/jonathan/hiring-agent/internal/observability"
	"github.com/jonathan/hiring-agent/internal/scoring"
)

var (
	analyzeCandidateID int64
	analyzeJobID       int64
	analyzeAllJobID    int64
	analyzeConcurrency int
	analyzeVerbose     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a candidate (or all candidates for a job) from the command line",
	Long: `Run the LLM analysis and scoring engine without starting the HTTP server.
Use --candidate to analyze one candidate, or --all-for-job to analyze every
candidate linked to a job description.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int64Var(&analyzeCandidateID, "candidate", 0, "Candidate ID to analyze")
	analyzeCmd.Flags().Int64Var(&analyzeJobID, "job", 0, "Job description ID (optional, defaults to the candidate's linked job)")
	analyzeCmd.Flags().Int64Var(&analyzeAllJobID, "all-for-job", 0, "Analyze all candidates linked to this job description ID")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 0, "Concurrent analyses for --all-for-job")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a formatted summary instead of raw JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzeCandidateID <= 0 && analyzeAllJobID <= 0 {
		return fmt.Errorf("either --candidate or --all-for-job is required")
	}

	ctx := cmd.Context()
	ag, cleanup, err := buildAgent(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if analyzeAllJobID > 0 {
		res, err := ag.AnalyzeAll(ctx, analyzeAllJobID, analyzeConcurrency)
		if err != nil {
			return err
		}
		if analyzeVerbose {
			printer := observability.NewPrinter(os.Stdout)
			for i := range res.Runs {
				printer.PrintAnalysisRun(&res.Runs[i])
			}
			fmt.Printf("Analyzed %d candidates (%d failed)\n", res.Analyzed, res.Failed)
			return nil
		}
		return encodeJSON(res)
	}

	var jobID *int64
	if analyzeJobID > 0 {
		jobID = &analyzeJobID
	}
	run, err := ag.AnalyzeCandidate(ctx, analyzeCandidateID, jobID)
	if err != nil {
		return err
	}
	if analyzeVerbose {
		observability.NewPrinter(os.Stdout).PrintAnalysisRun(run)
		return nil
	}
	return encodeJSON(run)
}

func encodeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// buildAgent wires the database, LLM client, and scoring engine for CLI use.
// The returned cleanup closes both connections.
func buildAgent(ctx context.Context) (*agent.Agent, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	engine := scoring.NewEngine(cfg.Weights, cfg.Thresholds)
	ag := agent.New(database, client, engine, cfg.ResumeDir)

	cleanup := func() {
		_ = client.Close()
		database.Close()
	}
	return ag, cleanup, nil
}
