package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-agent/internal/db"
)

// defaultAnalysisConcurrency bounds the number of in-flight LLM calls during
// a batch analysis.
const defaultAnalysisConcurrency = 4

// BatchResult is the outcome of a batch analysis over one job description.
type BatchResult struct {
	JobDescriptionID int64            `json:"job_description_id"`
	Analyzed         int              `json:"analyzed"`
	Failed           int              `json:"failed"`
	Runs             []db.AnalysisRun `json:"runs"`
	Errors           []string         `json:"errors,omitempty"`
}

// AnalyzeAll analyzes every candidate linked to the job description with
// bounded concurrency. Individual candidate failures are collected rather
// than aborting the batch.
func (a *Agent) AnalyzeAll(ctx context.Context, jobDescriptionID int64, concurrency int) (*BatchResult, error) {
	jd, err := a.store.GetJobDescription(ctx, jobDescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job description: %w", err)
	}
	if jd == nil {
		return nil, &NotFoundError{Resource: "job description", ID: jobDescriptionID}
	}

	candidates, err := a.store.ListCandidates(ctx, db.CandidateFilters{JobDescriptionID: &jobDescriptionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	if concurrency <= 0 {
		concurrency = defaultAnalysisConcurrency
	}

	res := &BatchResult{JobDescriptionID: jobDescriptionID}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, cand := range candidates {
		cand := cand
		g.Go(func() error {
			run, err := a.AnalyzeCandidate(gctx, cand.ID, &jobDescriptionID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("candidate %d: %v", cand.ID, err))
				return nil
			}
			res.Analyzed++
			res.Runs = append(res.Runs, *run)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(res.Runs, func(i, j int) bool { return res.Runs[i].CandidateID < res.Runs[j].CandidateID })
	return res, nil
}
