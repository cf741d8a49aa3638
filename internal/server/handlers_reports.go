package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/report"
)

// buildHiringReport assembles the hiring report for a job description from
// the latest analysis run of each candidate.
func (s *Server) buildHiringReport(r *http.Request, jobDescriptionID int64) (*report.HiringReport, error) {
	ctx := r.Context()

	jd, err := s.db.GetJobDescription(ctx, jobDescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job description: %w", err)
	}
	if jd == nil {
		return nil, nil
	}

	runs, err := s.db.LatestAnalysesForJob(ctx, jobDescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyses: %w", err)
	}

	entries := make([]report.CandidateAnalysis, 0, len(runs))
	for _, run := range runs {
		cand, err := s.db.GetCandidate(ctx, run.CandidateID)
		if err != nil {
			return nil, fmt.Errorf("failed to load candidate %d: %w", run.CandidateID, err)
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
	return &rep, nil
}

func (s *Server) handleHiringReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "job_description_id", "job description ID")
	if !ok {
		return
	}

	rep, err := s.buildHiringReport(r, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rep == nil {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, rep)
}

// handleHiringReportExport streams the hiring report as an xlsx workbook.
func (s *Server) handleHiringReportExport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "job_description_id", "job description ID")
	if !ok {
		return
	}

	rep, err := s.buildHiringReport(r, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rep == nil {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="hiring_report_%d.xlsx"`, id))
	if err := report.WriteWorkbook(w, *rep); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to write workbook: "+err.Error())
	}
}

// handleRanking returns candidates ranked by final score, best first.
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "job_description_id", "job description ID")
	if !ok {
		return
	}

	rep, err := s.buildHiringReport(r, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rep == nil {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}

	ranked := rep.RankedCandidates
	if limit := queryInt(r, "limit", 10); limit < len(ranked) {
		ranked = ranked[:limit]
	}

	s.jsonResponse(w, http.StatusOK, ranked)
}

// handleInterviewStrategy returns the interview plan derived from the
// candidate's most recent analysis. An optional ?job_description_id= query
// scopes the lookup to analyses against that job.
func (s *Server) handleInterviewStrategy(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "candidate_id", "candidate ID")
	if !ok {
		return
	}

	var jobID int64
	if raw := r.URL.Query().Get("job_description_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid job_description_id")
			return
		}
		jobID = parsed
	}

	cand, err := s.db.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if cand == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	var run *db.AnalysisRun
	if jobID != 0 {
		run, err = s.db.LatestAnalysisRun(r.Context(), id, jobID)
	} else {
		run, err = s.db.LatestAnalysisForCandidate(r.Context(), id)
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate has not been analyzed yet")
		return
	}

	s.jsonResponse(w, http.StatusOK, report.Strategy(run.Result))
}
