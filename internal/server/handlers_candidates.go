package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/hiring-agent/internal/agent"
	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/ingestion"
)

// CreateCandidateRequest is the request body for POST /candidates.
type CreateCandidateRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone"`
	ResumeText       string `json:"resume_text" validate:"required"`
	JobDescriptionID *int64 `json:"job_description_id"`
}

// AnalyzeRequest is the optional request body for POST /candidates/{id}/analyze.
type AnalyzeRequest struct {
	JobDescriptionID *int64 `json:"job_description_id"`
}

// InterviewQuestionsRequest is the optional request body for
// POST /candidates/{id}/interview-questions.
type InterviewQuestionsRequest struct {
	FocusAreas []string `json:"focus_areas"`
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if req.JobDescriptionID != nil {
		jd, err := s.db.GetJobDescription(r.Context(), *req.JobDescriptionID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if jd == nil {
			s.errorResponse(w, http.StatusNotFound, "Job description not found")
			return
		}
	}

	existing, err := s.db.FindDuplicateCandidate(r.Context(), req.Name, req.Email)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if existing != nil {
		s.respondError(w, &agent.DuplicateCandidateError{Existing: existing})
		return
	}

	cand, err := s.db.CreateCandidate(r.Context(), &db.Candidate{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		ResumeText:       ingestion.CleanText(req.ResumeText),
		JobDescriptionID: req.JobDescriptionID,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, cand)
}

// handleUploadResume accepts a multipart resume file and creates a candidate
// from it. Form fields name, email, phone, and job_description_id are
// optional overrides.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(ingestion.MaxFileSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Resume file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, ingestion.MaxFileSize+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read resume file: "+err.Error())
		return
	}

	upload := agent.ResumeUpload{
		Filename: header.Filename,
		Content:  content,
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
	}
	if raw := r.FormValue("job_description_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid job_description_id")
			return
		}
		upload.JobDescriptionID = &id
	}

	cand, err := s.agent.CreateCandidateFromResume(r.Context(), upload)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, cand)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	filters := db.CandidateFilters{Limit: queryInt(r, "limit", 100)}
	if raw := r.URL.Query().Get("job_description_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid job_description_id")
			return
		}
		filters.JobDescriptionID = &id
	}

	candidates, err := s.db.ListCandidates(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, candidates)
}

// CandidateDetail is the GET /candidates/{id} response: the candidate plus the
// extended profile when one was extracted.
type CandidateDetail struct {
	*db.Candidate
	Profile *db.CandidateProfile `json:"profile,omitempty"`
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "candidate ID")
	if !ok {
		return
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

	profile, err := s.db.GetProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, CandidateDetail{Candidate: cand, Profile: profile})
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "candidate ID")
	if !ok {
		return
	}

	var req CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	cand, err := s.db.UpdateCandidate(r.Context(), &db.Candidate{
		ID:               id,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		ResumeText:       ingestion.CleanText(req.ResumeText),
		JobDescriptionID: req.JobDescriptionID,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if cand == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	if err := s.db.LogAction(r.Context(), cand.ID, db.ActionCandidateUpdated, "Candidate record updated"); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, cand)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "candidate ID")
	if !ok {
		return
	}

	deleted, err := s.db.DeleteCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAnalyzeCandidate runs a fresh analysis and appends it to the
// candidate's history.
func (s *Server) handleAnalyzeCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "candidate ID")
	if !ok {
		return
	}

	var req AnalyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	run, err := s.agent.AnalyzeCandidate(r.Context(), id, req.JobDescriptionID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

// handleAnalyzeAll analyzes every candidate linked to a job description.
func (s *Server) handleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "job description ID")
	if !ok {
		return
	}

	res, err := s.agent.AnalyzeAll(r.Context(), id, queryInt(r, "concurrency", 0))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, res)
}

// handleInterviewQuestions regenerates a candidate's interview question set,
// optionally steered toward specific focus areas. The stored analysis history
// is left untouched.
func (s *Server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "candidate ID")
	if !ok {
		return
	}

	var req InterviewQuestionsRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	questions, err := s.agent.RegenerateInterviewQuestions(r.Context(), id, req.FocusAreas)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, questions)
}

// handleListAnalyses returns the append-only analysis history, newest first.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "candidate ID")
	if !ok {
		return
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

	runs, err := s.db.ListAnalysisRuns(r.Context(), id, queryInt(r, "limit", 50))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, runs)
}

// handleListActions returns the candidate's audit log, newest first.
func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "candidate ID")
	if !ok {
		return
	}

	actions, err := s.db.ListActions(r.Context(), id, queryInt(r, "limit", 100))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, actions)
}
