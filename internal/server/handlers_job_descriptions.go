package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/hiring-agent/internal/db"
)

// CreateJobDescriptionRequest is the request body for POST /job-descriptions.
type CreateJobDescriptionRequest struct {
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description" validate:"required"`
	RequiredSkills     []string `json:"required_skills"`
	MinExperienceYears int      `json:"min_experience_years" validate:"gte=0"`
	Domain             string   `json:"domain"`
}

// ExtractJobInfoRequest is the request body for POST /job-descriptions/extract.
type ExtractJobInfoRequest struct {
	Text string `json:"text" validate:"required"`
}

func (s *Server) handleCreateJobDescription(w http.ResponseWriter, r *http.Request) {
	var req CreateJobDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	jd, err := s.db.CreateJobDescription(r.Context(), &db.JobDescription{
		Title:              req.Title,
		Description:        req.Description,
		RequiredSkills:     req.RequiredSkills,
		MinExperienceYears: req.MinExperienceYears,
		Domain:             req.Domain,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, jd)
}

func (s *Server) handleListJobDescriptions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)

	jds, err := s.db.ListJobDescriptions(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, jds)
}

func (s *Server) handleGetJobDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "job description ID")
	if !ok {
		return
	}

	jd, err := s.db.GetJobDescription(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if jd == nil {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, jd)
}

func (s *Server) handleUpdateJobDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "job description ID")
	if !ok {
		return
	}

	var req CreateJobDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	jd, err := s.db.UpdateJobDescription(r.Context(), &db.JobDescription{
		ID:                 id,
		Title:              req.Title,
		Description:        req.Description,
		RequiredSkills:     req.RequiredSkills,
		MinExperienceYears: req.MinExperienceYears,
		Domain:             req.Domain,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if jd == nil {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, jd)
}

func (s *Server) handleDeleteJobDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id", "job description ID")
	if !ok {
		return
	}

	deleted, err := s.db.DeleteJobDescription(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleExtractJobInfo asks the LLM to pull structured fields out of raw job
// description text without storing anything.
func (s *Server) handleExtractJobInfo(w http.ResponseWriter, r *http.Request) {
	var req ExtractJobInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	info, err := s.agent.ExtractJobInfo(r.Context(), req.Text)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "LLM extraction failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, info)
}

// pathID parses a positive integer path parameter, writing a 400 on failure.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+label)
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
