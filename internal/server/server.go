// Package server provides the HTTP REST API for the hiring agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/hiring-agent/internal/agent"
	"github.com/jonathan/hiring-agent/internal/config"
	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/llm"
	"github.com/jonathan/hiring-agent/internal/scoring"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	db         *db.DB
	llmClient  llm.Client
	agent      *agent.Agent
	validate   *validator.Validate

	llmProvider string
	llmModel    string
}

// New creates a server: connects to the database, ensures the schema, and
// builds the LLM client, scoring engine, and agent from configuration.
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	engine := scoring.NewEngine(cfg.Weights, cfg.Thresholds)

	s := &Server{
		db:          database,
		llmClient:   client,
		agent:       agent.New(database, client, engine, cfg.ResumeDir),
		validate:    validator.New(),
		llmProvider: cfg.LLMProvider,
		llmModel:    cfg.LLMModel,
	}

	mux := http.NewServeMux()

	// Job description endpoints
	mux.HandleFunc("POST /job-descriptions", s.handleCreateJobDescription)
	mux.HandleFunc("GET /job-descriptions", s.handleListJobDescriptions)
	mux.HandleFunc("GET /job-descriptions/{id}", s.handleGetJobDescription)
	mux.HandleFunc("PUT /job-descriptions/{id}", s.handleUpdateJobDescription)
	mux.HandleFunc("DELETE /job-descriptions/{id}", s.handleDeleteJobDescription)
	mux.HandleFunc("POST /job-descriptions/extract", s.handleExtractJobInfo)
	mux.HandleFunc("POST /job-descriptions/{id}/analyze-all", s.handleAnalyzeAll)

	// Candidate endpoints
	mux.HandleFunc("POST /candidates", s.handleCreateCandidate)
	mux.HandleFunc("POST /candidates/upload", s.handleUploadResume)
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PUT /candidates/{id}", s.handleUpdateCandidate)
	mux.HandleFunc("DELETE /candidates/{id}", s.handleDeleteCandidate)
	mux.HandleFunc("POST /candidates/{id}/analyze", s.handleAnalyzeCandidate)
	mux.HandleFunc("GET /candidates/{id}/analyses", s.handleListAnalyses)
	mux.HandleFunc("POST /candidates/{id}/interview-questions", s.handleInterviewQuestions)
	mux.HandleFunc("GET /candidates/{id}/actions", s.handleListActions)

	// Report endpoints
	mux.HandleFunc("GET /reports/hiring/{job_description_id}", s.handleHiringReport)
	mux.HandleFunc("GET /reports/hiring/{job_description_id}/export", s.handleHiringReportExport)
	mux.HandleFunc("GET /reports/ranking/{job_description_id}", s.handleRanking)
	mux.HandleFunc("GET /reports/interview-strategy/{candidate_id}", s.handleInterviewStrategy)

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second, // analyses wait on the LLM
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.llmClient.Close(); err != nil {
		log.Printf("Error closing LLM client: %v", err)
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth reports database and LLM backend reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	overall := "ok"
	dbStatus := "ok"
	if err := s.db.Ping(ctx); err != nil {
		dbStatus = "unreachable"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}

	llmStatus := "ok"
	if err := s.llmClient.Ping(ctx); err != nil {
		llmStatus = "unreachable"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}

	s.jsonResponse(w, status, map[string]any{
		"status":   overall,
		"database": dbStatus,
		"llm": map[string]string{
			"status":   llmStatus,
			"provider": s.llmProvider,
			"model":    s.llmModel,
		},
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
