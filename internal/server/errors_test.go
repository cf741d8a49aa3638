package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/hiring-agent/internal/agent"
	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/ingestion"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "not found",
			err:  &agent.NotFoundError{Resource: "candidate", ID: 7},
			want: http.StatusNotFound,
		},
		{
			name: "wrapped not found",
			err:  fmt.Errorf("analysis failed: %w", &agent.NotFoundError{Resource: "job description", ID: 3}),
			want: http.StatusNotFound,
		},
		{
			name: "duplicate candidate",
			err:  &agent.DuplicateCandidateError{Existing: &db.Candidate{ID: 1}},
			want: http.StatusConflict,
		},
		{
			name: "unsupported resume format",
			err:  fmt.Errorf("parse: %w", ingestion.ErrUnsupportedFormat),
			want: http.StatusUnsupportedMediaType,
		},
		{
			name: "file too large",
			err:  ingestion.ErrFileTooLarge,
			want: http.StatusRequestEntityTooLarge,
		},
		{
			name: "validation",
			err:  &ErrValidation{Field: "title", Message: "required"},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
