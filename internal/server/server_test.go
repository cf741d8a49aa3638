package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server without a database connection. Only
// validation paths that never reach storage are exercised here; storage paths
// are covered by the integration tests.
func newTestServer() *Server {
	return &Server{validate: validator.New()}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["error"]
}

func TestHandleCreateJobDescription_InvalidBody(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/job-descriptions", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	s.handleCreateJobDescription(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Invalid request body")
}

func TestHandleCreateJobDescription_MissingTitle(t *testing.T) {
	s := newTestServer()

	body := `{"description": "Build Go services."}`
	req := httptest.NewRequest(http.MethodPost, "/job-descriptions", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateJobDescription(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Title")
}

func TestHandleGetJobDescription_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/job-descriptions/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	s.handleGetJobDescription(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Invalid job description ID")
}

func TestHandleCreateCandidate_MissingResumeText(t *testing.T) {
	s := newTestServer()

	body := `{"name": "Jane Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/candidates", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateCandidate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "ResumeText")
}

func TestHandleCreateCandidate_InvalidEmail(t *testing.T) {
	s := newTestServer()

	body := `{"name": "Jane Doe", "email": "not-an-email", "resume_text": "text"}`
	req := httptest.NewRequest(http.MethodPost, "/candidates", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateCandidate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Email")
}

func TestHandleUploadResume_MissingFile(t *testing.T) {
	s := newTestServer()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Jane Doe"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/candidates/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	s.handleUploadResume(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Resume file is required")
}

func TestHandleUploadResume_InvalidJobDescriptionID(t *testing.T) {
	s := newTestServer()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("resume body"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("job_description_id", "zero"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/candidates/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	s.handleUploadResume(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Invalid job_description_id")
}

func TestHandleAnalyzeCandidate_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/candidates/-3/analyze", nil)
	req.SetPathValue("id", "-3")
	w := httptest.NewRecorder()

	s.handleAnalyzeCandidate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Invalid candidate ID")
}

func TestHandleExtractJobInfo_MissingText(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/job-descriptions/extract", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	s.handleExtractJobInfo(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "Text")
}

func TestHandleHiringReport_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/reports/hiring/nope", nil)
	req.SetPathValue("job_description_id", "nope")
	w := httptest.NewRecorder()

	s.handleHiringReport(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleInterviewStrategy_InvalidJobQuery(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/reports/interview-strategy/3?job_description_id=nope", nil)
	req.SetPathValue("candidate_id", "3")
	w := httptest.NewRecorder()

	s.handleInterviewStrategy(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "job_description_id")
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/candidates?limit=25", nil)
	assert.Equal(t, 25, queryInt(req, "limit", 100))

	req = httptest.NewRequest(http.MethodGet, "/candidates", nil)
	assert.Equal(t, 100, queryInt(req, "limit", 100))

	req = httptest.NewRequest(http.MethodGet, "/candidates?limit=-5", nil)
	assert.Equal(t, 100, queryInt(req, "limit", 100))
}

func TestWithCORS_PreflightShortCircuits(t *testing.T) {
	s := newTestServer()

	handler := s.withCORS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler should not run for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/candidates", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
