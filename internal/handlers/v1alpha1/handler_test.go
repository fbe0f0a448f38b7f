package v1alpha1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	handlers "github.com/HizanLi/learn-textbook-with-ai/internal/handlers/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/pipeline"
	"github.com/HizanLi/learn-textbook-with-ai/internal/service"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
	"github.com/HizanLi/learn-textbook-with-ai/internal/testsupport"
)

func newTestRouter(t *testing.T, s *testsupport.MemoryStore, stub *testsupport.StubPipeline) chi.Router {
	t.Helper()
	router := chi.NewRouter()
	h := handlers.NewServiceHandler(
		service.NewProjectService(s, t.TempDir()),
		service.NewProcessingService(s, stub),
		service.NewSearchService(s, stub),
	)
	h.RegisterRoutes(router)
	return router
}

func seedUploaded(s *testsupport.MemoryStore, username, id, filename string) {
	s.Seed(model.Project{
		ID:           id,
		Username:     username,
		Filename:     filename,
		OriginalName: filename,
		UploadedAt:   time.Now().UTC(),
		Status:       model.ProjectStatusUploaded,
	})
}

func doRequest(router chi.Router, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProcessEndpointCompleted(t *testing.T) {
	s := testsupport.NewMemoryStore()
	seedUploaded(s, "alice", "p1", "p1.pdf")
	router := newTestRouter(t, s, &testsupport.StubPipeline{})

	rec := doRequest(router, http.MethodPost, "/api/v1alpha1/users/alice/projects/p1/process", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply api.ProcessReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, api.ProjectStatusCompleted, reply.Status)
	assert.Empty(t, reply.Reason)
	require.NotNil(t, reply.Project)
	require.NotNil(t, reply.Project.MarkdownFile)
	assert.Equal(t, "p1.md", *reply.Project.MarkdownFile)
	require.NotNil(t, reply.Project.ChunksFile)
	assert.Equal(t, "p1-chunks.json", *reply.Project.ChunksFile)
	require.NotNil(t, reply.Project.CollectionName)
	assert.Equal(t, "alice-p1", *reply.Project.CollectionName)
}

func TestProcessEndpointInFlight(t *testing.T) {
	s := testsupport.NewMemoryStore()
	s.Seed(model.Project{ID: "p1", Username: "alice", Filename: "p1.pdf", Status: model.ProjectStatusProcessing})
	stub := &testsupport.StubPipeline{}
	router := newTestRouter(t, s, stub)

	rec := doRequest(router, http.MethodPost, "/api/v1alpha1/users/alice/projects/p1/process", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply api.ProcessReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, api.ProjectStatusProcessing, reply.Status)
	assert.EqualValues(t, 0, stub.ConvertCalls.Load())
}

func TestProcessEndpointPipelineDown(t *testing.T) {
	s := testsupport.NewMemoryStore()
	seedUploaded(s, "alice", "p1", "p1.pdf")
	router := newTestRouter(t, s, &testsupport.StubPipeline{HealthErr: context.DeadlineExceeded})

	rec := doRequest(router, http.MethodPost, "/api/v1alpha1/users/alice/projects/p1/process", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var reply api.ProcessReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, api.ProjectStatusFailed, reply.Status)
	assert.Equal(t, api.FailureReasonServiceUnavailable, reply.Reason)
	require.NotNil(t, reply.Project)
	require.NotNil(t, reply.Project.Error)
	assert.Contains(t, *reply.Project.Error, "unreachable")
}

func TestProcessEndpointStageFailure(t *testing.T) {
	s := testsupport.NewMemoryStore()
	seedUploaded(s, "alice", "p1", "p1.pdf")
	router := newTestRouter(t, s, &testsupport.StubPipeline{
		ConvertErr: &pipeline.StageError{Stage: pipeline.StageConvert, Detail: "conversion crashed"},
	})

	rec := doRequest(router, http.MethodPost, "/api/v1alpha1/users/alice/projects/p1/process", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var reply api.ProcessReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, api.ProjectStatusFailed, reply.Status)
	assert.Equal(t, api.FailureReasonProcessingError, reply.Reason)
	assert.Contains(t, reply.Message, "conversion crashed")
}

func TestProcessEndpointNotFound(t *testing.T) {
	router := newTestRouter(t, testsupport.NewMemoryStore(), &testsupport.StubPipeline{})

	rec := doRequest(router, http.MethodPost, "/api/v1alpha1/users/alice/projects/ghost/process", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadEndpoint(t *testing.T) {
	router := newTestRouter(t, testsupport.NewMemoryStore(), &testsupport.StubPipeline{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "calculus.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 content"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1alpha1/users/alice/projects", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var project api.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.NotEmpty(t, project.Id)
	assert.Equal(t, "calculus.pdf", project.OriginalName)
	assert.Equal(t, api.ProjectStatusUploaded, project.Status)
}

func TestUploadEndpointMissingFile(t *testing.T) {
	router := newTestRouter(t, testsupport.NewMemoryStore(), &testsupport.StubPipeline{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1alpha1/users/alice/projects", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProjectsEndpoint(t *testing.T) {
	s := testsupport.NewMemoryStore()
	seedUploaded(s, "alice", "p1", "p1.pdf")
	seedUploaded(s, "alice", "p2", "p2.pdf")
	router := newTestRouter(t, s, &testsupport.StubPipeline{})

	rec := doRequest(router, http.MethodGet, "/api/v1alpha1/users/alice/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply struct {
		Projects api.ProjectList `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Len(t, reply.Projects, 2)
}

func TestGetProjectEndpointNotFound(t *testing.T) {
	router := newTestRouter(t, testsupport.NewMemoryStore(), &testsupport.StubPipeline{})

	rec := doRequest(router, http.MethodGet, "/api/v1alpha1/users/alice/projects/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorHiddenUnlessFailed(t *testing.T) {
	s := testsupport.NewMemoryStore()
	detail := "old failure"
	s.Seed(model.Project{
		ID:       "p1",
		Username: "alice",
		Filename: "p1.pdf",
		Status:   model.ProjectStatusProcessing,
		Error:    &detail,
	})
	router := newTestRouter(t, s, &testsupport.StubPipeline{})

	rec := doRequest(router, http.MethodGet, "/api/v1alpha1/users/alice/projects/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var project api.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.Nil(t, project.Error)
}

func TestSearchEndpoint(t *testing.T) {
	s := testsupport.NewMemoryStore()
	collection := "alice-p1"
	s.Seed(model.Project{
		ID:             "p1",
		Username:       "alice",
		Status:         model.ProjectStatusCompleted,
		CollectionName: &collection,
	})
	router := newTestRouter(t, s, &testsupport.StubPipeline{
		SearchReply: &api.SearchReply{CollectionName: "alice-p1", Query: "eigenvalues", ResultsCount: 1},
	})

	rec := doRequest(router, http.MethodPost, "/api/v1alpha1/users/alice/projects/p1/search",
		strings.NewReader(`{"query":"eigenvalues"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var reply api.SearchReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "alice-p1", reply.CollectionName)
}

func TestSearchEndpointNotVectorized(t *testing.T) {
	s := testsupport.NewMemoryStore()
	seedUploaded(s, "alice", "p1", "p1.pdf")
	router := newTestRouter(t, s, &testsupport.StubPipeline{})

	rec := doRequest(router, http.MethodPost, "/api/v1alpha1/users/alice/projects/p1/search",
		strings.NewReader(`{"query":"eigenvalues"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrentProjectEndpoints(t *testing.T) {
	s := testsupport.NewMemoryStore()
	seedUploaded(s, "alice", "p1", "p1.pdf")
	router := newTestRouter(t, s, &testsupport.StubPipeline{})

	// nothing selected yet
	rec := doRequest(router, http.MethodGet, "/api/v1alpha1/users/alice/current-project", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reply api.CurrentProjectReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Nil(t, reply.Project)

	rec = doRequest(router, http.MethodPut, "/api/v1alpha1/users/alice/current-project",
		strings.NewReader(`{"projectId":"p1"}`))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1alpha1/users/alice/current-project", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.NotNil(t, reply.Project)
	assert.Equal(t, "p1", reply.Project.Id)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, testsupport.NewMemoryStore(), &testsupport.StubPipeline{})

	rec := doRequest(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health api.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ready", health.Pipeline)
}

func TestHealthEndpointPipelineDown(t *testing.T) {
	router := newTestRouter(t, testsupport.NewMemoryStore(), &testsupport.StubPipeline{HealthErr: context.DeadlineExceeded})

	rec := doRequest(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health api.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "unavailable", health.Pipeline)
}
