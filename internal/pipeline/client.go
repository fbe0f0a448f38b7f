// Package pipeline wraps the external document processing service: the
// convert, chunk and vectorize stages, the semantic search endpoint and a
// liveness probe. Everything behind it (MinerU, the chunking algorithm,
// the vector store) is opaque to this backend.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/pkg/metrics"
)

// StageResult carries what a stage reported back. Path may be empty when
// the service did not declare an output path; callers derive a default
// (see defaults.go) instead of treating that as an error.
type StageResult struct {
	Path    string
	Message string
}

type Client interface {
	// Health probes the pipeline service. Any transport error, timeout or
	// non-2xx response means unreachable.
	Health(ctx context.Context) error
	Convert(ctx context.Context, username string, fileName string) (*StageResult, error)
	Chunk(ctx context.Context, username string, fileName string, outputName string) (*StageResult, error)
	Vectorize(ctx context.Context, username string, jsonPath string, collectionName string) error
	Search(ctx context.Context, username string, collectionName string, query string, nResults int) (*api.SearchReply, error)
}

var _ Client = (*client)(nil)

type client struct {
	baseURL      string
	probeTimeout time.Duration
	http         *http.Client
}

// NewClient returns a pipeline client for the service at baseURL.
// probeTimeout bounds the liveness probe; stageTimeout bounds every stage
// call, which may legitimately run for minutes on large documents.
func NewClient(baseURL string, probeTimeout, stageTimeout time.Duration) Client {
	return &client{
		baseURL:      baseURL,
		probeTimeout: probeTimeout,
		http:         &http.Client{Timeout: stageTimeout},
	}
}

// envelope is the response shape shared by all stage endpoints.
type envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Detail  string     `json:"detail"`
	Data    *stageData `json:"data"`
}

type stageData struct {
	Path string `json:"path"`
}

func (e *envelope) detail() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

func (c *client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("pipeline health check failed: %s", resp.Status)
	}
	return nil
}

type convertRequest struct {
	Username string `json:"username"`
	FileName string `json:"file_name"`
}

func (c *client) Convert(ctx context.Context, username string, fileName string) (*StageResult, error) {
	return c.stage(ctx, StageConvert, "/api/mineru/process", convertRequest{
		Username: username,
		FileName: fileName,
	})
}

type chunkRequest struct {
	Username       string `json:"username"`
	FileName       string `json:"file_name"`
	OutputFilename string `json:"output_filename"`
}

func (c *client) Chunk(ctx context.Context, username string, fileName string, outputName string) (*StageResult, error) {
	return c.stage(ctx, StageChunk, "/api/chunker/process", chunkRequest{
		Username:       username,
		FileName:       fileName,
		OutputFilename: outputName,
	})
}

type vectorizeRequest struct {
	Username       string `json:"username"`
	JsonPath       string `json:"json_path"`
	CollectionName string `json:"collection_name"`
}

func (c *client) Vectorize(ctx context.Context, username string, jsonPath string, collectionName string) error {
	_, err := c.stage(ctx, StageVectorize, "/api/vectorization/store", vectorizeRequest{
		Username:       username,
		JsonPath:       jsonPath,
		CollectionName: collectionName,
	})
	return err
}

func (c *client) stage(ctx context.Context, stage Stage, path string, request any) (*StageResult, error) {
	start := time.Now()

	var reply envelope
	if err := c.post(ctx, path, request, &reply); err != nil {
		metrics.IncreasePipelineStageFailures(string(stage))
		return nil, newStageError(stage, "%s", err)
	}
	if !reply.Success {
		metrics.IncreasePipelineStageFailures(string(stage))
		return nil, newStageError(stage, "%s", reply.detail())
	}

	metrics.ObservePipelineStageDuration(string(stage), time.Since(start))

	result := &StageResult{Message: reply.Message}
	if reply.Data != nil {
		result.Path = reply.Data.Path
	}
	zap.S().Named("pipeline").Debugw("stage completed",
		"stage", stage,
		"path", result.Path,
		"duration", time.Since(start),
	)
	return result, nil
}

type searchRequest struct {
	Username       string `json:"username"`
	CollectionName string `json:"collection_name"`
	Query          string `json:"query"`
	NResults       int    `json:"n_results"`
}

type searchResponse struct {
	Success        bool               `json:"success"`
	Detail         string             `json:"detail"`
	CollectionName string             `json:"collection_name"`
	Query          string             `json:"query"`
	ResultsCount   int                `json:"results_count"`
	Results        []api.SearchResult `json:"results"`
}

func (c *client) Search(ctx context.Context, username string, collectionName string, query string, nResults int) (*api.SearchReply, error) {
	var reply searchResponse
	err := c.post(ctx, "/api/vectorization/search", searchRequest{
		Username:       username,
		CollectionName: collectionName,
		Query:          query,
		NResults:       nResults,
	}, &reply)
	if err != nil {
		return nil, newStageError(StageSearch, "%s", err)
	}
	if !reply.Success {
		return nil, newStageError(StageSearch, "%s", reply.Detail)
	}

	return &api.SearchReply{
		CollectionName: reply.CollectionName,
		Query:          reply.Query,
		ResultsCount:   reply.ResultsCount,
		Results:        reply.Results,
	}, nil
}

// post sends a JSON request and decodes the JSON response into out. Non-2xx
// responses are reported with the body's detail field when present.
func (c *client) post(ctx context.Context, path string, request any, out any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &failure); err == nil {
			if failure.Detail != "" {
				return fmt.Errorf("%s", failure.Detail)
			}
			if failure.Message != "" {
				return fmt.Errorf("%s", failure.Message)
			}
		}
		return fmt.Errorf("unexpected response status: %s", resp.Status)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}
