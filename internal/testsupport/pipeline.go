package testsupport

import (
	"context"
	"sync/atomic"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/pipeline"
)

// StubPipeline is a scriptable pipeline.Client. Zero value behaves as a
// healthy pipeline whose stages succeed with default paths.
type StubPipeline struct {
	HealthErr    error
	ConvertErr   error
	ChunkErr     error
	VectorizeErr error
	SearchErr    error

	// When set, returned instead of the empty result.
	ConvertResult *pipeline.StageResult
	ChunkResult   *pipeline.StageResult
	SearchReply   *api.SearchReply

	HealthCalls    atomic.Int32
	ConvertCalls   atomic.Int32
	ChunkCalls     atomic.Int32
	VectorizeCalls atomic.Int32
	SearchCalls    atomic.Int32
}

var _ pipeline.Client = (*StubPipeline)(nil)

func (s *StubPipeline) Health(ctx context.Context) error {
	s.HealthCalls.Add(1)
	return s.HealthErr
}

func (s *StubPipeline) Convert(ctx context.Context, username string, fileName string) (*pipeline.StageResult, error) {
	s.ConvertCalls.Add(1)
	if s.ConvertErr != nil {
		return nil, s.ConvertErr
	}
	if s.ConvertResult != nil {
		return s.ConvertResult, nil
	}
	return &pipeline.StageResult{}, nil
}

func (s *StubPipeline) Chunk(ctx context.Context, username string, fileName string, outputName string) (*pipeline.StageResult, error) {
	s.ChunkCalls.Add(1)
	if s.ChunkErr != nil {
		return nil, s.ChunkErr
	}
	if s.ChunkResult != nil {
		return s.ChunkResult, nil
	}
	return &pipeline.StageResult{}, nil
}

func (s *StubPipeline) Vectorize(ctx context.Context, username string, jsonPath string, collectionName string) error {
	s.VectorizeCalls.Add(1)
	return s.VectorizeErr
}

func (s *StubPipeline) Search(ctx context.Context, username string, collectionName string, query string, nResults int) (*api.SearchReply, error) {
	s.SearchCalls.Add(1)
	if s.SearchErr != nil {
		return nil, s.SearchErr
	}
	if s.SearchReply != nil {
		return s.SearchReply, nil
	}
	return &api.SearchReply{CollectionName: collectionName, Query: query}, nil
}
