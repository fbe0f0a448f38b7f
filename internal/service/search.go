package service

import (
	"context"
	"errors"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/pipeline"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
)

const defaultSearchResults = 3

// SearchService passes semantic queries through to the vector store the
// pipeline service maintains. The search itself is external; this layer
// only resolves the project's collection and validates state.
type SearchService struct {
	store    store.Store
	pipeline pipeline.Client
}

func NewSearchService(store store.Store, pipeline pipeline.Client) *SearchService {
	return &SearchService{store: store, pipeline: pipeline}
}

func (s *SearchService) Search(ctx context.Context, username string, projectID string, query string, nResults int) (*api.SearchReply, error) {
	if query == "" {
		return nil, NewErrInvalidRequest("missing query")
	}
	if nResults <= 0 {
		nResults = defaultSearchResults
	}

	project, err := s.store.Project().Get(ctx, username, projectID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(username, projectID)
		}
		return nil, err
	}

	if project.Status != model.ProjectStatusCompleted || project.CollectionName == nil {
		return nil, NewErrInvalidRequest("project is not vectorized yet")
	}

	reply, err := s.pipeline.Search(ctx, username, *project.CollectionName, query, nResults)
	if err != nil {
		return nil, NewErrProcessingFailed(err)
	}
	return reply, nil
}
