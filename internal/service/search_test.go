package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/service"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
	"github.com/HizanLi/learn-textbook-with-ai/internal/testsupport"
)

func seedCompleted(s *testsupport.MemoryStore, username, id string) {
	collection := username + "-" + id
	s.Seed(model.Project{
		ID:             id,
		Username:       username,
		Status:         model.ProjectStatusCompleted,
		CollectionName: &collection,
	})
}

func TestSearchResolvesCollection(t *testing.T) {
	s := testsupport.NewMemoryStore()
	seedCompleted(s, "alice", "p1")
	stub := &testsupport.StubPipeline{
		SearchReply: &api.SearchReply{
			CollectionName: "alice-p1",
			Query:          "eigenvalues",
			ResultsCount:   1,
			Results:        []api.SearchResult{{Content: "An eigenvalue is..."}},
		},
	}

	srv := service.NewSearchService(s, stub)
	reply, err := srv.Search(context.Background(), "alice", "p1", "eigenvalues", 0)
	require.NoError(t, err)
	assert.Equal(t, "alice-p1", reply.CollectionName)
	assert.Equal(t, 1, reply.ResultsCount)
	assert.EqualValues(t, 1, stub.SearchCalls.Load())
}

func TestSearchRequiresQuery(t *testing.T) {
	s := testsupport.NewMemoryStore()
	seedCompleted(s, "alice", "p1")

	srv := service.NewSearchService(s, &testsupport.StubPipeline{})
	_, err := srv.Search(context.Background(), "alice", "p1", "", 3)
	require.Error(t, err)
	assert.IsType(t, &service.ErrInvalidRequest{}, err)
}

func TestSearchRequiresVectorizedProject(t *testing.T) {
	s := testsupport.NewMemoryStore()
	s.Seed(model.Project{ID: "p1", Username: "alice", Status: model.ProjectStatusUploaded})

	srv := service.NewSearchService(s, &testsupport.StubPipeline{})
	_, err := srv.Search(context.Background(), "alice", "p1", "eigenvalues", 3)
	require.Error(t, err)
	assert.IsType(t, &service.ErrInvalidRequest{}, err)
}

func TestSearchProjectNotFound(t *testing.T) {
	srv := service.NewSearchService(testsupport.NewMemoryStore(), &testsupport.StubPipeline{})
	_, err := srv.Search(context.Background(), "alice", "missing", "eigenvalues", 3)
	require.Error(t, err)
	assert.IsType(t, &service.ErrProjectNotFound{}, err)
}
