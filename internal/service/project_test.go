package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HizanLi/learn-textbook-with-ai/internal/config"
	"github.com/HizanLi/learn-textbook-with-ai/internal/service"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
	"github.com/HizanLi/learn-textbook-with-ai/internal/testsupport"
)

func TestCreateProjectStoresFile(t *testing.T) {
	dataDir := t.TempDir()
	s := testsupport.NewMemoryStore()
	srv := service.NewProjectService(s, dataDir)

	project, err := srv.CreateProject(context.Background(), "alice", "linear-algebra.pdf", strings.NewReader("%PDF-1.4 content"))
	require.NoError(t, err)

	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "linear-algebra.pdf", project.OriginalName)
	assert.Equal(t, project.ID+".pdf", project.Filename)
	assert.Equal(t, model.ProjectStatusUploaded, project.Status)

	stored := filepath.Join(dataDir, "alice", "uploads", project.Filename)
	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(content))
}

func TestCreateProjectRejectsEmptyFile(t *testing.T) {
	srv := service.NewProjectService(testsupport.NewMemoryStore(), t.TempDir())

	_, err := srv.CreateProject(context.Background(), "alice", "empty.pdf", strings.NewReader(""))
	require.Error(t, err)
	assert.IsType(t, &service.ErrInvalidRequest{}, err)
}

func TestListProjectsInUploadOrder(t *testing.T) {
	s := testsupport.NewMemoryStore()
	now := time.Now().UTC()
	s.Seed(model.Project{ID: "p2", Username: "alice", UploadedAt: now.Add(time.Minute), Status: model.ProjectStatusUploaded})
	s.Seed(model.Project{ID: "p1", Username: "alice", UploadedAt: now, Status: model.ProjectStatusUploaded})
	s.Seed(model.Project{ID: "p9", Username: "bob", UploadedAt: now, Status: model.ProjectStatusUploaded})
	srv := service.NewProjectService(s, t.TempDir())

	projects, err := srv.ListProjects(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "p1", projects[0].ID)
	assert.Equal(t, "p2", projects[1].ID)
}

func TestCurrentProjectLifecycle(t *testing.T) {
	s := testsupport.NewMemoryStore()
	s.Seed(model.Project{ID: "p1", Username: "alice", Status: model.ProjectStatusUploaded})
	srv := service.NewProjectService(s, t.TempDir())

	// no user record yet
	project, err := srv.CurrentProject(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, project)

	require.NoError(t, srv.SelectProject(context.Background(), "alice", "p1"))

	project, err = srv.CurrentProject(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, "p1", project.ID)
}

func TestSelectProjectCommitsSelection(t *testing.T) {
	db, err := store.InitDB(config.NewDefault())
	require.NoError(t, err)
	s := store.NewStore(db)
	require.NoError(t, s.InitialMigration())
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Project().Create(context.Background(), model.Project{
		ID:       "p1",
		Username: "alice",
		Filename: "p1.pdf",
		Status:   model.ProjectStatusUploaded,
	})
	require.NoError(t, err)

	srv := service.NewProjectService(s, t.TempDir())
	require.NoError(t, srv.SelectProject(context.Background(), "alice", "p1"))

	project, err := srv.CurrentProject(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, "p1", project.ID)
}

func TestSelectProjectValidatesExistence(t *testing.T) {
	srv := service.NewProjectService(testsupport.NewMemoryStore(), t.TempDir())

	err := srv.SelectProject(context.Background(), "alice", "missing")
	require.Error(t, err)
	assert.IsType(t, &service.ErrProjectNotFound{}, err)
}
