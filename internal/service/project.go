package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HizanLi/learn-textbook-with-ai/internal/store"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
)

// ProjectService owns project creation and lookup. Uploaded files land
// under <dataDir>/<username>/uploads, the directory the pipeline service
// reads its inputs from.
type ProjectService struct {
	store   store.Store
	dataDir string
}

func NewProjectService(store store.Store, dataDir string) *ProjectService {
	return &ProjectService{store: store, dataDir: dataDir}
}

// CreateProject stores the uploaded document and creates its processing
// record in the uploaded state. The stored filename is the generated
// project id plus the original extension, so user-chosen names cannot
// collide.
func (s *ProjectService) CreateProject(ctx context.Context, username string, originalName string, reader io.Reader) (*model.Project, error) {
	if originalName == "" {
		return nil, NewErrInvalidRequest("missing file name")
	}

	id := uuid.NewString()
	filename := id + filepath.Ext(originalName)

	uploadDir := filepath.Join(s.dataDir, username, "uploads")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	target := filepath.Join(uploadDir, filename)
	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, reader)
	if err != nil {
		_ = os.Remove(target)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if written == 0 {
		_ = os.Remove(target)
		return nil, NewErrInvalidRequest("empty file uploaded")
	}

	project := model.Project{
		ID:           id,
		Username:     username,
		Filename:     filename,
		OriginalName: originalName,
		UploadedAt:   time.Now().UTC(),
		Status:       model.ProjectStatusUploaded,
	}

	created, err := s.store.Project().Create(ctx, project)
	if err != nil {
		_ = os.Remove(target)
		return nil, err
	}

	zap.S().Named("project").Infow("project created",
		"username", username,
		"project", id,
		"file", originalName,
		"size", written,
	)
	return created, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, username string) (model.ProjectList, error) {
	return s.store.Project().List(ctx, username)
}

func (s *ProjectService) GetProject(ctx context.Context, username string, projectID string) (*model.Project, error) {
	project, err := s.store.Project().Get(ctx, username, projectID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(username, projectID)
		}
		return nil, err
	}
	return project, nil
}

// SelectProject makes the given project the user's current one. The
// existence check and the selection write share a transaction so the
// selection can never land after a concurrent delete of the project.
func (s *ProjectService) SelectProject(ctx context.Context, username string, projectID string) error {
	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	if _, err := s.store.Project().Get(ctx, username, projectID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrProjectNotFound(username, projectID)
		}
		return err
	}

	if err := s.store.User().SetCurrentProject(ctx, username, projectID); err != nil {
		return err
	}

	if _, err := store.Commit(ctx); err != nil {
		return err
	}
	return nil
}

// CurrentProject resolves the user's selection. A missing user, an empty
// selection and a dangling reference all mean "no selection" and return
// nil without error.
func (s *ProjectService) CurrentProject(ctx context.Context, username string) (*model.Project, error) {
	user, err := s.store.User().Get(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if user.CurrentProjectID == nil {
		return nil, nil
	}

	project, err := s.store.Project().Get(ctx, username, *user.CurrentProjectID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// dangling reference, tolerated
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}
