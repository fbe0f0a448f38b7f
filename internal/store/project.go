package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
)

type Project interface {
	List(ctx context.Context, username string) (model.ProjectList, error)
	Get(ctx context.Context, username string, id string) (*model.Project, error)
	Create(ctx context.Context, project model.Project) (*model.Project, error)
	Update(ctx context.Context, project model.Project) (*model.Project, error)
	// UpdateStatusIf atomically transitions the project status to `to`
	// only when the stored status is one of `from`. It reports whether the
	// swap happened. This is the primitive the orchestrator uses to claim
	// a pipeline run; two concurrent claims cannot both succeed.
	UpdateStatusIf(ctx context.Context, username string, id string, from []model.ProjectStatus, to model.ProjectStatus) (bool, error)
	// FailInterrupted marks every project still in the processing state
	// as failed with the given detail. Runs are in-process, so after a
	// restart any processing row is an abandoned run that would otherwise
	// stay claimed forever. Returns the number of rows recovered.
	FailInterrupted(ctx context.Context, detail string) (int64, error)
}

type ProjectStore struct {
	db *gorm.DB
}

// Make sure we conform to Project interface
var _ Project = (*ProjectStore)(nil)

func NewProjectStore(db *gorm.DB) Project {
	return &ProjectStore{db: db}
}

func (p *ProjectStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return p.db
}

// List returns the user's projects in upload order.
func (p *ProjectStore) List(ctx context.Context, username string) (model.ProjectList, error) {
	var projects model.ProjectList
	result := p.getDB(ctx).Where("username = ?", username).Order("uploaded_at").Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}
	return projects, nil
}

func (p *ProjectStore) Get(ctx context.Context, username string, id string) (*model.Project, error) {
	project := model.Project{ID: id, Username: username}
	result := p.getDB(ctx).First(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &project, nil
}

func (p *ProjectStore) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	result := p.getDB(ctx).Create(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &project, nil
}

// Update replaces the whole row. Zero rows affected means the project
// vanished underneath us, which callers must treat as not found.
func (p *ProjectStore) Update(ctx context.Context, project model.Project) (*model.Project, error) {
	result := p.getDB(ctx).
		Model(&model.Project{}).
		Where("username = ? AND id = ?", project.Username, project.ID).
		Select("*").
		Omit("id", "username", "uploaded_at").
		Updates(&project)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &project, nil
}

func (p *ProjectStore) UpdateStatusIf(ctx context.Context, username string, id string, from []model.ProjectStatus, to model.ProjectStatus) (bool, error) {
	result := p.getDB(ctx).
		Model(&model.Project{}).
		Where("username = ? AND id = ? AND status IN ?", username, id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (p *ProjectStore) FailInterrupted(ctx context.Context, detail string) (int64, error) {
	result := p.getDB(ctx).
		Model(&model.Project{}).
		Where("status = ?", model.ProjectStatusProcessing).
		Updates(map[string]interface{}{"status": model.ProjectStatusFailed, "error": detail})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
