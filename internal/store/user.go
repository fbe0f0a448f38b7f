package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
)

type User interface {
	Get(ctx context.Context, username string) (*model.User, error)
	// SetCurrentProject upserts the user's current project selection.
	SetCurrentProject(ctx context.Context, username string, projectID string) error
}

type UserStore struct {
	db *gorm.DB
}

var _ User = (*UserStore)(nil)

func NewUserStore(db *gorm.DB) User {
	return &UserStore{db: db}
}

func (u *UserStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return u.db
}

func (u *UserStore) Get(ctx context.Context, username string) (*model.User, error) {
	user := model.User{Username: username}
	result := u.getDB(ctx).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (u *UserStore) SetCurrentProject(ctx context.Context, username string, projectID string) error {
	user := model.User{Username: username, CurrentProjectID: &projectID}
	result := u.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_project_id"}),
	}).Create(&user)
	return result.Error
}
