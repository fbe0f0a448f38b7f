package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Project() Project
	User() User
	InitialMigration() error
	Statistics(ctx context.Context) (model.ProjectStats, error)
	Close() error
}

type DataStore struct {
	db      *gorm.DB
	project Project
	user    User
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		project: NewProjectStore(db),
		user:    NewUserStore(db),
		db:      db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Project() Project {
	return s.project
}

func (s *DataStore) User() User {
	return s.user
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Project{}, &model.User{})
}

func (s *DataStore) Statistics(ctx context.Context) (model.ProjectStats, error) {
	var projects model.ProjectList
	if result := s.db.WithContext(ctx).Find(&projects); result.Error != nil {
		return model.ProjectStats{}, result.Error
	}
	return model.NewProjectStats(projects), nil
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
