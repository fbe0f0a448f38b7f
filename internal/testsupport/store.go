// Package testsupport provides in-memory fakes for the store and the
// pipeline client so service and handler tests run without sqlite or a
// live pipeline.
package testsupport

import (
	"context"
	"sync"

	"github.com/HizanLi/learn-textbook-with-ai/internal/store"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store/model"
)

type MemoryStore struct {
	mu       sync.Mutex
	projects map[string]map[string]model.Project
	users    map[string]model.User
}

var _ store.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]map[string]model.Project),
		users:    make(map[string]model.User),
	}
}

func (s *MemoryStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func (s *MemoryStore) Project() store.Project  { return &memoryProjectStore{s} }
func (s *MemoryStore) User() store.User        { return &memoryUserStore{s} }
func (s *MemoryStore) InitialMigration() error { return nil }
func (s *MemoryStore) Close() error            { return nil }

func (s *MemoryStore) Statistics(ctx context.Context) (model.ProjectStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all model.ProjectList
	for _, byID := range s.projects {
		for _, p := range byID {
			all = append(all, p)
		}
	}
	return model.NewProjectStats(all), nil
}

// Seed inserts a project bypassing Create, for test fixtures.
func (s *MemoryStore) Seed(project model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.projects[project.Username]
	if !ok {
		byID = make(map[string]model.Project)
		s.projects[project.Username] = byID
	}
	byID[project.ID] = project
}

type memoryProjectStore struct {
	s *MemoryStore
}

var _ store.Project = (*memoryProjectStore)(nil)

func (p *memoryProjectStore) List(ctx context.Context, username string) (model.ProjectList, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	var projects model.ProjectList
	for _, project := range p.s.projects[username] {
		projects = append(projects, project)
	}
	// upload order, like the real store
	for i := 1; i < len(projects); i++ {
		for j := i; j > 0 && projects[j].UploadedAt.Before(projects[j-1].UploadedAt); j-- {
			projects[j], projects[j-1] = projects[j-1], projects[j]
		}
	}
	return projects, nil
}

func (p *memoryProjectStore) Get(ctx context.Context, username string, id string) (*model.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	project, ok := p.s.projects[username][id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return &project, nil
}

func (p *memoryProjectStore) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	byID, ok := p.s.projects[project.Username]
	if !ok {
		byID = make(map[string]model.Project)
		p.s.projects[project.Username] = byID
	}
	if _, exists := byID[project.ID]; exists {
		return nil, store.ErrDuplicateKey
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusUploaded
	}
	byID[project.ID] = project
	return &project, nil
}

func (p *memoryProjectStore) Update(ctx context.Context, project model.Project) (*model.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	current, ok := p.s.projects[project.Username][project.ID]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	project.UploadedAt = current.UploadedAt
	p.s.projects[project.Username][project.ID] = project
	return &project, nil
}

func (p *memoryProjectStore) UpdateStatusIf(ctx context.Context, username string, id string, from []model.ProjectStatus, to model.ProjectStatus) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	project, ok := p.s.projects[username][id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if project.Status == status {
			project.Status = to
			p.s.projects[username][id] = project
			return true, nil
		}
	}
	return false, nil
}

func (p *memoryProjectStore) FailInterrupted(ctx context.Context, detail string) (int64, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	var recovered int64
	for _, byID := range p.s.projects {
		for id, project := range byID {
			if project.Status == model.ProjectStatusProcessing {
				project.Status = model.ProjectStatusFailed
				d := detail
				project.Error = &d
				byID[id] = project
				recovered++
			}
		}
	}
	return recovered, nil
}

type memoryUserStore struct {
	s *MemoryStore
}

var _ store.User = (*memoryUserStore)(nil)

func (u *memoryUserStore) Get(ctx context.Context, username string) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[username]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return &user, nil
}

func (u *memoryUserStore) SetCurrentProject(ctx context.Context, username string, projectID string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	id := projectID
	u.s.users[username] = model.User{Username: username, CurrentProjectID: &id}
	return nil
}
