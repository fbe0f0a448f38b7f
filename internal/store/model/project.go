package model

import (
	"encoding/json"
	"time"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
)

// ProjectStatus is the stored processing state of a project. Transitions
// are monotonic except for the failed -> processing retry edge.
type ProjectStatus string

const (
	ProjectStatusUploaded   ProjectStatus = "uploaded"
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusFailed     ProjectStatus = "failed"
)

// Project is one uploaded document and its processing record. Rows are
// scoped per user; the id is unique within a user's projects.
type Project struct {
	ID           string        `gorm:"primaryKey"`
	Username     string        `gorm:"primaryKey;index"`
	Filename     string        `gorm:"not null"`
	OriginalName string        `gorm:"not null"`
	UploadedAt   time.Time     `gorm:"not null"`
	Status       ProjectStatus `gorm:"not null;default:uploaded"`
	ProcessedAt  *time.Time

	// Stage outputs, populated incrementally as stages succeed. Only ever
	// added or overwritten, never removed.
	MarkdownFile   *string
	ChunksFile     *string
	CollectionName *string

	// Error holds the last failure detail. It is overwritten on the next
	// run rather than unset; it is only surfaced while Status is failed.
	Error *string
}

type ProjectList []Project

func (p Project) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}

func (p Project) ToApiResource() api.Project {
	resource := api.Project{
		Id:             p.ID,
		Filename:       p.Filename,
		OriginalName:   p.OriginalName,
		UploadedAt:     p.UploadedAt,
		Status:         api.ProjectStatus(p.Status),
		ProcessedAt:    p.ProcessedAt,
		MarkdownFile:   p.MarkdownFile,
		ChunksFile:     p.ChunksFile,
		CollectionName: p.CollectionName,
	}
	if p.Status == ProjectStatusFailed {
		resource.Error = p.Error
	}
	return resource
}

func (l ProjectList) ToApiResource() api.ProjectList {
	projects := make(api.ProjectList, 0, len(l))
	for _, p := range l {
		projects = append(projects, p.ToApiResource())
	}
	return projects
}
