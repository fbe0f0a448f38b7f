package v1alpha1

import (
	"net/http"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
)

// Thin render.Renderer wrappers around the wire types.

type ProjectReply struct {
	api.Project
}

type ProjectListReply struct {
	Projects api.ProjectList `json:"projects"`
}

type ProcessReply struct {
	api.ProcessReply
}

type CurrentProjectReply struct {
	api.CurrentProjectReply
}

type SearchReply struct {
	api.SearchReply
}

type HealthReply struct {
	api.Health
}

type ErrorReply struct {
	api.Error
}

func (p ProjectReply) Render(w http.ResponseWriter, r *http.Request) error     { return nil }
func (p ProjectListReply) Render(w http.ResponseWriter, r *http.Request) error { return nil }
func (p ProcessReply) Render(w http.ResponseWriter, r *http.Request) error     { return nil }
func (p CurrentProjectReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
func (p SearchReply) Render(w http.ResponseWriter, r *http.Request) error { return nil }
func (p HealthReply) Render(w http.ResponseWriter, r *http.Request) error { return nil }
func (p ErrorReply) Render(w http.ResponseWriter, r *http.Request) error  { return nil }
