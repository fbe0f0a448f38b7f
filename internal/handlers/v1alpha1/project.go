package v1alpha1

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/service"
)

// 32 MiB in-memory cap for multipart parsing; bigger files spill to disk.
const maxUploadMemory = 32 << 20

// (POST /api/v1alpha1/users/{username}/projects)
func (s *ServiceHandler) UploadProject(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("expected multipart form upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		renderError(w, r, service.NewErrInvalidRequest("no file was found in the request"))
		return
	}
	defer file.Close()

	project, err := s.projectSrv.CreateProject(r.Context(), username, header.Filename, file)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, ProjectReply{project.ToApiResource()})
}

// (GET /api/v1alpha1/users/{username}/projects)
func (s *ServiceHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	projects, err := s.projectSrv.ListProjects(r.Context(), username)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, ProjectListReply{Projects: projects.ToApiResource()})
}

// (GET /api/v1alpha1/users/{username}/projects/{id})
func (s *ServiceHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	id := chi.URLParam(r, "id")

	project, err := s.processingSrv.GetProject(r.Context(), username, id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, ProjectReply{project.ToApiResource()})
}

// (PUT /api/v1alpha1/users/{username}/current-project)
func (s *ServiceHandler) SetCurrentProject(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var update api.CurrentProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("malformed body"))
		return
	}
	if update.ProjectId == "" {
		renderError(w, r, service.NewErrInvalidRequest("missing projectId"))
		return
	}

	if err := s.projectSrv.SelectProject(r.Context(), username, update.ProjectId); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// (GET /api/v1alpha1/users/{username}/current-project)
func (s *ServiceHandler) GetCurrentProject(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	project, err := s.projectSrv.CurrentProject(r.Context(), username)
	if err != nil {
		renderError(w, r, err)
		return
	}

	reply := CurrentProjectReply{}
	if project != nil {
		resource := project.ToApiResource()
		reply.Project = &resource
	}
	_ = render.Render(w, r, reply)
}
