// Package v1alpha1 is the HTTP boundary: it decodes requests, delegates
// to the service layer and translates typed service errors into status
// codes.
package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/service"
)

type ServiceHandler struct {
	projectSrv    *service.ProjectService
	processingSrv *service.ProcessingService
	searchSrv     *service.SearchService
}

func NewServiceHandler(projectSrv *service.ProjectService, processingSrv *service.ProcessingService, searchSrv *service.SearchService) *ServiceHandler {
	return &ServiceHandler{
		projectSrv:    projectSrv,
		processingSrv: processingSrv,
		searchSrv:     searchSrv,
	}
}

func (s *ServiceHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api/v1alpha1/users/{username}", func(r chi.Router) {
		r.Post("/projects", s.UploadProject)
		r.Get("/projects", s.ListProjects)
		r.Get("/projects/{id}", s.GetProject)
		r.Post("/projects/{id}/process", s.ProcessProject)
		r.Post("/projects/{id}/search", s.SearchProject)
		r.Get("/current-project", s.GetCurrentProject)
		r.Put("/current-project", s.SetCurrentProject)
	})
	router.Get("/health", s.Health)
}

// renderError maps typed service errors onto status codes. Anything
// untyped is a storage or programming failure and surfaces as 500.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *service.ErrProjectNotFound:
		status = http.StatusNotFound
	case *service.ErrInvalidRequest:
		status = http.StatusBadRequest
	case *service.ErrPipelineUnavailable:
		status = http.StatusServiceUnavailable
	}
	render.Status(r, status)
	_ = render.Render(w, r, ErrorReply{Error: api.Error{Message: err.Error()}})
}
