package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/service"
)

// (POST /api/v1alpha1/users/{username}/projects/{id}/process)
//
// The trigger is synchronous: the reply carries the final state of the run,
// or the current record when a run is already in flight.
func (s *ServiceHandler) ProcessProject(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	id := chi.URLParam(r, "id")

	project, err := s.processingSrv.ProcessProject(r.Context(), username, id)
	if err != nil {
		s.renderProcessFailure(w, r, username, id, err)
		return
	}

	resource := project.ToApiResource()
	reply := api.ProcessReply{
		Status:  resource.Status,
		Project: &resource,
	}
	switch resource.Status {
	case api.ProjectStatusCompleted:
		reply.Message = "processing completed"
	case api.ProjectStatusProcessing:
		reply.Message = "processing already in progress"
	default:
		reply.Message = "processing finished"
	}

	_ = render.Render(w, r, ProcessReply{reply})
}

func (s *ServiceHandler) renderProcessFailure(w http.ResponseWriter, r *http.Request, username string, id string, err error) {
	var status int
	var reason string
	switch err.(type) {
	case *service.ErrProjectNotFound:
		renderError(w, r, err)
		return
	case *service.ErrPipelineUnavailable:
		status = http.StatusServiceUnavailable
		reason = api.FailureReasonServiceUnavailable
	case *service.ErrProcessingFailed:
		status = http.StatusInternalServerError
		reason = api.FailureReasonProcessingError
	default:
		renderError(w, r, err)
		return
	}

	reply := api.ProcessReply{
		Status:  api.ProjectStatusFailed,
		Reason:  reason,
		Message: err.Error(),
	}
	// Best effort: attach the persisted failure record so the caller sees
	// the stored error detail without a second round trip.
	if project, getErr := s.processingSrv.GetProject(r.Context(), username, id); getErr == nil {
		resource := project.ToApiResource()
		reply.Project = &resource
	}

	render.Status(r, status)
	_ = render.Render(w, r, ProcessReply{reply})
}
