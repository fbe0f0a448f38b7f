package v1alpha1

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/service"
)

// (POST /api/v1alpha1/users/{username}/projects/{id}/search)
func (s *ServiceHandler) SearchProject(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	id := chi.URLParam(r, "id")

	var req api.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("malformed body"))
		return
	}

	reply, err := s.searchSrv.Search(r.Context(), username, id, req.Query, req.NResults)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, SearchReply{*reply})
}
