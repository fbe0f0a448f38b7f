package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
)

// (GET /health)
//
// The service itself answering is the liveness signal. Pipeline
// reachability is reported alongside so operators can tell the two apart.
func (s *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	pipeline := "unavailable"
	if s.processingSrv.PipelineReady(r.Context()) {
		pipeline = "ready"
	}
	_ = render.Render(w, r, HealthReply{api.Health{Status: "healthy", Pipeline: pipeline}})
}
