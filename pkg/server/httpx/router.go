package httpx

import (
	"net/http"

	"github.com/vividoc-ai/vividoc/pkg/config"
	"github.com/vividoc-ai/vividoc/pkg/server/api"
	v1 "github.com/vividoc-ai/vividoc/pkg/server/api/v1"
)

// NewRouter creates and configures the main HTTP router.
// It mounts health endpoints and the v1 API based on the configuration.
//
// The router uses Go 1.22+ enhanced pattern matching for cleaner routes.
// API routes are mounted conditionally based on cfg.APIEnabled.
//
// Health endpoints are always enabled for liveness/readiness checks.
func NewRouter(cfg config.ServerConfig, deps *api.Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints (always enabled)
	mux.HandleFunc("GET /healthz", HealthzHandler)
	mux.HandleFunc("GET /readyz", v1.ReadyzHandler(deps.Ready))

	// API endpoints (conditional)
	if cfg.APIEnabled {
		mux.HandleFunc("POST /api/v1/specs", v1.GenerateSpecHandler(deps))
		mux.HandleFunc("GET /api/v1/specs", v1.ListSpecsHandler(deps))
		mux.HandleFunc("GET /api/v1/specs/{id}", v1.GetSpecHandler(deps))
		mux.HandleFunc("PUT /api/v1/specs/{id}", v1.UpdateSpecHandler(deps))
		mux.HandleFunc("DELETE /api/v1/specs/{id}", v1.DeleteSpecHandler(deps))

		mux.HandleFunc("POST /api/v1/documents", v1.GenerateDocumentHandler(deps))
		mux.HandleFunc("GET /api/v1/documents/{id}", v1.GetDocumentHandler(deps))
		mux.HandleFunc("GET /api/v1/documents/{id}/html", v1.GetDocumentHTMLHandler(deps))
		mux.HandleFunc("GET /api/v1/documents/{id}/download", v1.DownloadDocumentHandler(deps))

		mux.HandleFunc("GET /api/v1/jobs/{id}", v1.GetJobHandler(deps))
	}

	return mux
}

// HealthzHandler responds with 200 OK if the server process is alive.
// This endpoint is used by load balancers and orchestrators for liveness checks.
//
// It does not check dependencies (storage, jobs, etc.) - just process health.
// For comprehensive readiness checks, use /readyz instead.
func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
