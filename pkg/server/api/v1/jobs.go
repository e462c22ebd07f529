package v1

import (
	"net/http"

	"github.com/vividoc-ai/vividoc/pkg/server/api"
)

// GetJobHandler handles GET /api/v1/jobs/{id}
//
// Returns a snapshot of an asynchronous job: status, progress, and the
// result payload once the job has completed. Clients poll this endpoint
// to drive progress displays.
//
// Response format:
//
//	{
//	  "job_id": "550e8400-...",
//	  "job_type": "document_generation",
//	  "status": "running",
//	  "progress": {
//	    "phase": "executing",
//	    "overall_percent": 62.5,
//	    "current_unit": "ku2",
//	    "current_stage": "stage2",
//	    "units": [...]
//	  }
//	}
//
// Returns 404 if the job id is unknown.
func GetJobHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		job, ok := deps.Registry.Get(id)
		if !ok {
			api.WriteJSONError(w, http.StatusNotFound, "Not Found", "job '"+id+"' not found")
			return
		}

		api.WriteJSON(w, http.StatusOK, job)
	}
}
