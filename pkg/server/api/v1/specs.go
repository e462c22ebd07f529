package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vividoc-ai/vividoc/pkg/server/api"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// generateSpecRequest is the body for POST /api/v1/specs.
type generateSpecRequest struct {
	Topic string `json:"topic"`
}

// jobAccepted is the 202 response for endpoints that enqueue work.
type jobAccepted struct {
	JobID string `json:"job_id"`
}

// GenerateSpecHandler handles POST /api/v1/specs
//
// Starts an asynchronous planning job that turns a topic into a document
// specification. Returns 202 Accepted with a job id for polling.
//
// Request body:
//
//	{"topic": "Fourier transforms"}
//
// Response:
//
//	{"job_id": "550e8400-..."}
func GenerateSpecHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateSpecRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, "Invalid Input", "Request body must be valid JSON")
			return
		}

		if strings.TrimSpace(req.Topic) == "" {
			api.WriteJSONError(w, http.StatusBadRequest, "Invalid Input", "Topic is required")
			return
		}

		jobID := deps.Generation.StartPlanning(req.Topic)

		log.Info().
			Str("component", "api").
			Str("job_id", jobID).
			Msg("Planning job accepted")

		api.WriteJSON(w, http.StatusAccepted, jobAccepted{JobID: jobID})
	}
}

// ListSpecsHandler handles GET /api/v1/specs
//
// Returns stored spec metadata, newest first.
func ListSpecsHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specs := deps.Specs.List()
		if specs == nil {
			specs = []spec.Metadata{}
		}
		api.WriteJSON(w, http.StatusOK, specs)
	}
}

// GetSpecHandler handles GET /api/v1/specs/{id}
//
// Returns the full document specification. 404 if unknown.
func GetSpecHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		doc, err := deps.Specs.Get(id)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		api.WriteJSON(w, http.StatusOK, doc)
	}
}

// UpdateSpecHandler handles PUT /api/v1/specs/{id}
//
// Replaces a stored specification after validating the new content.
// Users edit specs between planning and generation.
func UpdateSpecHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var doc spec.DocumentSpec
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, "Invalid Input", "Request body must be a valid spec")
			return
		}

		if err := doc.Validate(); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, "Invalid Input", err.Error())
			return
		}

		if err := deps.Specs.Update(id, doc); err != nil {
			api.WriteError(w, r, err)
			return
		}

		api.WriteJSON(w, http.StatusOK, doc)
	}
}

// DeleteSpecHandler handles DELETE /api/v1/specs/{id}
//
// Removes a stored spec and its directory. 404 if unknown.
func DeleteSpecHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		if err := deps.Specs.Delete(id); err != nil {
			api.WriteError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
