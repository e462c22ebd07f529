package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vividoc-ai/vividoc/pkg/server/api"
)

// generateDocumentRequest is the body for POST /api/v1/documents.
type generateDocumentRequest struct {
	SpecID string `json:"spec_id"`
}

// GenerateDocumentHandler handles POST /api/v1/documents
//
// Starts an asynchronous generation job for a stored spec. Returns 202
// Accepted with a job id for polling. 404 if the spec is unknown.
func GenerateDocumentHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, "Invalid Input", "Request body must be valid JSON")
			return
		}

		if strings.TrimSpace(req.SpecID) == "" {
			api.WriteJSONError(w, http.StatusBadRequest, "Invalid Input", "spec_id is required")
			return
		}

		doc, err := deps.Specs.Get(req.SpecID)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		jobID := deps.Generation.StartGeneration(req.SpecID, doc)

		log.Info().
			Str("component", "api").
			Str("job_id", jobID).
			Str("spec_id", req.SpecID).
			Msg("Generation job accepted")

		api.WriteJSON(w, http.StatusAccepted, jobAccepted{JobID: jobID})
	}
}

// GetDocumentHandler handles GET /api/v1/documents/{id}
//
// Returns metadata for a generated document, including the evaluation
// report when one was produced. 404 if unknown.
func GetDocumentHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		meta, err := deps.Generation.GetDocument(id)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		api.WriteJSON(w, http.StatusOK, meta)
	}
}

// GetDocumentHTMLHandler handles GET /api/v1/documents/{id}/html
//
// Serves the generated HTML inline for browser rendering.
func GetDocumentHTMLHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		content, err := deps.Generation.GetHTML(id)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(content))
	}
}

// DownloadDocumentHandler handles GET /api/v1/documents/{id}/download
//
// Serves the generated HTML as an attachment named after the document id.
func DownloadDocumentHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		content, err := deps.Generation.GetHTML(id)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".html"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(content))
	}
}
