package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividoc-ai/vividoc/pkg/generation"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

func TestWriteError_SpecNotFoundMapsTo404(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/specs/abc", nil)

	WriteError(rec, req, &spec.NotFoundError{ID: "abc"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Not Found", resp.Error)
	assert.Contains(t, resp.Message, "abc")
}

func TestWriteError_DocumentNotFoundMapsTo404(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1", nil)

	WriteError(rec, req, &generation.NotFoundError{DocumentID: "doc-1"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteError_WrappedNotFoundStillMapsTo404(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/specs/abc", nil)

	wrapped := errors.Join(errors.New("lookup failed"), &spec.NotFoundError{ID: "abc"})
	WriteError(rec, req, wrapped)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteError_GenericErrorMapsTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/specs", nil)

	WriteError(rec, req, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Internal Server Error", resp.Error)
	assert.Equal(t, "disk on fire", resp.Message)
}

func TestWriteJSONError_UsesGivenStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSONError(rec, http.StatusBadRequest, "Invalid Input", "Topic is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid Input", resp.Error)
	assert.Equal(t, "Topic is required", resp.Message)
}

func TestWriteJSON_EncodesPayload(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusAccepted, map[string]string{"job_id": "j-1"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"job_id":"j-1"}`, rec.Body.String())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{HandlerTimeout: -1}.Validate(), ErrInvalidTimeout)
}
