package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleGetStored returns a stored outline by document ID (the first 16 hex
// characters of the upload's SHA-256).
func (s *Server) handleGetStored(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	result, err := s.orchestrator.Store().Get(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to read outline: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if result == nil {
		jsonError(w, "outline not found", http.StatusNotFound)
		return
	}
	writeResult(w, r, *result)
}

// handleDeleteStored drops a stored outline so the next upload of the same
// bytes is analyzed again.
func (s *Server) handleDeleteStored(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.orchestrator.Store().Delete(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete outline: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}
