package rest

import (
	"encoding/json"
	"net/http"

	"github.com/elev8sports/elev8-api/internal/service"
	"github.com/elev8sports/elev8-api/internal/store/repository"
	"github.com/gorilla/mux"
)

// UploadCSV ingests a GameChanger CSV export for one of the caller's
// children
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	var req service.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.importService.UploadCSV(r.Context(), identity.UserID, &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// statFilterFromQuery reads the optional sport/season/source filters.
func statFilterFromQuery(r *http.Request) repository.StatFilter {
	q := r.URL.Query()
	return repository.StatFilter{
		Sport:  q.Get("sport"),
		Season: q.Get("season"),
		Source: q.Get("source"),
	}
}

// GetChildStats returns a child's raw stat rows with import context
func (h *Handler) GetChildStats(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	childID := mux.Vars(r)["childID"]

	stats, err := h.statsService.GetChildStats(r.Context(), identity.UserID, childID, statFilterFromQuery(r))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetChildStatSummary returns aggregated stats, recent imports and a
// per-sport breakdown for a child
func (h *Handler) GetChildStatSummary(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	childID := mux.Vars(r)["childID"]

	summary, err := h.statsService.GetChildStatSummary(r.Context(), identity.UserID, childID, statFilterFromQuery(r))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// ListImports returns the caller's import history across all children
func (h *Handler) ListImports(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	imports, err := h.importService.ListUserImports(r.Context(), identity.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"imports": imports,
		"count":   len(imports),
	})
}

// ReprocessImport re-parses a stored import's raw CSV and replaces its
// stat rows
func (h *Handler) ReprocessImport(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	importID := mux.Vars(r)["importID"]

	result, err := h.importService.ReprocessImport(r.Context(), identity.UserID, importID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
