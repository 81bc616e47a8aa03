package rest

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/elev8sports/elev8-api/internal/cache"
	"github.com/elev8sports/elev8-api/internal/ingest/gamechanger"
	"github.com/elev8sports/elev8-api/internal/publisher"
	"github.com/elev8sports/elev8-api/internal/service"
	"github.com/elev8sports/elev8-api/internal/store"
	"github.com/elev8sports/elev8-api/internal/store/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db            *store.Database
	importService *service.ImportService
	statsService  *service.StatsService
	childRepo     *repository.ChildRepository
	log           *logrus.Logger
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, rc *cache.RedisCache, pub *publisher.RedisPublisher, log *logrus.Logger) *Handler {
	return &Handler{
		db:            db,
		importService: service.NewImportService(db, rc, pub, log),
		statsService:  service.NewStatsService(db),
		childRepo:     repository.NewChildRepository(db),
		log:           log,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "elev8-api",
		"version": "1.0.0",
	})
}

// childRequest is the body for creating or updating a child profile.
type childRequest struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	DateOfBirth string   `json:"date_of_birth"`
	Sport       string   `json:"sport"`
	Positions   []string `json:"positions"`
}

func (req *childRequest) apply(child *store.Child) error {
	child.FirstName = req.FirstName
	child.LastName = req.LastName
	child.Sport = nullableString(req.Sport)
	child.Positions = pq.StringArray(req.Positions)

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return err
		}
		child.DateOfBirth.Time = dob
		child.DateOfBirth.Valid = true
	} else {
		child.DateOfBirth.Valid = false
	}

	return nil
}

// CreateChild creates a child profile owned by the caller
func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		respondError(w, http.StatusBadRequest, "first_name and last_name are required", nil)
		return
	}

	child := &store.Child{
		ChildID:  uuid.NewString(),
		ParentID: identity.UserID,
	}
	if err := req.apply(child); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date_of_birth (use YYYY-MM-DD)", err)
		return
	}

	if err := h.childRepo.Create(r.Context(), child); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create child", err)
		return
	}

	respondJSON(w, http.StatusCreated, child)
}

// ListChildren returns the caller's child profiles
func (h *Handler) ListChildren(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	children, err := h.childRepo.ListByParent(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch children", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"children": children,
		"count":    len(children),
	})
}

// GetChild returns one of the caller's child profiles
func (h *Handler) GetChild(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	childID := mux.Vars(r)["childID"]

	child, err := h.childRepo.GetOwned(r.Context(), childID, identity.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, child)
}

// UpdateChild modifies one of the caller's child profiles
func (h *Handler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	childID := mux.Vars(r)["childID"]

	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		respondError(w, http.StatusBadRequest, "first_name and last_name are required", nil)
		return
	}

	child := &store.Child{
		ChildID:  childID,
		ParentID: identity.UserID,
	}
	if err := req.apply(child); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date_of_birth (use YYYY-MM-DD)", err)
		return
	}

	if err := h.childRepo.Update(r.Context(), child); err != nil {
		h.respondServiceError(w, err)
		return
	}

	updated, err := h.childRepo.GetOwned(r.Context(), childID, identity.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteChild removes one of the caller's child profiles along with its
// imports and stats
func (h *Handler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	childID := mux.Vars(r)["childID"]

	if err := h.childRepo.Delete(r.Context(), childID, identity.UserID); err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"deleted": childID})
}

// respondServiceError maps service and repository errors onto HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, gamechanger.ErrInsufficientInput):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &validationErrs):
		respondError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		h.log.WithError(err).Error("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error", err)
	}
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
