package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/notify"
)

// EntryHandler handles folder HTTP requests
type EntryHandler struct {
	entryService dirsvc.EntryService
	broker       *notify.Broker
	logger       *slog.Logger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(entryService dirsvc.EntryService, broker *notify.Broker, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		broker:       broker,
		logger:       logger,
	}
}

// CreateFolder creates a new folder
// POST /api/entries
// Returns 201 if created, 409 with the existing entry on a slug collision
func (h *EntryHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dirsvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ActorID = userID

	entry, err := h.entryService.CreateFolder(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func() (*directory.Entry, error) {
			var conflictErr *domain.ConflictError
			if errors.As(err, &conflictErr) {
				return h.entryService.GetEntry(r.Context(), conflictErr.ResourceID)
			}
			return nil, err
		})
		return
	}

	h.broker.TreeChanged(entry.DepartmentID)
	httputil.RespondJSON(w, http.StatusCreated, entry)
}

// GetEntry retrieves an entry by ID
// GET /api/entries/{id}
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	entry, err := h.entryService.GetEntry(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// UpdateFolder updates a folder (rename, reslug, re-emoji or move)
// PATCH /api/entries/{id}
func (h *EntryHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	var req dirsvc.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ActorID = userID

	entry, err := h.entryService.UpdateFolder(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.broker.TreeChanged(entry.DepartmentID)
	httputil.RespondJSON(w, http.StatusOK, entry)
}

// DeleteFolder deletes a folder
// DELETE /api/entries/{id}?force=true
// Non-empty folders are refused without force.
func (h *EntryHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	entry, err := h.entryService.GetEntry(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	force := r.URL.Query().Get("force") == "true"
	if err := h.entryService.DeleteFolder(r.Context(), id, force, userID); err != nil {
		handleError(w, err)
		return
	}

	h.broker.TreeChanged(entry.DepartmentID)
	w.WriteHeader(http.StatusNoContent)
}

// ListChildren lists immediate children of a folder
// GET /api/entries/{id}/children
func (h *EntryHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	entry, err := h.entryService.GetEntry(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	children, err := h.entryService.ListChildren(r.Context(), entry.DepartmentID, &entry.ID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, children)
}

// Reorder pins an explicit sort order for the children of one location
// POST /api/entries/reorder
func (h *EntryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dirsvc.ReorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ActorID = userID

	if err := h.entryService.Reorder(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	h.broker.TreeChanged(req.DepartmentID)
	w.WriteHeader(http.StatusNoContent)
}
