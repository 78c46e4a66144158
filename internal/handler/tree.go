package handler

import (
	"log/slog"
	"net/http"
	"strings"

	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
)

// TreeHandler serves department trees and route resolution
type TreeHandler struct {
	treeService dirsvc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService dirsvc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the nested directory tree of a department
// GET /api/departments/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "department ID is required")
		return
	}

	tree, err := h.treeService.GetDepartmentTree(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// Resolve maps a slug path to the entry it addresses
// GET /api/departments/{id}/resolve?path=benefits/dental/claims
// A miss is 404; anything the tree can't address (empty path) is 400.
func (h *TreeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "department ID is required")
		return
	}

	path := strings.Trim(r.URL.Query().Get("path"), "/")
	if path == "" {
		httputil.RespondError(w, http.StatusBadRequest, "path query parameter is required")
		return
	}

	entry, err := h.treeService.Resolve(r.Context(), id, strings.Split(path, "/"))
	if err != nil {
		handleError(w, err)
		return
	}
	if entry == nil {
		httputil.RespondError(w, http.StatusNotFound, "no entry at this path")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// GetEntryPath returns the slug path from the department root to an entry
// GET /api/entries/{id}/path
func (h *TreeHandler) GetEntryPath(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	path, err := h.treeService.EntryPath(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"path": path})
}
