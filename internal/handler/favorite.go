package handler

import (
	"log/slog"
	"net/http"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
)

// FavoriteHandler handles user favorites
type FavoriteHandler struct {
	favoriteService dirsvc.FavoriteService
	logger          *slog.Logger
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService dirsvc.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// Toggle pins or unpins a target for the authenticated user
// POST /api/favorites/toggle
// Returns 201 with the favorite when pinned, 200 {"pinned": false} when unpinned.
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var target directory.Target
	if err := httputil.ParseJSON(w, r, &target); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fav, pinned, err := h.favoriteService.Toggle(r.Context(), userID, target)
	if err != nil {
		handleError(w, err)
		return
	}

	if !pinned {
		httputil.RespondJSON(w, http.StatusOK, map[string]bool{"pinned": false})
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, fav)
}

// List returns the authenticated user's favorites, newest first
// GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.List(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, favorites)
}
