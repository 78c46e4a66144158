package handler

import (
	"log/slog"
	"net/http"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/notify"
)

// FrameHandler handles frame HTTP requests
type FrameHandler struct {
	frameService dirsvc.FrameService
	workers      services.WorkerDirectory
	broker       *notify.Broker
	logger       *slog.Logger
}

// NewFrameHandler creates a new frame handler
func NewFrameHandler(
	frameService dirsvc.FrameService,
	workers services.WorkerDirectory,
	broker *notify.Broker,
	logger *slog.Logger,
) *FrameHandler {
	return &FrameHandler{
		frameService: frameService,
		workers:      workers,
		broker:       broker,
		logger:       logger,
	}
}

// CreateFrame creates a frame with its initial placements
// POST /api/frames
func (h *FrameHandler) CreateFrame(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dirsvc.CreateFrameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ActorID = userID

	// Default the home department from the worker directory. Best effort:
	// an unreachable directory just leaves the field for validation.
	if req.DepartmentID == "" {
		if profile := h.lookupWorker(r); profile != nil {
			req.DepartmentID = profile.DepartmentID
		}
	}

	frame, err := h.frameService.CreateFrame(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.broker.FrameChanged(frame.ID)
	httputil.RespondJSON(w, http.StatusCreated, frame)
}

// GetFrame retrieves a frame by ID
// GET /api/frames/{id}
func (h *FrameHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "frame ID is required")
		return
	}

	frame, err := h.frameService.GetFrame(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, frame)
}

// ListFrames lists frames, optionally filtered to one department's view
// GET /api/frames?department={id}
func (h *FrameHandler) ListFrames(w http.ResponseWriter, r *http.Request) {
	departmentID := r.URL.Query().Get("department")

	frames, err := h.frameService.ListFrames(r.Context(), departmentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, frames)
}

// UpdateFrame updates a frame's identity and optionally its placements
// PATCH /api/frames/{id}
func (h *FrameHandler) UpdateFrame(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "frame ID is required")
		return
	}

	var req dirsvc.UpdateFrameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ActorID = userID

	frame, err := h.frameService.UpdateFrame(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.broker.FrameChanged(frame.ID)
	httputil.RespondJSON(w, http.StatusOK, frame)
}

// DeleteFrame deletes a frame and all its placements
// DELETE /api/frames/{id}
func (h *FrameHandler) DeleteFrame(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "frame ID is required")
		return
	}

	if err := h.frameService.DeleteFrame(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	h.broker.FrameChanged(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *FrameHandler) lookupWorker(r *http.Request) *services.WorkerProfile {
	email := httputil.GetUserEmail(r)
	if email == "" || h.workers == nil {
		return nil
	}
	profile, err := h.workers.LookupByEmail(r.Context(), email)
	if err != nil {
		h.logger.Debug("worker directory lookup degraded", "error", err)
		return nil
	}
	return profile
}
