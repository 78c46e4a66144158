package handler

import (
	"log/slog"
	"net/http"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/notify"
)

// SettingHandler handles portal configuration requests
type SettingHandler struct {
	settingService dirsvc.SettingService
	broker         *notify.Broker
	logger         *slog.Logger
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(settingService dirsvc.SettingService, broker *notify.Broker, logger *slog.Logger) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
		broker:         broker,
		logger:         logger,
	}
}

// GetSetting retrieves a setting value
// GET /api/settings/{key}
func (h *SettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		httputil.RespondError(w, http.StatusBadRequest, "setting key is required")
		return
	}

	value, err := h.settingService.Get(r.Context(), key)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// PutSetting writes a setting value
// PUT /api/settings/{key}
func (h *SettingHandler) PutSetting(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	key := r.PathValue("key")
	if key == "" {
		httputil.RespondError(w, http.StatusBadRequest, "setting key is required")
		return
	}

	var body struct {
		Value string `json:"value"`
	}
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settingService.Put(r.Context(), key, body.Value, userID); err != nil {
		handleError(w, err)
		return
	}

	h.broker.SettingsChanged(key)
	w.WriteHeader(http.StatusNoContent)
}

// GetDepartmentOrder returns the pinned department navigation order
// GET /api/settings/department-order
func (h *SettingHandler) GetDepartmentOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.settingService.DepartmentOrder(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"order": order})
}

// PutDepartmentOrder pins the department navigation order
// PUT /api/settings/department-order
func (h *SettingHandler) PutDepartmentOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Order []string `json:"order"`
	}
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settingService.SetDepartmentOrder(r.Context(), body.Order, userID); err != nil {
		handleError(w, err)
		return
	}

	h.broker.SettingsChanged(directory.SettingDepartmentOrder)
	w.WriteHeader(http.StatusNoContent)
}
