package handler

import (
	"log/slog"
	"net/http"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirrepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
)

// DepartmentHandler serves the HR-synced department list
type DepartmentHandler struct {
	deptRepo       dirrepo.DepartmentRepository
	settingService dirsvc.SettingService
	logger         *slog.Logger
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(
	deptRepo dirrepo.DepartmentRepository,
	settingService dirsvc.SettingService,
	logger *slog.Logger,
) *DepartmentHandler {
	return &DepartmentHandler{
		deptRepo:       deptRepo,
		settingService: settingService,
		logger:         logger,
	}
}

// HealthCheck reports service liveness
// GET /health
func (h *DepartmentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListDepartments returns all departments in navigation order
// GET /api/departments
func (h *DepartmentHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.deptRepo.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	order, err := h.settingService.DepartmentOrder(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	byID := make(map[string]directory.Department, len(departments))
	for _, dept := range departments {
		byID[dept.ID] = dept
	}
	ordered := make([]directory.Department, 0, len(departments))
	for _, id := range order {
		if dept, ok := byID[id]; ok {
			ordered = append(ordered, dept)
		}
	}

	httputil.RespondJSON(w, http.StatusOK, ordered)
}

// GetDepartment retrieves one department
// GET /api/departments/{id}
func (h *DepartmentHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "department ID is required")
		return
	}

	dept, err := h.deptRepo.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dept)
}
