package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/config"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirrepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
)

type settingService struct {
	settingRepo dirrepo.SettingRepository
	deptRepo    dirrepo.DepartmentRepository
	logger      *slog.Logger
}

// NewSettingService creates a new portal settings service
func NewSettingService(
	settingRepo dirrepo.SettingRepository,
	deptRepo dirrepo.DepartmentRepository,
	logger *slog.Logger,
) dirsvc.SettingService {
	return &settingService{
		settingRepo: settingRepo,
		deptRepo:    deptRepo,
		logger:      logger,
	}
}

// Get retrieves a setting value, "" for unset keys
func (s *settingService) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

// Put writes a setting value
func (s *settingService) Put(ctx context.Context, key, value, actorID string) error {
	if err := validation.Validate(key, validation.Required); err != nil {
		return &domain.ValidationError{Message: "key: " + err.Error()}
	}
	if err := validation.Validate(value, validation.Length(0, config.MaxSettingValueLength)); err != nil {
		return &domain.ValidationError{Message: "value: " + err.Error()}
	}

	setting := &dirmodels.Setting{Key: key, Value: value, UpdatedBy: actorID}
	if err := s.settingRepo.Upsert(ctx, setting); err != nil {
		return err
	}

	s.logger.Info("setting updated", "key", key, "actor", actorID)
	return nil
}

// DepartmentOrder returns the admin-pinned department navigation order.
// Departments missing from the stored order follow it, sorted by name;
// stored ids no longer in the department table are dropped.
func (s *settingService) DepartmentOrder(ctx context.Context) ([]string, error) {
	departments, err := s.deptRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	var pinned []string
	setting, err := s.settingRepo.Get(ctx, dirmodels.SettingDepartmentOrder)
	if err != nil {
		return nil, err
	}
	if setting != nil && setting.Value != "" {
		if err := json.Unmarshal([]byte(setting.Value), &pinned); err != nil {
			// A malformed stored order degrades to name order rather
			// than breaking navigation.
			s.logger.Warn("stored department order is not a JSON array, ignoring",
				"error", err,
			)
			pinned = nil
		}
	}

	known := make(map[string]string, len(departments))
	for _, dept := range departments {
		known[dept.ID] = dept.Name
	}

	order := make([]string, 0, len(departments))
	seen := make(map[string]bool, len(departments))
	for _, id := range pinned {
		if _, ok := known[id]; ok && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}

	var rest []string
	for id := range known {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return known[rest[i]] < known[rest[j]] })

	return append(order, rest...), nil
}

// SetDepartmentOrder pins the department navigation order
func (s *settingService) SetDepartmentOrder(ctx context.Context, ids []string, actorID string) error {
	if err := validation.Validate(ids, validation.Required); err != nil {
		return &domain.ValidationError{Message: "ids: " + err.Error()}
	}

	departments, err := s.deptRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list departments: %w", err)
	}
	known := make(map[string]bool, len(departments))
	for _, dept := range departments {
		known[dept.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return &domain.ValidationError{Message: fmt.Sprintf("unknown department %s", id)}
		}
	}

	value, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode department order: %w", err)
	}
	return s.Put(ctx, dirmodels.SettingDepartmentOrder, string(value), actorID)
}
