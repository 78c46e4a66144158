package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirrepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
)

type favoriteService struct {
	favoriteRepo dirrepo.FavoriteRepository
	entryRepo    dirrepo.EntryRepository
	deptRepo     dirrepo.DepartmentRepository
	logger       *slog.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(
	favoriteRepo dirrepo.FavoriteRepository,
	entryRepo dirrepo.EntryRepository,
	deptRepo dirrepo.DepartmentRepository,
	logger *slog.Logger,
) dirsvc.FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		entryRepo:    entryRepo,
		deptRepo:     deptRepo,
		logger:       logger,
	}
}

// Toggle pins the target for the user, or unpins it if already pinned
func (s *favoriteService) Toggle(ctx context.Context, userID string, target dirmodels.Target) (*dirmodels.Favorite, bool, error) {
	if !target.Valid() {
		return nil, false, &domain.ValidationError{
			Message: "a favorite targets exactly one of entry_id, department_id or article_path",
		}
	}

	if target.EntryID != nil && *target.EntryID != "" {
		if _, err := s.entryRepo.GetByID(ctx, *target.EntryID); err != nil {
			return nil, false, err
		}
	}
	if target.DepartmentID != nil && *target.DepartmentID != "" {
		if _, err := s.deptRepo.GetByID(ctx, *target.DepartmentID); err != nil {
			return nil, false, err
		}
	}

	existing, err := s.favoriteRepo.FindByTarget(ctx, userID, target)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up favorite: %w", err)
	}
	if existing != nil {
		if err := s.favoriteRepo.Delete(ctx, existing.ID); err != nil {
			return nil, false, err
		}
		s.logger.Debug("favorite removed", "id", existing.ID, "user_id", userID)
		return nil, false, nil
	}

	fav := &dirmodels.Favorite{
		ID:           uuid.NewString(),
		UserID:       userID,
		EntryID:      target.EntryID,
		DepartmentID: target.DepartmentID,
		ArticlePath:  target.ArticlePath,
		CreatedAt:    time.Now(),
	}
	if err := s.favoriteRepo.Create(ctx, fav); err != nil {
		return nil, false, err
	}

	s.logger.Debug("favorite added", "id", fav.ID, "user_id", userID)
	return fav, true, nil
}

// List retrieves the user's favorites, newest first
func (s *favoriteService) List(ctx context.Context, userID string) ([]dirmodels.Favorite, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}
