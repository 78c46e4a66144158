package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/config"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories"
	dirrepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
)

type entryService struct {
	entryRepo    dirrepo.EntryRepository
	favoriteRepo dirrepo.FavoriteRepository
	txManager    repositories.TransactionManager
	validator    *ResourceValidator
	logger       *slog.Logger
}

// NewEntryService creates a new folder/entry service
func NewEntryService(
	entryRepo dirrepo.EntryRepository,
	favoriteRepo dirrepo.FavoriteRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	logger *slog.Logger,
) dirsvc.EntryService {
	return &entryService{
		entryRepo:    entryRepo,
		favoriteRepo: favoriteRepo,
		txManager:    txManager,
		validator:    validator,
		logger:       logger,
	}
}

// CreateFolder creates a new folder at the department's top level or under
// an existing folder
func (s *entryService) CreateFolder(ctx context.Context, req *dirsvc.CreateFolderRequest) (*dirmodels.Entry, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.DepartmentID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxEntryNameLength)),
		validation.Field(&req.Slug, validation.Length(0, config.MaxSlugLength)),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	if err := s.validator.ValidateDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if req.ParentID != nil {
		if _, err := s.validator.ValidateFolder(ctx, *req.ParentID, req.DepartmentID); err != nil {
			return nil, err
		}
	}

	slug := req.Slug
	if slug == "" {
		slug = req.Name
	}
	slug = Slugify(slug)

	if err := s.checkSlugFree(ctx, req.DepartmentID, req.ParentID, slug, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &dirmodels.Entry{
		ID:           uuid.NewString(),
		DepartmentID: req.DepartmentID,
		ParentID:     req.ParentID,
		Name:         req.Name,
		Slug:         slug,
		Emoji:        req.Emoji,
		CreatedBy:    req.ActorID,
		UpdatedBy:    req.ActorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", entry.ID,
		"name", entry.Name,
		"slug", entry.Slug,
		"department_id", entry.DepartmentID,
		"parent_id", entry.ParentID,
	)
	return entry, nil
}

// GetEntry retrieves an entry by ID
func (s *entryService) GetEntry(ctx context.Context, id string) (*dirmodels.Entry, error) {
	return s.entryRepo.GetByID(ctx, id)
}

// UpdateFolder renames, reslugs, re-emojis or moves a folder. Frame
// placements are managed through the frame endpoints and are refused here.
func (s *entryService) UpdateFolder(ctx context.Context, id string, req *dirsvc.UpdateFolderRequest) (*dirmodels.Entry, error) {
	entry, err := s.validator.ValidateFolder(ctx, id, "")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := validation.Validate(*req.Name,
			validation.Required, validation.Length(1, config.MaxEntryNameLength)); err != nil {
			return nil, &domain.ValidationError{Message: "name: " + err.Error()}
		}
		entry.Name = *req.Name
	}
	if req.Emoji.Present {
		entry.Emoji = req.Emoji.Value
	}

	newParent := entry.ParentID
	if req.ParentID.Present {
		newParent = req.ParentID.Value
		if newParent != nil && *newParent == "" {
			newParent = nil
		}
		if err := s.validateMove(ctx, entry, newParent); err != nil {
			return nil, err
		}
	}

	newSlug := entry.Slug
	if req.Slug != nil {
		newSlug = Slugify(*req.Slug)
	}

	// Re-check the slug whenever it changes or the folder changes location.
	if newSlug != entry.Slug || !sameParent(newParent, entry.ParentID) {
		if err := s.checkSlugFree(ctx, entry.DepartmentID, newParent, newSlug, entry.ID); err != nil {
			return nil, err
		}
	}
	entry.Slug = newSlug
	entry.ParentID = newParent
	entry.UpdatedBy = req.ActorID

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", entry.ID,
		"name", entry.Name,
		"slug", entry.Slug,
		"parent_id", entry.ParentID,
	)
	return entry, nil
}

// DeleteFolder deletes a folder. Refuses non-empty folders unless force is
// set, in which case the whole subtree goes, placements included.
func (s *entryService) DeleteFolder(ctx context.Context, id string, force bool, actorID string) error {
	folder, err := s.validator.ValidateFolder(ctx, id, "")
	if err != nil {
		return err
	}

	entries, err := s.entryRepo.ListByDepartment(ctx, folder.DepartmentID)
	if err != nil {
		return fmt.Errorf("failed to list department entries: %w", err)
	}

	subtree := collectSubtree(BuildChildrenIndex(entries), id)
	if len(subtree) > 0 && !force {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("folder %q is not empty; pass force to delete its %d entries", folder.Name, len(subtree)),
			ResourceType: "entry",
			ResourceID:   folder.ID,
		}
	}

	// Children before parents, so the delete works without relying on
	// cascade behavior.
	ids := make([]string, 0, len(subtree)+1)
	for i := len(subtree) - 1; i >= 0; i-- {
		ids = append(ids, subtree[i])
	}
	ids = append(ids, id)

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		for _, entryID := range ids {
			if err := s.favoriteRepo.DeleteByEntry(ctx, entryID); err != nil {
				return fmt.Errorf("failed to clear favorites for entry %s: %w", entryID, err)
			}
		}
		return s.entryRepo.DeleteMany(ctx, ids)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folder.ID,
		"name", folder.Name,
		"department_id", folder.DepartmentID,
		"descendants", len(subtree),
		"forced", force,
		"actor", actorID,
	)
	return nil
}

// ListChildren lists immediate children of a folder, or of the department's
// top level when parentID is nil
func (s *entryService) ListChildren(ctx context.Context, departmentID string, parentID *string) ([]dirmodels.Entry, error) {
	if err := s.validator.ValidateDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := s.validator.ValidateFolder(ctx, *parentID, departmentID); err != nil {
			return nil, err
		}
	}
	return s.entryRepo.ListChildren(ctx, departmentID, parentID)
}

// Reorder pins explicit sort positions for the listed siblings, in the order
// given. Every id must be a direct child of the target location.
func (s *entryService) Reorder(ctx context.Context, req *dirsvc.ReorderRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.DepartmentID, validation.Required),
		validation.Field(&req.OrderedIDs, validation.Required),
	); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}

	children, err := s.entryRepo.ListChildren(ctx, req.DepartmentID, req.ParentID)
	if err != nil {
		return err
	}
	childSet := make(map[string]bool, len(children))
	for _, child := range children {
		childSet[child.ID] = true
	}
	for _, id := range req.OrderedIDs {
		if !childSet[id] {
			return &domain.ValidationError{
				Message: fmt.Sprintf("entry %s is not a child of the target location", id),
			}
		}
	}

	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		for i, id := range req.OrderedIDs {
			if err := s.entryRepo.SetSortOrder(ctx, id, i, req.ActorID); err != nil {
				return err
			}
		}
		return nil
	})
}

// checkSlugFree rejects a slug already held by a sibling at the location.
// excludeID skips the entry being updated.
func (s *entryService) checkSlugFree(ctx context.Context, departmentID string, parentID *string, slug, excludeID string) error {
	siblings, err := s.entryRepo.ListChildren(ctx, departmentID, parentID)
	if err != nil {
		return fmt.Errorf("failed to check sibling slugs: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.Slug == slug && sibling.ID != excludeID {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("an entry with slug %q already exists in this location", slug),
				ResourceType: "entry",
				ResourceID:   sibling.ID,
			}
		}
	}
	return nil
}

// validateMove rejects moves that would detach the folder into itself or a
// descendant, or across departments.
func (s *entryService) validateMove(ctx context.Context, entry *dirmodels.Entry, newParent *string) error {
	if newParent == nil {
		return nil
	}
	if *newParent == entry.ID {
		return &domain.ValidationError{Message: "a folder cannot be moved into itself"}
	}

	parent, err := s.validator.ValidateFolder(ctx, *newParent, entry.DepartmentID)
	if err != nil {
		return err
	}

	entries, err := s.entryRepo.ListByDepartment(ctx, entry.DepartmentID)
	if err != nil {
		return fmt.Errorf("failed to list department entries: %w", err)
	}
	byID := BuildEntryIndex(entries)

	current := *parent
	for steps := 0; current.ParentID != nil; steps++ {
		if steps > len(byID) {
			return ErrEntryCycle
		}
		if *current.ParentID == entry.ID {
			return &domain.ValidationError{Message: "a folder cannot be moved into its own descendant"}
		}
		next, ok := byID[*current.ParentID]
		if !ok {
			break
		}
		current = next
	}
	return nil
}

// collectSubtree returns all descendant ids of root in breadth-first order.
func collectSubtree(children map[string][]dirmodels.Entry, root string) []string {
	var ids []string
	queue := []string{root}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		for _, child := range children[key] {
			ids = append(ids, child.ID)
			if child.IsFolder() {
				queue = append(queue, child.ID)
			}
		}
	}
	return ids
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
