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

// PlacementSynchronizer reconciles a frame's persisted placements against a
// target set of folder locations. Removals happen before additions so a
// placement moving between folders frees its slug first. Callers run it
// inside a transaction together with the frame write it belongs to.
type PlacementSynchronizer struct {
	entryRepo dirrepo.EntryRepository
	logger    *slog.Logger
}

func NewPlacementSynchronizer(entryRepo dirrepo.EntryRepository, logger *slog.Logger) *PlacementSynchronizer {
	return &PlacementSynchronizer{entryRepo: entryRepo, logger: logger}
}

// SyncPlacements diffs the frame's current placements against req.Targets and
// applies the minimal set of deletes and inserts. Placements at locations in
// both sets are left untouched, keeping their slugs and sort positions.
func (s *PlacementSynchronizer) SyncPlacements(ctx context.Context, req *dirsvc.SyncPlacementsRequest) error {
	targets, err := s.resolveTargets(ctx, req)
	if err != nil {
		return err
	}

	existing, err := s.entryRepo.ListByFrame(ctx, req.FrameID)
	if err != nil {
		return fmt.Errorf("failed to list frame placements: %w", err)
	}

	existingByKey := make(map[string]*dirmodels.Entry, len(existing))
	for i := range existing {
		ref := dirrepo.ParentRef{
			DepartmentID: existing[i].DepartmentID,
			FolderID:     existing[i].ParentID,
		}
		existingByKey[ref.Key()] = &existing[i]
	}

	var removeIDs []string
	for key, entry := range existingByKey {
		if _, keep := targets[key]; !keep {
			removeIDs = append(removeIDs, entry.ID)
		}
	}

	var addRefs []dirrepo.ParentRef
	for key, ref := range targets {
		if _, have := existingByKey[key]; !have {
			addRefs = append(addRefs, ref)
		}
	}

	if len(removeIDs) > 0 {
		if err := s.entryRepo.DeleteMany(ctx, removeIDs); err != nil {
			return fmt.Errorf("failed to remove placements: %w", err)
		}
	}

	if len(addRefs) == 0 {
		return nil
	}

	slugsByKey, err := s.entryRepo.ListSlugs(ctx, addRefs)
	if err != nil {
		return fmt.Errorf("failed to list sibling slugs: %w", err)
	}

	now := time.Now()
	entries := make([]*dirmodels.Entry, 0, len(addRefs))
	for _, ref := range addRefs {
		taken := make(map[string]bool)
		for _, slug := range slugsByKey[ref.Key()] {
			taken[slug] = true
		}

		entries = append(entries, &dirmodels.Entry{
			ID:           uuid.NewString(),
			DepartmentID: ref.DepartmentID,
			ParentID:     ref.FolderID,
			FrameID:      &req.FrameID,
			Name:         req.Name,
			Slug:         NextFreeSlug(req.BaseSlug, taken),
			Emoji:        req.Emoji,
			CreatedBy:    req.ActorID,
			UpdatedBy:    req.ActorID,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.entryRepo.CreateMany(ctx, entries); err != nil {
		return fmt.Errorf("failed to create placements: %w", err)
	}

	s.logger.Debug("synchronized frame placements",
		"frame_id", req.FrameID,
		"removed", len(removeIDs),
		"added", len(entries),
		"kept", len(existingByKey)-len(removeIDs),
	)
	return nil
}

// resolveTargets turns the request's folder ids into concrete parent
// locations, deduplicated by location key. The department of a folder target
// is the folder's own department, which may differ from the frame's home.
func (s *PlacementSynchronizer) resolveTargets(ctx context.Context, req *dirsvc.SyncPlacementsRequest) (map[string]dirrepo.ParentRef, error) {
	targets := make(map[string]dirrepo.ParentRef, len(req.Targets))

	var folderIDs []string
	for _, target := range req.Targets {
		if target == nil {
			if req.DepartmentID == "" {
				return nil, &domain.ValidationError{
					Message: "a top-level placement requires a home department",
				}
			}
			ref := dirrepo.ParentRef{DepartmentID: req.DepartmentID}
			targets[ref.Key()] = ref
			continue
		}
		folderIDs = append(folderIDs, *target)
	}

	if len(folderIDs) == 0 {
		return targets, nil
	}

	folders, err := s.entryRepo.ListByIDs(ctx, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load target folders: %w", err)
	}
	foldersByID := make(map[string]*dirmodels.Entry, len(folders))
	for i := range folders {
		foldersByID[folders[i].ID] = &folders[i]
	}

	for _, id := range folderIDs {
		folder, ok := foldersByID[id]
		if !ok {
			return nil, &domain.NotFoundError{
				Message: fmt.Sprintf("placement target folder %s not found", id),
			}
		}
		if !folder.IsFolder() {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("placement target %s is not a folder", id),
			}
		}
		ref := dirrepo.ParentRef{DepartmentID: folder.DepartmentID, FolderID: &folder.ID}
		targets[ref.Key()] = ref
	}

	return targets, nil
}

var _ dirsvc.PlacementSyncer = (*PlacementSynchronizer)(nil)
