package directory

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
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

type frameService struct {
	frameRepo    dirrepo.FrameRepository
	entryRepo    dirrepo.EntryRepository
	favoriteRepo dirrepo.FavoriteRepository
	deptRepo     dirrepo.DepartmentRepository
	syncer       dirsvc.PlacementSyncer
	txManager    repositories.TransactionManager
	validator    *ResourceValidator
	logger       *slog.Logger
}

// NewFrameService creates a new frame service
func NewFrameService(
	frameRepo dirrepo.FrameRepository,
	entryRepo dirrepo.EntryRepository,
	favoriteRepo dirrepo.FavoriteRepository,
	deptRepo dirrepo.DepartmentRepository,
	syncer dirsvc.PlacementSyncer,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	logger *slog.Logger,
) dirsvc.FrameService {
	return &frameService{
		frameRepo:    frameRepo,
		entryRepo:    entryRepo,
		favoriteRepo: favoriteRepo,
		deptRepo:     deptRepo,
		syncer:       syncer,
		txManager:    txManager,
		validator:    validator,
		logger:       logger,
	}
}

// CreateFrame creates a frame and its initial placements in one transaction.
// A frame with no placements would be unreachable, so at least one is
// required.
func (s *frameService) CreateFrame(ctx context.Context, req *dirsvc.CreateFrameRequest) (*dirmodels.Frame, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxEntryNameLength)),
		validation.Field(&req.IframeURL, validation.Required, validation.Length(1, config.MaxFrameURLLength)),
		validation.Field(&req.DepartmentID, validation.Required),
		validation.Field(&req.Placements, validation.Required),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if err := validateFrameURL(req.IframeURL); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.validateVisibility(ctx, req.DepartmentIDs); err != nil {
		return nil, err
	}

	baseSlug := req.Slug
	if baseSlug == "" {
		baseSlug = req.Name
	}
	baseSlug = Slugify(baseSlug)

	now := time.Now()
	frame := &dirmodels.Frame{
		ID:            uuid.NewString(),
		Name:          req.Name,
		IframeURL:     req.IframeURL,
		Description:   req.Description,
		DepartmentIDs: req.DepartmentIDs,
		CreatedBy:     req.ActorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.frameRepo.Create(ctx, frame); err != nil {
			return err
		}
		return s.syncer.SyncPlacements(ctx, &dirsvc.SyncPlacementsRequest{
			FrameID:      frame.ID,
			Name:         frame.Name,
			BaseSlug:     baseSlug,
			Emoji:        req.Emoji,
			DepartmentID: req.DepartmentID,
			Targets:      req.Placements,
			ActorID:      req.ActorID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("frame created",
		"id", frame.ID,
		"name", frame.Name,
		"slug", baseSlug,
		"placements", len(req.Placements),
	)
	return frame, nil
}

// GetFrame retrieves a frame by ID
func (s *frameService) GetFrame(ctx context.Context, id string) (*dirmodels.Frame, error) {
	return s.frameRepo.GetByID(ctx, id)
}

// ListFrames retrieves frames visible to a department, or everything when
// departmentID is empty
func (s *frameService) ListFrames(ctx context.Context, departmentID string) ([]dirmodels.Frame, error) {
	frames, err := s.frameRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if departmentID == "" {
		return frames, nil
	}

	visible := make([]dirmodels.Frame, 0, len(frames))
	for _, frame := range frames {
		if frame.VisibleTo(departmentID) {
			visible = append(visible, frame)
		}
	}
	return visible, nil
}

// UpdateFrame updates a frame's identity, propagates name/emoji/slug changes
// to every placement, and reconciles placements when a target set is supplied.
func (s *frameService) UpdateFrame(ctx context.Context, id string, req *dirsvc.UpdateFrameRequest) (*dirmodels.Frame, error) {
	frame, err := s.frameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	identityChanged := false
	if req.Name != nil {
		if err := validation.Validate(*req.Name,
			validation.Required, validation.Length(1, config.MaxEntryNameLength)); err != nil {
			return nil, &domain.ValidationError{Message: "name: " + err.Error()}
		}
		if *req.Name != frame.Name {
			identityChanged = true
		}
		frame.Name = *req.Name
	}
	if req.IframeURL != nil {
		if err := validateFrameURL(*req.IframeURL); err != nil {
			return nil, err
		}
		frame.IframeURL = *req.IframeURL
	}
	if req.Description.Present {
		frame.Description = req.Description.Value
	}
	if req.DepartmentIDs != nil {
		if err := s.validateVisibility(ctx, *req.DepartmentIDs); err != nil {
			return nil, err
		}
		frame.DepartmentIDs = *req.DepartmentIDs
	}
	if req.Emoji.Present {
		identityChanged = true
	}

	emoji, err := s.placementEmoji(ctx, id, req)
	if err != nil {
		return nil, err
	}

	baseSlug := Slugify(frame.Name)
	if req.Slug != nil {
		baseSlug = Slugify(*req.Slug)
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.frameRepo.Update(ctx, frame); err != nil {
			return err
		}

		if req.Placements != nil {
			err := s.syncer.SyncPlacements(ctx, &dirsvc.SyncPlacementsRequest{
				FrameID:      frame.ID,
				Name:         frame.Name,
				BaseSlug:     baseSlug,
				Emoji:        emoji,
				DepartmentID: s.homeDepartment(ctx, frame),
				Targets:      *req.Placements,
				ActorID:      req.ActorID,
			})
			if err != nil {
				return err
			}
		}

		if identityChanged {
			if err := s.entryRepo.UpdateFrameIdentity(ctx, frame.ID, frame.Name, emoji, req.ActorID); err != nil {
				return fmt.Errorf("failed to propagate frame identity: %w", err)
			}
		}

		if req.Slug != nil {
			if err := s.reslugPlacements(ctx, frame.ID, baseSlug, req.ActorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("frame updated",
		"id", frame.ID,
		"name", frame.Name,
		"identity_propagated", identityChanged,
		"placements_reconciled", req.Placements != nil,
	)
	return frame, nil
}

// DeleteFrame removes the frame's placements and favorites first, then the
// frame row, all in one transaction so the row survives partial failure.
func (s *frameService) DeleteFrame(ctx context.Context, id string) error {
	frame, err := s.frameRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		placements, err := s.entryRepo.ListByFrame(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list frame placements: %w", err)
		}
		if len(placements) > 0 {
			ids := make([]string, len(placements))
			for i := range placements {
				ids[i] = placements[i].ID
				if err := s.favoriteRepo.DeleteByEntry(ctx, placements[i].ID); err != nil {
					return fmt.Errorf("failed to clear favorites for placement %s: %w", placements[i].ID, err)
				}
			}
			if err := s.entryRepo.DeleteMany(ctx, ids); err != nil {
				return fmt.Errorf("failed to delete placements: %w", err)
			}
		}
		return s.frameRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("frame deleted", "id", frame.ID, "name", frame.Name)
	return nil
}

// reslugPlacements reassigns each placement's slug from the new base,
// resolving collisions per location.
func (s *frameService) reslugPlacements(ctx context.Context, frameID, baseSlug, actorID string) error {
	placements, err := s.entryRepo.ListByFrame(ctx, frameID)
	if err != nil {
		return fmt.Errorf("failed to list frame placements: %w", err)
	}
	if len(placements) == 0 {
		return nil
	}

	refs := make([]dirrepo.ParentRef, 0, len(placements))
	for i := range placements {
		refs = append(refs, dirrepo.ParentRef{
			DepartmentID: placements[i].DepartmentID,
			FolderID:     placements[i].ParentID,
		})
	}
	slugsByKey, err := s.entryRepo.ListSlugs(ctx, refs)
	if err != nil {
		return fmt.Errorf("failed to list sibling slugs: %w", err)
	}

	for i := range placements {
		placement := &placements[i]
		ref := dirrepo.ParentRef{DepartmentID: placement.DepartmentID, FolderID: placement.ParentID}

		taken := make(map[string]bool)
		for _, slug := range slugsByKey[ref.Key()] {
			if slug != placement.Slug {
				taken[slug] = true
			}
		}

		slug := NextFreeSlug(baseSlug, taken)
		if slug == placement.Slug {
			continue
		}
		if err := s.entryRepo.UpdateSlug(ctx, placement.ID, slug, actorID); err != nil {
			return fmt.Errorf("failed to reslug placement %s: %w", placement.ID, err)
		}
	}
	return nil
}

// placementEmoji resolves the emoji to stamp on placements: the request's
// when supplied, otherwise whatever the current placements carry.
func (s *frameService) placementEmoji(ctx context.Context, frameID string, req *dirsvc.UpdateFrameRequest) (*string, error) {
	if req.Emoji.Present {
		return req.Emoji.Value, nil
	}
	placements, err := s.entryRepo.ListByFrame(ctx, frameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list frame placements: %w", err)
	}
	if len(placements) == 0 {
		return nil, nil
	}
	return placements[0].Emoji, nil
}

// homeDepartment picks the department used for top-level (nil) placement
// targets: the frame's first visibility department, or the department of an
// existing top-level placement.
func (s *frameService) homeDepartment(ctx context.Context, frame *dirmodels.Frame) string {
	if len(frame.DepartmentIDs) > 0 {
		return frame.DepartmentIDs[0]
	}
	placements, err := s.entryRepo.ListByFrame(ctx, frame.ID)
	if err == nil && len(placements) > 0 {
		return placements[0].DepartmentID
	}
	return ""
}

// validateVisibility checks that every visibility department exists
func (s *frameService) validateVisibility(ctx context.Context, departmentIDs []string) error {
	if len(departmentIDs) == 0 {
		return nil
	}
	departments, err := s.deptRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list departments: %w", err)
	}
	known := make(map[string]bool, len(departments))
	for _, dept := range departments {
		known[dept.ID] = true
	}
	for _, id := range departmentIDs {
		if !known[id] {
			return &domain.ValidationError{
				Message: fmt.Sprintf("unknown department %s", id),
			}
		}
	}
	return nil
}

func validateFrameURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &domain.ValidationError{
			Message: "iframe_url must be an absolute http(s) URL",
		}
	}
	return nil
}
