package directory

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSyncPlacementsCreatesInitialSet(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["folder-a"] = folder("folder-a", "", "Tools", "tools")

	syncer := NewPlacementSynchronizer(repo, discardLogger())
	err := syncer.SyncPlacements(context.Background(), &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Team Wiki",
		BaseSlug:     "team-wiki",
		DepartmentID: "hr",
		Targets:      []*string{nil, strptr("folder-a")},
		ActorID:      "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	placements, _ := repo.ListByFrame(context.Background(), "frame-1")
	if len(placements) != 2 {
		t.Fatalf("placement count = %d, want 2", len(placements))
	}
	for _, p := range placements {
		if p.Slug != "team-wiki" {
			t.Errorf("placement %s slug = %q, want team-wiki", p.ID, p.Slug)
		}
		if p.Name != "Team Wiki" {
			t.Errorf("placement %s name = %q, want Team Wiki", p.ID, p.Name)
		}
	}
}

func TestSyncPlacementsIsIdempotent(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["folder-a"] = folder("folder-a", "", "Tools", "tools")

	syncer := NewPlacementSynchronizer(repo, discardLogger())
	req := &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Team Wiki",
		BaseSlug:     "team-wiki",
		DepartmentID: "hr",
		Targets:      []*string{nil, strptr("folder-a")},
		ActorID:      "user-1",
	}

	if err := syncer.SyncPlacements(context.Background(), req); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	before, _ := repo.ListByFrame(context.Background(), "frame-1")

	if err := syncer.SyncPlacements(context.Background(), req); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	after, _ := repo.ListByFrame(context.Background(), "frame-1")

	if len(before) != len(after) {
		t.Fatalf("placement count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Errorf("placement %d replaced: %s -> %s", i, before[i].ID, after[i].ID)
		}
	}
}

func TestSyncPlacementsDiffsAgainstExisting(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["folder-a"] = folder("folder-a", "", "Tools", "tools")
	repo.entries["folder-b"] = folder("folder-b", "", "Resources", "resources")

	syncer := NewPlacementSynchronizer(repo, discardLogger())
	ctx := context.Background()

	err := syncer.SyncPlacements(ctx, &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Team Wiki",
		BaseSlug:     "team-wiki",
		DepartmentID: "hr",
		Targets:      []*string{strptr("folder-a"), strptr("folder-b")},
		ActorID:      "user-1",
	})
	if err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	var keptID string
	for _, p := range repo.entries {
		if p.FrameID != nil && p.ParentID != nil && *p.ParentID == "folder-b" {
			keptID = p.ID
		}
	}

	// Replace folder-a with the department top level; folder-b stays.
	err = syncer.SyncPlacements(ctx, &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Team Wiki",
		BaseSlug:     "team-wiki",
		DepartmentID: "hr",
		Targets:      []*string{nil, strptr("folder-b")},
		ActorID:      "user-1",
	})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	placements, _ := repo.ListByFrame(ctx, "frame-1")
	if len(placements) != 2 {
		t.Fatalf("placement count = %d, want 2", len(placements))
	}
	foundKept := false
	for _, p := range placements {
		if p.ParentID != nil && *p.ParentID == "folder-a" {
			t.Error("placement under folder-a should have been removed")
		}
		if p.ID == keptID {
			foundKept = true
		}
	}
	if !foundKept {
		t.Error("untouched placement under folder-b was replaced")
	}
}

func TestSyncPlacementsAssignsCollisionSuffixes(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["folder-a"] = folder("folder-a", "", "Tools", "tools")
	// folder-a already holds "wiki" and "wiki-2"; the top level is free.
	repo.entries["e1"] = folder("e1", "folder-a", "Wiki", "wiki")
	repo.entries["e2"] = folder("e2", "folder-a", "Wiki Copy", "wiki-2")

	syncer := NewPlacementSynchronizer(repo, discardLogger())
	err := syncer.SyncPlacements(context.Background(), &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Wiki",
		BaseSlug:     "wiki",
		DepartmentID: "hr",
		Targets:      []*string{nil, strptr("folder-a")},
		ActorID:      "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	placements, _ := repo.ListByFrame(context.Background(), "frame-1")
	slugsByParent := make(map[string]string)
	for _, p := range placements {
		slugsByParent[p.ParentKey()] = p.Slug
	}
	if slugsByParent[""] != "wiki" {
		t.Errorf("top-level slug = %q, want wiki", slugsByParent[""])
	}
	if slugsByParent["folder-a"] != "wiki-3" {
		t.Errorf("folder-a slug = %q, want wiki-3", slugsByParent["folder-a"])
	}
}

func TestSyncPlacementsDeduplicatesTargets(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["folder-a"] = folder("folder-a", "", "Tools", "tools")

	syncer := NewPlacementSynchronizer(repo, discardLogger())
	err := syncer.SyncPlacements(context.Background(), &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Wiki",
		BaseSlug:     "wiki",
		DepartmentID: "hr",
		Targets:      []*string{strptr("folder-a"), strptr("folder-a"), nil, nil},
		ActorID:      "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	placements, _ := repo.ListByFrame(context.Background(), "frame-1")
	if len(placements) != 2 {
		t.Errorf("placement count = %d, want 2 (targets deduplicated)", len(placements))
	}
}

func TestSyncPlacementsRejectsBadTargets(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["page-1"] = placement("page-1", "", "frame-9", "Handbook", "handbook")

	syncer := NewPlacementSynchronizer(repo, discardLogger())
	ctx := context.Background()

	err := syncer.SyncPlacements(ctx, &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Wiki",
		BaseSlug:     "wiki",
		DepartmentID: "hr",
		Targets:      []*string{strptr("missing-folder")},
	})
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("missing folder error = %v, want NotFoundError", err)
	}

	err = syncer.SyncPlacements(ctx, &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Wiki",
		BaseSlug:     "wiki",
		DepartmentID: "hr",
		Targets:      []*string{strptr("page-1")},
	})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("placement-as-target error = %v, want ValidationError", err)
	}
}

func TestSyncPlacementsEmptyTargetsRemovesAll(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["p1"] = placement("p1", "", "frame-1", "Wiki", "wiki")

	syncer := NewPlacementSynchronizer(repo, discardLogger())
	err := syncer.SyncPlacements(context.Background(), &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Wiki",
		BaseSlug:     "wiki",
		DepartmentID: "hr",
		Targets:      nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	placements, _ := repo.ListByFrame(context.Background(), "frame-1")
	if len(placements) != 0 {
		t.Errorf("placement count = %d, want 0", len(placements))
	}
}

func TestSyncPlacementsStampsTimestamps(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["folder-a"] = folder("folder-a", "", "Tools", "tools")

	syncer := NewPlacementSynchronizer(repo, discardLogger())
	err := syncer.SyncPlacements(context.Background(), &dirsvc.SyncPlacementsRequest{
		FrameID:      "frame-1",
		Name:         "Team Wiki",
		BaseSlug:     "team-wiki",
		DepartmentID: "hr",
		Targets:      []*string{nil, strptr("folder-a")},
		ActorID:      "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The repository persists what it is handed; a zero time here would
	// reach the database and defeat created_at ordering.
	placements, _ := repo.ListByFrame(context.Background(), "frame-1")
	for _, p := range placements {
		if p.CreatedAt.IsZero() {
			t.Errorf("placement %s has zero created_at", p.ID)
		}
		if p.UpdatedAt.IsZero() {
			t.Errorf("placement %s has zero updated_at", p.ID)
		}
	}
}
