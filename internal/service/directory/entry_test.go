package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
)

func newEntryServiceForTest(repo *fakeEntryRepo, favRepo *fakeFavoriteRepo) dirsvc.EntryService {
	deptRepo := newFakeDeptRepo(dirmodels.Department{ID: "hr", Name: "People Ops"})
	return NewEntryService(
		repo,
		favRepo,
		fakeTxManager{},
		NewResourceValidator(repo, deptRepo),
		discardLogger(),
	)
}

func TestCreateFolder(t *testing.T) {
	tests := []struct {
		name    string
		req     *dirsvc.CreateFolderRequest
		wantErr error
		check   func(t *testing.T, got *dirmodels.Entry)
	}{
		{
			name: "slug defaults to slugified name",
			req: &dirsvc.CreateFolderRequest{
				DepartmentID: "hr",
				Name:         "Time Off Requests",
				ActorID:      "user-1",
			},
			check: func(t *testing.T, got *dirmodels.Entry) {
				if got.Slug != "time-off-requests" {
					t.Errorf("slug = %q, want time-off-requests", got.Slug)
				}
				if !got.IsFolder() {
					t.Error("created entry should be a folder")
				}
			},
		},
		{
			name: "explicit slug is normalized",
			req: &dirsvc.CreateFolderRequest{
				DepartmentID: "hr",
				Name:         "Benefits",
				Slug:         "My Benefits!",
				ActorID:      "user-1",
			},
			check: func(t *testing.T, got *dirmodels.Entry) {
				if got.Slug != "my-benefits" {
					t.Errorf("slug = %q, want my-benefits", got.Slug)
				}
			},
		},
		{
			name: "missing name rejected",
			req: &dirsvc.CreateFolderRequest{
				DepartmentID: "hr",
				ActorID:      "user-1",
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "unknown department rejected",
			req: &dirsvc.CreateFolderRequest{
				DepartmentID: "ghost",
				Name:         "Benefits",
				ActorID:      "user-1",
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newEntryServiceForTest(newFakeEntryRepo(), newFakeFavoriteRepo())
			got, err := svc.CreateFolder(context.Background(), tt.req)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var httpErr domain.HTTPError
				if !errors.As(err, &httpErr) {
					t.Errorf("error %v does not map to an HTTP status", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestCreateFolderSlugConflict(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["existing"] = folder("existing", "", "Benefits", "benefits")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	_, err := svc.CreateFolder(context.Background(), &dirsvc.CreateFolderRequest{
		DepartmentID: "hr",
		Name:         "Benefits",
		ActorID:      "user-1",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("error = %v, want conflict", err)
	}
}

func TestCreateFolderUnderPlacementRejected(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["page-1"] = placement("page-1", "", "frame-1", "Handbook", "handbook")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	_, err := svc.CreateFolder(context.Background(), &dirsvc.CreateFolderRequest{
		DepartmentID: "hr",
		ParentID:     strptr("page-1"),
		Name:         "Nested",
		ActorID:      "user-1",
	})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestUpdateFolderRename(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	got, err := svc.UpdateFolder(context.Background(), "f1", &dirsvc.UpdateFolderRequest{
		Name:    strptr("Perks"),
		ActorID: "user-2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Perks" {
		t.Errorf("name = %q, want Perks", got.Name)
	}
	// Rename alone must not move the slug; existing links keep working.
	if got.Slug != "benefits" {
		t.Errorf("slug = %q, want benefits", got.Slug)
	}
	if got.UpdatedBy != "user-2" {
		t.Errorf("updated_by = %q, want user-2", got.UpdatedBy)
	}
}

func TestUpdateFolderEmojiTriState(t *testing.T) {
	repo := newFakeEntryRepo()
	withEmoji := folder("f1", "", "Benefits", "benefits")
	withEmoji.Emoji = strptr("🎁")
	repo.entries["f1"] = withEmoji
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())
	ctx := context.Background()

	// Absent emoji field leaves the current value alone.
	got, err := svc.UpdateFolder(ctx, "f1", &dirsvc.UpdateFolderRequest{
		Name:    strptr("Benefits!"),
		ActorID: "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Emoji == nil || *got.Emoji != "🎁" {
		t.Errorf("emoji = %v, want 🎁 untouched", got.Emoji)
	}

	// Explicit null clears it.
	got, err = svc.UpdateFolder(ctx, "f1", &dirsvc.UpdateFolderRequest{
		Emoji:   httputil.OptionalString{Present: true, Value: nil},
		ActorID: "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Emoji != nil {
		t.Errorf("emoji = %v, want cleared", got.Emoji)
	}
}

func TestUpdateFolderMove(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	repo.entries["f2"] = folder("f2", "f1", "Dental", "dental")
	repo.entries["f3"] = folder("f3", "", "Archive", "archive")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	got, err := svc.UpdateFolder(context.Background(), "f2", &dirsvc.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: strptr("f3")},
		ActorID:  "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ParentID == nil || *got.ParentID != "f3" {
		t.Errorf("parent = %v, want f3", got.ParentID)
	}
}

func TestUpdateFolderMoveRejectsCycles(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	repo.entries["f2"] = folder("f2", "f1", "Dental", "dental")
	repo.entries["f3"] = folder("f3", "f2", "Providers", "providers")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())
	ctx := context.Background()

	tests := []struct {
		name   string
		folder string
		target string
	}{
		{name: "folder into itself", folder: "f1", target: "f1"},
		{name: "folder into direct child", folder: "f1", target: "f2"},
		{name: "folder into deep descendant", folder: "f1", target: "f3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateFolder(ctx, tt.folder, &dirsvc.UpdateFolderRequest{
				ParentID: httputil.OptionalString{Present: true, Value: strptr(tt.target)},
				ActorID:  "user-1",
			})
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestUpdateFolderMoveChecksTargetSlugs(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	repo.entries["f2"] = folder("f2", "f1", "Dental", "dental")
	repo.entries["f3"] = folder("f3", "", "Dental", "dental")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	// Moving f2 to the top level collides with f3's slug there.
	_, err := svc.UpdateFolder(context.Background(), "f2", &dirsvc.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: nil},
		ActorID:  "user-1",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("error = %v, want conflict", err)
	}
}

func TestUpdateFolderRejectsPlacement(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["p1"] = placement("p1", "", "frame-1", "Handbook", "handbook")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	_, err := svc.UpdateFolder(context.Background(), "p1", &dirsvc.UpdateFolderRequest{
		Name:    strptr("Renamed"),
		ActorID: "user-1",
	})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestDeleteFolderRefusesNonEmpty(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	repo.entries["f2"] = folder("f2", "f1", "Dental", "dental")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	err := svc.DeleteFolder(context.Background(), "f1", false, "user-1")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("error = %v, want conflict", err)
	}
	if _, ok := repo.entries["f1"]; !ok {
		t.Error("folder was deleted despite refusal")
	}
}

func TestDeleteFolderForceCascades(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	repo.entries["f2"] = folder("f2", "f1", "Dental", "dental")
	repo.entries["p1"] = placement("p1", "f2", "frame-1", "Claims", "claims")
	repo.entries["other"] = folder("other", "", "Payroll", "payroll")

	favRepo := newFakeFavoriteRepo()
	favRepo.favorites["fav-1"] = dirmodels.Favorite{ID: "fav-1", UserID: "u1", EntryID: strptr("p1")}
	favRepo.favorites["fav-2"] = dirmodels.Favorite{ID: "fav-2", UserID: "u1", EntryID: strptr("other")}

	svc := newEntryServiceForTest(repo, favRepo)
	if err := svc.DeleteFolder(context.Background(), "f1", true, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"f1", "f2", "p1"} {
		if _, ok := repo.entries[id]; ok {
			t.Errorf("entry %s survived forced delete", id)
		}
	}
	if _, ok := repo.entries["other"]; !ok {
		t.Error("unrelated entry was deleted")
	}
	if _, ok := favRepo.favorites["fav-1"]; ok {
		t.Error("favorite pointing into deleted subtree survived")
	}
	if _, ok := favRepo.favorites["fav-2"]; !ok {
		t.Error("unrelated favorite was deleted")
	}
}

func TestDeleteEmptyFolderWithoutForce(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	if err := svc.DeleteFolder(context.Background(), "f1", false, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.entries["f1"]; ok {
		t.Error("empty folder was not deleted")
	}
}

func TestReorder(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Alpha", "alpha")
	repo.entries["f2"] = folder("f2", "", "Bravo", "bravo")
	repo.entries["f3"] = folder("f3", "", "Charlie", "charlie")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())
	ctx := context.Background()

	err := svc.Reorder(ctx, &dirsvc.ReorderRequest{
		DepartmentID: "hr",
		OrderedIDs:   []string{"f3", "f1", "f2"},
		ActorID:      "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	children, _ := repo.ListChildren(ctx, "hr", nil)
	want := []string{"f3", "f1", "f2"}
	for i, id := range want {
		if children[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, children[i].ID, id)
		}
	}
}

func TestReorderRejectsForeignEntries(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["f1"] = folder("f1", "", "Alpha", "alpha")
	repo.entries["f2"] = folder("f2", "f1", "Nested", "nested")
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	err := svc.Reorder(context.Background(), &dirsvc.ReorderRequest{
		DepartmentID: "hr",
		OrderedIDs:   []string{"f2"},
		ActorID:      "user-1",
	})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestCreateFolderStampsTimestamps(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newEntryServiceForTest(repo, newFakeFavoriteRepo())

	got, err := svc.CreateFolder(context.Background(), &dirsvc.CreateFolderRequest{
		DepartmentID: "hr",
		Name:         "Policies",
		ActorID:      "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Errorf("created folder has zero timestamps: created_at=%v updated_at=%v",
			got.CreatedAt, got.UpdatedAt)
	}
	stored := repo.entries[got.ID]
	if stored.CreatedAt.IsZero() {
		t.Error("stored row has zero created_at")
	}
}
