package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
)

func newFavoriteServiceForTest(entryRepo *fakeEntryRepo, favRepo *fakeFavoriteRepo) dirsvc.FavoriteService {
	deptRepo := newFakeDeptRepo(dirmodels.Department{ID: "hr", Name: "People Ops"})
	return NewFavoriteService(favRepo, entryRepo, deptRepo, discardLogger())
}

func TestToggleFavorite(t *testing.T) {
	entryRepo := newFakeEntryRepo()
	entryRepo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	favRepo := newFakeFavoriteRepo()
	svc := newFavoriteServiceForTest(entryRepo, favRepo)
	ctx := context.Background()
	target := dirmodels.Target{EntryID: strptr("f1")}

	fav, pinned, err := svc.Toggle(ctx, "user-1", target)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !pinned || fav == nil {
		t.Fatal("first toggle should pin")
	}
	if fav.UserID != "user-1" || fav.EntryID == nil || *fav.EntryID != "f1" {
		t.Errorf("favorite = %+v, want user-1 on f1", fav)
	}

	fav, pinned, err = svc.Toggle(ctx, "user-1", target)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if pinned || fav != nil {
		t.Error("second toggle should unpin")
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("favorites = %d, want 0 after unpin", len(list))
	}
}

func TestToggleFavoriteIsPerUser(t *testing.T) {
	entryRepo := newFakeEntryRepo()
	entryRepo.entries["f1"] = folder("f1", "", "Benefits", "benefits")
	svc := newFavoriteServiceForTest(entryRepo, newFakeFavoriteRepo())
	ctx := context.Background()
	target := dirmodels.Target{EntryID: strptr("f1")}

	if _, _, err := svc.Toggle(ctx, "user-1", target); err != nil {
		t.Fatalf("user-1 toggle: %v", err)
	}
	_, pinned, err := svc.Toggle(ctx, "user-2", target)
	if err != nil {
		t.Fatalf("user-2 toggle: %v", err)
	}
	if !pinned {
		t.Error("user-2's toggle should pin, not unpin user-1's favorite")
	}
}

func TestToggleFavoriteTargets(t *testing.T) {
	tests := []struct {
		name    string
		target  dirmodels.Target
		wantErr bool
	}{
		{
			name:   "department target",
			target: dirmodels.Target{DepartmentID: strptr("hr")},
		},
		{
			name:   "article target",
			target: dirmodels.Target{ArticlePath: strptr("/kb/onboarding")},
		},
		{
			name:    "empty target rejected",
			target:  dirmodels.Target{},
			wantErr: true,
		},
		{
			name: "two targets rejected",
			target: dirmodels.Target{
				DepartmentID: strptr("hr"),
				ArticlePath:  strptr("/kb/onboarding"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFavoriteServiceForTest(newFakeEntryRepo(), newFakeFavoriteRepo())
			_, pinned, err := svc.Toggle(context.Background(), "user-1", tt.target)

			if tt.wantErr {
				var validationErr *domain.ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !pinned {
				t.Error("toggle should pin")
			}
		})
	}
}

func TestToggleFavoriteUnknownEntry(t *testing.T) {
	svc := newFavoriteServiceForTest(newFakeEntryRepo(), newFakeFavoriteRepo())

	_, _, err := svc.Toggle(context.Background(), "user-1", dirmodels.Target{EntryID: strptr("ghost")})
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("error = %v, want NotFoundError", err)
	}
}

func TestToggleFavoriteStampsCreatedAt(t *testing.T) {
	entryRepo := newFakeEntryRepo()
	entryRepo.entries["entry-1"] = folder("entry-1", "", "Tools", "tools")
	svc := newFavoriteServiceForTest(entryRepo, newFakeFavoriteRepo())

	fav, pinned, err := svc.Toggle(context.Background(), "user-1", dirmodels.Target{EntryID: strptr("entry-1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pinned {
		t.Fatal("expected favorite to be pinned")
	}
	if fav.CreatedAt.IsZero() {
		t.Error("favorite has zero created_at; newest-first listing needs a real timestamp")
	}
}
