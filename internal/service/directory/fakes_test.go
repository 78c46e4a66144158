package directory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories"
	dirrepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
)

// In-memory repository fakes. They mirror the constraints the real schema
// enforces (sibling slug uniqueness, missing rows as NotFoundError) so the
// services exercise their error paths without a database.

type fakeEntryRepo struct {
	entries map[string]dirmodels.Entry
	// createErr, when set, fails the next Create/CreateMany call
	createErr error
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]dirmodels.Entry)}
}

func (f *fakeEntryRepo) siblingSlugTaken(entry *dirmodels.Entry) *dirmodels.Entry {
	for id, other := range f.entries {
		if id == entry.ID {
			continue
		}
		if other.DepartmentID == entry.DepartmentID &&
			sameParent(other.ParentID, entry.ParentID) &&
			other.Slug == entry.Slug {
			copied := other
			return &copied
		}
	}
	return nil
}

func (f *fakeEntryRepo) Create(ctx context.Context, entry *dirmodels.Entry) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	if sibling := f.siblingSlugTaken(entry); sibling != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("slug %q already exists", entry.Slug),
			ResourceType: "entry",
			ResourceID:   sibling.ID,
		}
	}
	f.entries[entry.ID] = *entry
	return nil
}

func (f *fakeEntryRepo) CreateMany(ctx context.Context, entries []*dirmodels.Entry) error {
	for _, entry := range entries {
		if err := f.Create(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeEntryRepo) GetByID(ctx context.Context, id string) (*dirmodels.Entry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("entry %s not found", id)}
	}
	return &entry, nil
}

func (f *fakeEntryRepo) Update(ctx context.Context, entry *dirmodels.Entry) error {
	if _, ok := f.entries[entry.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("entry %s not found", entry.ID)}
	}
	if sibling := f.siblingSlugTaken(entry); sibling != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("slug %q already exists", entry.Slug),
			ResourceType: "entry",
			ResourceID:   sibling.ID,
		}
	}
	entry.UpdatedAt = time.Now()
	f.entries[entry.ID] = *entry
	return nil
}

func (f *fakeEntryRepo) Delete(ctx context.Context, id string) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeEntryRepo) DeleteMany(ctx context.Context, ids []string) error {
	for _, id := range ids {
		delete(f.entries, id)
	}
	return nil
}

func (f *fakeEntryRepo) ListByDepartment(ctx context.Context, departmentID string) ([]dirmodels.Entry, error) {
	var out []dirmodels.Entry
	for _, entry := range f.entries {
		if entry.DepartmentID == departmentID {
			out = append(out, entry)
		}
	}
	sortStable(out)
	return out, nil
}

func (f *fakeEntryRepo) ListByFrame(ctx context.Context, frameID string) ([]dirmodels.Entry, error) {
	var out []dirmodels.Entry
	for _, entry := range f.entries {
		if entry.FrameID != nil && *entry.FrameID == frameID {
			out = append(out, entry)
		}
	}
	sortStable(out)
	return out, nil
}

func (f *fakeEntryRepo) ListByIDs(ctx context.Context, ids []string) ([]dirmodels.Entry, error) {
	var out []dirmodels.Entry
	for _, id := range ids {
		if entry, ok := f.entries[id]; ok {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) ListChildren(ctx context.Context, departmentID string, parentID *string) ([]dirmodels.Entry, error) {
	var out []dirmodels.Entry
	for _, entry := range f.entries {
		if entry.DepartmentID == departmentID && sameParent(entry.ParentID, parentID) {
			out = append(out, entry)
		}
	}
	SortSiblings(out)
	return out, nil
}

func (f *fakeEntryRepo) ListSlugs(ctx context.Context, refs []dirrepo.ParentRef) (map[string][]string, error) {
	out := make(map[string][]string, len(refs))
	for _, ref := range refs {
		out[ref.Key()] = nil
		for _, entry := range f.entries {
			entryRef := dirrepo.ParentRef{DepartmentID: entry.DepartmentID, FolderID: entry.ParentID}
			if entryRef.Key() == ref.Key() {
				out[ref.Key()] = append(out[ref.Key()], entry.Slug)
			}
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) UpdateFrameIdentity(ctx context.Context, frameID, name string, emoji *string, updatedBy string) error {
	for id, entry := range f.entries {
		if entry.FrameID != nil && *entry.FrameID == frameID {
			entry.Name = name
			entry.Emoji = emoji
			entry.UpdatedBy = updatedBy
			f.entries[id] = entry
		}
	}
	return nil
}

func (f *fakeEntryRepo) UpdateSlug(ctx context.Context, id, slug, updatedBy string) error {
	entry, ok := f.entries[id]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("entry %s not found", id)}
	}
	entry.Slug = slug
	entry.UpdatedBy = updatedBy
	f.entries[id] = entry
	return nil
}

func (f *fakeEntryRepo) SetSortOrder(ctx context.Context, id string, sortOrder int, updatedBy string) error {
	entry, ok := f.entries[id]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("entry %s not found", id)}
	}
	entry.SortOrder = &sortOrder
	entry.UpdatedBy = updatedBy
	f.entries[id] = entry
	return nil
}

// sortStable keeps fake list output deterministic across map iteration order
func sortStable(entries []dirmodels.Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}

type fakeFrameRepo struct {
	frames map[string]dirmodels.Frame
}

func newFakeFrameRepo() *fakeFrameRepo {
	return &fakeFrameRepo{frames: make(map[string]dirmodels.Frame)}
}

func (f *fakeFrameRepo) Create(ctx context.Context, frame *dirmodels.Frame) error {
	f.frames[frame.ID] = *frame
	return nil
}

func (f *fakeFrameRepo) GetByID(ctx context.Context, id string) (*dirmodels.Frame, error) {
	frame, ok := f.frames[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("frame %s not found", id)}
	}
	return &frame, nil
}

func (f *fakeFrameRepo) Update(ctx context.Context, frame *dirmodels.Frame) error {
	if _, ok := f.frames[frame.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("frame %s not found", frame.ID)}
	}
	frame.UpdatedAt = time.Now()
	f.frames[frame.ID] = *frame
	return nil
}

func (f *fakeFrameRepo) Delete(ctx context.Context, id string) error {
	delete(f.frames, id)
	return nil
}

func (f *fakeFrameRepo) List(ctx context.Context) ([]dirmodels.Frame, error) {
	out := make([]dirmodels.Frame, 0, len(f.frames))
	for _, frame := range f.frames {
		out = append(out, frame)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeDeptRepo struct {
	departments map[string]dirmodels.Department
}

func newFakeDeptRepo(departments ...dirmodels.Department) *fakeDeptRepo {
	f := &fakeDeptRepo{departments: make(map[string]dirmodels.Department)}
	for _, dept := range departments {
		f.departments[dept.ID] = dept
	}
	return f
}

func (f *fakeDeptRepo) GetByID(ctx context.Context, id string) (*dirmodels.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("department %s not found", id)}
	}
	return &dept, nil
}

func (f *fakeDeptRepo) List(ctx context.Context) ([]dirmodels.Department, error) {
	out := make([]dirmodels.Department, 0, len(f.departments))
	for _, dept := range f.departments {
		out = append(out, dept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeFavoriteRepo struct {
	favorites map[string]dirmodels.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string]dirmodels.Favorite)}
}

func (f *fakeFavoriteRepo) Create(ctx context.Context, fav *dirmodels.Favorite) error {
	f.favorites[fav.ID] = *fav
	return nil
}

func (f *fakeFavoriteRepo) Delete(ctx context.Context, id string) error {
	delete(f.favorites, id)
	return nil
}

func (f *fakeFavoriteRepo) FindByTarget(ctx context.Context, userID string, target dirmodels.Target) (*dirmodels.Favorite, error) {
	for _, fav := range f.favorites {
		if fav.UserID != userID {
			continue
		}
		if sameParent(fav.EntryID, target.EntryID) &&
			sameParent(fav.DepartmentID, target.DepartmentID) &&
			sameParent(fav.ArticlePath, target.ArticlePath) {
			copied := fav
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]dirmodels.Favorite, error) {
	var out []dirmodels.Favorite
	for _, fav := range f.favorites {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeFavoriteRepo) DeleteByEntry(ctx context.Context, entryID string) error {
	for id, fav := range f.favorites {
		if fav.EntryID != nil && *fav.EntryID == entryID {
			delete(f.favorites, id)
		}
	}
	return nil
}

type fakeSettingRepo struct {
	settings map[string]dirmodels.Setting
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{settings: make(map[string]dirmodels.Setting)}
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (*dirmodels.Setting, error) {
	setting, ok := f.settings[key]
	if !ok {
		return nil, nil
	}
	return &setting, nil
}

func (f *fakeSettingRepo) Upsert(ctx context.Context, setting *dirmodels.Setting) error {
	setting.UpdatedAt = time.Now()
	f.settings[setting.Key] = *setting
	return nil
}

// fakeTxManager runs the function directly; the fakes have no transactional
// state to roll back, tests assert on ordering and error propagation instead.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
