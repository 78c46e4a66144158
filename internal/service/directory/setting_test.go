package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
)

func newSettingServiceForTest(settingRepo *fakeSettingRepo) dirsvc.SettingService {
	deptRepo := newFakeDeptRepo(
		dirmodels.Department{ID: "hr", Name: "People Ops"},
		dirmodels.Department{ID: "eng", Name: "Engineering"},
		dirmodels.Department{ID: "fin", Name: "Finance"},
	)
	return NewSettingService(settingRepo, deptRepo, discardLogger())
}

func TestSettingGetPut(t *testing.T) {
	svc := newSettingServiceForTest(newFakeSettingRepo())
	ctx := context.Background()

	got, err := svc.Get(ctx, "welcome_message")
	if err != nil {
		t.Fatalf("get unset: %v", err)
	}
	if got != "" {
		t.Errorf("unset value = %q, want empty", got)
	}

	if err := svc.Put(ctx, "welcome_message", "hello", "admin-1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err = svc.Get(ctx, "welcome_message")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "hello" {
		t.Errorf("value = %q, want hello", got)
	}
}

func TestSettingPutRejectsEmptyKey(t *testing.T) {
	svc := newSettingServiceForTest(newFakeSettingRepo())

	err := svc.Put(context.Background(), "", "value", "admin-1")
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestDepartmentOrder(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   []string
	}{
		{
			name: "no stored order falls back to name order",
			want: []string{"eng", "fin", "hr"},
		},
		{
			name:   "pinned order leads, rest follow by name",
			stored: `["fin"]`,
			want:   []string{"fin", "eng", "hr"},
		},
		{
			name:   "full pinned order",
			stored: `["hr","fin","eng"]`,
			want:   []string{"hr", "fin", "eng"},
		},
		{
			name:   "stale ids dropped, duplicates ignored",
			stored: `["ghost","fin","fin"]`,
			want:   []string{"fin", "eng", "hr"},
		},
		{
			name:   "malformed value degrades to name order",
			stored: `not json`,
			want:   []string{"eng", "fin", "hr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeSettingRepo()
			if tt.stored != "" {
				repo.settings[dirmodels.SettingDepartmentOrder] = dirmodels.Setting{
					Key:   dirmodels.SettingDepartmentOrder,
					Value: tt.stored,
				}
			}
			svc := newSettingServiceForTest(repo)

			got, err := svc.DepartmentOrder(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("order = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("order[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSetDepartmentOrder(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := newSettingServiceForTest(repo)
	ctx := context.Background()

	if err := svc.SetDepartmentOrder(ctx, []string{"fin", "hr", "eng"}, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.DepartmentOrder(ctx)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := []string{"fin", "hr", "eng"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetDepartmentOrderRejectsUnknownID(t *testing.T) {
	svc := newSettingServiceForTest(newFakeSettingRepo())

	err := svc.SetDepartmentOrder(context.Background(), []string{"hr", "ghost"}, "admin-1")
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}
