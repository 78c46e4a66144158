package directory

import (
	"context"
	"fmt"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirrepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
)

// ResourceValidator centralizes existence checks shared by the directory
// services, so each service doesn't reimplement them.
type ResourceValidator struct {
	entryRepo dirrepo.EntryRepository
	deptRepo  dirrepo.DepartmentRepository
}

func NewResourceValidator(entryRepo dirrepo.EntryRepository, deptRepo dirrepo.DepartmentRepository) *ResourceValidator {
	return &ResourceValidator{entryRepo: entryRepo, deptRepo: deptRepo}
}

// ValidateDepartment checks that the department exists
func (v *ResourceValidator) ValidateDepartment(ctx context.Context, departmentID string) error {
	if _, err := v.deptRepo.GetByID(ctx, departmentID); err != nil {
		return err
	}
	return nil
}

// ValidateFolder checks that the entry exists, is a folder, and belongs to
// the given department. Returns the folder for callers that need it.
func (v *ResourceValidator) ValidateFolder(ctx context.Context, folderID, departmentID string) (*dirmodels.Entry, error) {
	entry, err := v.entryRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !entry.IsFolder() {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("entry %s is a frame placement, not a folder", folderID),
		}
	}
	if departmentID != "" && entry.DepartmentID != departmentID {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("folder %s belongs to a different department", folderID),
		}
	}
	return entry, nil
}
