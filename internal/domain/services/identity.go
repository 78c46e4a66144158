package services

import "context"

// WorkerProfile is the worker-directory record the portal cares about:
// a stable worker id and the worker's home department.
type WorkerProfile struct {
	WorkerID     string `json:"worker_id"`
	DepartmentID string `json:"department_id"`
	DisplayName  string `json:"display_name,omitempty"`
}

// WorkerDirectory resolves an authenticated principal's email to a worker
// profile. It is consulted to stamp created_by/updated_by metadata and to
// default a new frame's home department — never for the tree logic itself.
//
// Lookups are best effort: a failure degrades to empty audit fields and must
// not block the mutation being performed.
type WorkerDirectory interface {
	// LookupByEmail resolves a worker profile by email
	LookupByEmail(ctx context.Context, email string) (*WorkerProfile, error)
}
