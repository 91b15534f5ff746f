package repository

import "context"

// Project is the public projection of a project. Description is NULL-able
// in the store, hence the pointer.
type Project struct {
	ID          string
	Name        string
	UserID      string
	Description *string
}

// CreateProjectInput contains the data to create a project.
// The owner is fixed at creation and immutable afterwards.
type CreateProjectInput struct {
	Name        string
	UserID      string
	Description string
}

// UpdateProjectInput contains the updatable fields of a project.
// Nil means "leave unchanged".
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// ProjectRepository defines ownership-scoped operations over projects.
// Every read/mutation is restricted to rows whose user_id matches the
// acting user; a row that exists but is owned by someone else behaves
// exactly like a missing row.
type ProjectRepository interface {
	// Create creates a project owned by UserID. The owner reference is
	// enforced by the store's foreign key, not pre-checked.
	Create(ctx context.Context, in CreateProjectInput) (*Project, error)

	// Get returns the project only if it belongs to userID.
	Get(ctx context.Context, projectID, userID string) (*Project, error)

	// Update applies a partial update scoped by id AND owner.
	// Returns ErrConflict if the new name collides with another project
	// of the same owner.
	Update(ctx context.Context, projectID, userID string, in UpdateProjectInput) (*Project, error)

	// Delete removes the project, scoped by id AND owner.
	Delete(ctx context.Context, projectID, userID string) error
}
