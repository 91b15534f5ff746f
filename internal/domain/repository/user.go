package repository

import "context"

// User is the public projection of a user. The password hash is never
// part of this struct.
type User struct {
	ID    string
	Name  string
	Email string
}

// RegisterUserInput contains the data to create a user.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput contains the updatable fields of a user. A nil pointer
// means "leave unchanged"; a non-nil pointer means the caller intends to
// set the field, even to an empty string (which then fails validation).
type UpdateUserInput struct {
	Name  *string
	Email *string

	// NewPassword requires CurrentPassword; the stored hash is verified
	// against CurrentPassword before the new one is accepted.
	NewPassword     *string
	CurrentPassword *string
}

// UserRepository defines operations over users. A user owns exactly its
// own row, so the id doubles as the ownership predicate.
type UserRepository interface {
	// Register creates a user with a hashed password.
	// Returns ErrConflict if the email is taken.
	Register(ctx context.Context, in RegisterUserInput) (*User, error)

	// Login verifies credentials and returns the profile.
	// Unknown email and wrong password both return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*User, error)

	// Get returns the profile by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, userID string) (*User, error)

	// Update applies a partial update. Returns ErrNotFound if the row is
	// gone, ErrConflict on a duplicate email, ErrInvalidCredentials if
	// the current password check fails during a password change.
	Update(ctx context.Context, userID string, in UpdateUserInput) (*User, error)

	// Delete removes the user after verifying the current password.
	// Never deletes on id alone.
	Delete(ctx context.Context, userID, password string) error
}
