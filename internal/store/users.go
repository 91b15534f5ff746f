package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/taskhub/internal/domain/repository"
	"github.com/dropDatabas3/taskhub/internal/metrics"
	"github.com/dropDatabas3/taskhub/internal/observability/logger"
	"github.com/dropDatabas3/taskhub/internal/security/password"
	"github.com/dropDatabas3/taskhub/internal/validation"
)

// UserStore implements repository.UserRepository over PostgreSQL.
type UserStore struct {
	DB DBOps

	// BlacklistPath points to an optional forbidden-password file.
	// Empty disables the check. Load failures are soft.
	BlacklistPath string
}

// NewUserStore creates a user store over the given database capability.
func NewUserStore(db DBOps) *UserStore { return &UserStore{DB: db} }

var _ repository.UserRepository = (*UserStore)(nil)

const userProjection = "id, name, email"

func (s *UserStore) Register(ctx context.Context, in repository.RegisterUserInput) (u *repository.User, err error) {
	defer func() { metrics.ObserveRepoOp("user", "register", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.users"), logger.Op("Register"))

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, repository.NewValidationError("name", "name is required")
	}
	email := validation.NormalizeEmail(in.Email)
	if !validation.ValidEmail(email) {
		return nil, repository.NewValidationError("email", "invalid email format")
	}
	if err := s.checkPasswordStrength(ctx, in.Password); err != nil {
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, internalErr("hash password", err)
	}

	const query = `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userProjection

	var out repository.User
	err = s.DB.QueryRow(ctx, query, uuid.NewString(), name, email, hash).
		Scan(&out.ID, &out.Name, &out.Email)
	if err != nil {
		if cerr := conflictFrom(err); cerr != nil {
			log.Debug("email already registered")
			return nil, cerr
		}
		log.Error("user registration failed", logger.Err(err))
		return nil, internalErr("insert user", err)
	}

	log.Info("new user registered", logger.UserID(out.ID))
	return &out, nil
}

func (s *UserStore) Login(ctx context.Context, email, plain string) (u *repository.User, err error) {
	defer func() { metrics.ObserveRepoOp("user", "login", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.users"), logger.Op("Login"))

	email = validation.NormalizeEmail(email)

	const query = `SELECT id, name, email, password_hash FROM users WHERE email = $1`

	var out repository.User
	var hash string
	err = s.DB.QueryRow(ctx, query, email).Scan(&out.ID, &out.Name, &out.Email, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("login attempt: user not found", logger.Email(email))
			return nil, repository.ErrInvalidCredentials
		}
		return nil, internalErr("select user by email", err)
	}

	if !password.Verify(plain, hash) {
		log.Warn("login attempt: incorrect password", logger.UserID(out.ID))
		return nil, repository.ErrInvalidCredentials
	}

	log.Info("user logged in", logger.UserID(out.ID))
	return &out, nil
}

func (s *UserStore) Get(ctx context.Context, userID string) (u *repository.User, err error) {
	defer func() { metrics.ObserveRepoOp("user", "get", err) }()

	if userID == "" {
		return nil, repository.NewValidationError("id", "user id is required")
	}

	const query = `SELECT ` + userProjection + ` FROM users WHERE id = $1`

	var out repository.User
	err = s.DB.QueryRow(ctx, query, userID).Scan(&out.ID, &out.Name, &out.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", repository.ErrNotFound)
		}
		return nil, internalErr("select user", err)
	}
	return &out, nil
}

// Update applies a partial update. A password change requires the current
// password: the stored hash is verified before the new secret is hashed
// and added to the statement. The whole update is a single statement
// scoped by id.
func (s *UserStore) Update(ctx context.Context, userID string, in repository.UpdateUserInput) (u *repository.User, err error) {
	defer func() { metrics.ObserveRepoOp("user", "update", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.users"), logger.Op("Update"))

	if userID == "" {
		return nil, repository.NewValidationError("id", "user id is required")
	}

	b, err := buildUpdate(
		field{column: "name", value: in.Name, normalize: strings.TrimSpace, validate: nonEmpty("name", "name")},
		field{column: "email", value: in.Email, normalize: validation.NormalizeEmail, validate: validEmail},
	)
	if err != nil {
		return nil, err
	}

	if in.NewPassword != nil {
		hash, err := s.verifyPasswordChange(ctx, userID, in)
		if err != nil {
			return nil, err
		}
		b.addValue("password_hash", hash)
	}

	if err := b.requireFields(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING `+userProjection,
		b.setClause(), b.whereArg(userID),
	)

	var out repository.User
	err = s.DB.QueryRow(ctx, query, b.args...).Scan(&out.ID, &out.Name, &out.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", repository.ErrNotFound)
		}
		if cerr := conflictFrom(err); cerr != nil {
			return nil, &repository.ConflictError{Field: "email", Message: "email already in use"}
		}
		log.Error("user update failed", logger.UserID(userID), logger.Err(err))
		return nil, internalErr("update user", err)
	}

	log.Info("user profile updated", logger.UserID(userID))
	return &out, nil
}

// verifyPasswordChange enforces the secret-rotation sub-contract and
// returns the new hash to store.
func (s *UserStore) verifyPasswordChange(ctx context.Context, userID string, in repository.UpdateUserInput) (string, error) {
	if err := s.checkPasswordStrength(ctx, *in.NewPassword); err != nil {
		return "", err
	}
	if in.CurrentPassword == nil || *in.CurrentPassword == "" {
		return "", repository.NewValidationError("currentPassword", "current password required to set new password")
	}

	var hash string
	err := s.DB.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: user", repository.ErrNotFound)
		}
		return "", internalErr("select password hash", err)
	}

	if !password.Verify(*in.CurrentPassword, hash) {
		return "", fmt.Errorf("%w: current password is incorrect", repository.ErrInvalidCredentials)
	}

	newHash, err := password.Hash(*in.NewPassword)
	if err != nil {
		return "", internalErr("hash password", err)
	}
	return newHash, nil
}

// Delete removes the account after re-verifying the password. Deletion is
// never allowed on id alone.
func (s *UserStore) Delete(ctx context.Context, userID, plain string) (err error) {
	defer func() { metrics.ObserveRepoOp("user", "delete", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.users"), logger.Op("Delete"))

	if userID == "" {
		return repository.NewValidationError("id", "user id is required")
	}
	if plain == "" {
		return repository.NewValidationError("password", "password required for deletion")
	}

	var hash string
	err = s.DB.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: user", repository.ErrNotFound)
		}
		return internalErr("select password hash", err)
	}

	if !password.Verify(plain, hash) {
		return fmt.Errorf("%w: incorrect password", repository.ErrInvalidCredentials)
	}

	tag, err := s.DB.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return internalErr("delete user", err)
	}
	// The row can vanish between the hash check and the delete.
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user", repository.ErrNotFound)
	}

	log.Info("user account deleted", logger.UserID(userID))
	return nil
}

// checkPasswordStrength applies the strength policy and the optional
// blacklist. Blacklist load failures never block the caller.
func (s *UserStore) checkPasswordStrength(ctx context.Context, plain string) error {
	if ok, _ := password.Default.Validate(plain); !ok {
		return repository.NewValidationError("password",
			"password must be 8+ characters, include an uppercase letter and a number")
	}
	path := strings.TrimSpace(s.BlacklistPath)
	if path == "" {
		return nil
	}
	bl, err := password.GetCachedBlacklist(path)
	if err != nil {
		logger.From(ctx).Debug("failed to load password blacklist", logger.Err(err), logger.String("path", path))
		return nil
	}
	if bl.Contains(plain) {
		return repository.NewValidationError("password", "password is too common")
	}
	return nil
}

func validEmail(v string) error {
	if !validation.ValidEmail(v) {
		return repository.NewValidationError("email", "invalid email format")
	}
	return nil
}
