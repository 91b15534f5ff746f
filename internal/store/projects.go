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
)

// ProjectStore implements repository.ProjectRepository over PostgreSQL.
// Every read and mutation is scoped by the owner predicate; a project
// owned by someone else is indistinguishable from a missing one.
type ProjectStore struct {
	DB DBOps
}

// NewProjectStore creates a project store over the given database capability.
func NewProjectStore(db DBOps) *ProjectStore { return &ProjectStore{DB: db} }

var _ repository.ProjectRepository = (*ProjectStore)(nil)

const projectProjection = "id, name, user_id, description"

// nullIfEmpty returns nil for an empty string, for NULL-able columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *ProjectStore) Create(ctx context.Context, in repository.CreateProjectInput) (p *repository.Project, err error) {
	defer func() { metrics.ObserveRepoOp("project", "create", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.projects"), logger.Op("Create"))

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, repository.NewValidationError("name", "project name is required")
	}
	if in.UserID == "" {
		return nil, repository.NewValidationError("user_id", "user id is required")
	}

	// The owner reference is enforced by the foreign key, not pre-checked.
	const query = `
		INSERT INTO projects (id, name, user_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + projectProjection

	var out repository.Project
	err = s.DB.QueryRow(ctx, query, uuid.NewString(), name, in.UserID, nullIfEmpty(strings.TrimSpace(in.Description))).
		Scan(&out.ID, &out.Name, &out.UserID, &out.Description)
	if err != nil {
		if cerr := conflictFrom(err); cerr != nil {
			return nil, cerr
		}
		log.Error("failed to create project", logger.UserID(in.UserID), logger.Err(err))
		return nil, internalErr("insert project", err)
	}

	log.Info("project created", logger.ProjectID(out.ID), logger.UserID(in.UserID))
	return &out, nil
}

func (s *ProjectStore) Get(ctx context.Context, projectID, userID string) (p *repository.Project, err error) {
	defer func() { metrics.ObserveRepoOp("project", "get", err) }()

	if projectID == "" || userID == "" {
		return nil, repository.NewValidationError("id", "missing required ids")
	}

	const query = `
		SELECT ` + projectProjection + `
		FROM projects
		WHERE id = $1 AND user_id = $2`

	var out repository.Project
	err = s.DB.QueryRow(ctx, query, projectID, userID).
		Scan(&out.ID, &out.Name, &out.UserID, &out.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: project", repository.ErrNotFound)
		}
		return nil, internalErr("select project", err)
	}
	return &out, nil
}

func (s *ProjectStore) Update(ctx context.Context, projectID, userID string, in repository.UpdateProjectInput) (p *repository.Project, err error) {
	defer func() { metrics.ObserveRepoOp("project", "update", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.projects"), logger.Op("Update"))

	if projectID == "" || userID == "" {
		return nil, repository.NewValidationError("id", "missing required ids")
	}

	b, err := buildUpdate(
		field{column: "name", value: in.Name, normalize: strings.TrimSpace, validate: nonEmpty("name", "project name")},
		field{column: "description", value: in.Description, normalize: strings.TrimSpace},
	)
	if err != nil {
		return nil, err
	}
	if err := b.requireFields(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE projects SET %s WHERE id = $%d AND user_id = $%d RETURNING `+projectProjection,
		b.setClause(), b.whereArg(projectID), b.whereArg(userID),
	)

	var out repository.Project
	err = s.DB.QueryRow(ctx, query, b.args...).
		Scan(&out.ID, &out.Name, &out.UserID, &out.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: project", repository.ErrNotFound)
		}
		if cerr := conflictFrom(err); cerr != nil {
			return nil, cerr
		}
		log.Error("project update failed", logger.ProjectID(projectID), logger.Err(err))
		return nil, internalErr("update project", err)
	}

	log.Info("project updated", logger.ProjectID(projectID))
	return &out, nil
}

func (s *ProjectStore) Delete(ctx context.Context, projectID, userID string) (err error) {
	defer func() { metrics.ObserveRepoOp("project", "delete", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.projects"), logger.Op("Delete"))

	if projectID == "" || userID == "" {
		return repository.NewValidationError("id", "missing required ids")
	}

	tag, err := s.DB.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		log.Error("project deletion failed", logger.ProjectID(projectID), logger.Err(err))
		return internalErr("delete project", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project", repository.ErrNotFound)
	}

	log.Info("project deleted", logger.ProjectID(projectID))
	return nil
}
