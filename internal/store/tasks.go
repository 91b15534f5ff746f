package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/taskhub/internal/domain/repository"
	"github.com/dropDatabas3/taskhub/internal/metrics"
	"github.com/dropDatabas3/taskhub/internal/observability/logger"
)

// TaskStore implements repository.TaskRepository over PostgreSQL.
// Tasks carry no owner column; every operation resolves ownership
// transitively through the owning project's user_id.
type TaskStore struct {
	DB DBOps
}

// NewTaskStore creates a task store over the given database capability.
func NewTaskStore(db DBOps) *TaskStore { return &TaskStore{DB: db} }

var _ repository.TaskRepository = (*TaskStore)(nil)

const taskProjection = "id, project_id, title, assigned_to, status, priority, created_at"

// ownedTasks restricts a tasks statement to projects owned by the acting
// user. The placeholder is filled in by the caller.
const ownedTasks = `project_id IN (SELECT id FROM projects WHERE user_id = $%d)`

func (s *TaskStore) Create(ctx context.Context, in repository.CreateTaskInput) (t *repository.Task, err error) {
	defer func() { metrics.ObserveRepoOp("task", "create", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.tasks"), logger.Op("Create"))

	if in.ProjectID == "" {
		return nil, repository.NewValidationError("project_id", "project id is required")
	}
	if in.UserID == "" {
		return nil, repository.NewValidationError("user_id", "user id is required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, repository.NewValidationError("title", "title is required")
	}

	// Explicit ownership pre-check: the project FK alone does not encode
	// who owns the project.
	var projectID string
	err = s.DB.QueryRow(ctx, `SELECT id FROM projects WHERE id = $1 AND user_id = $2`, in.ProjectID, in.UserID).
		Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: project", repository.ErrNotFound)
		}
		return nil, internalErr("check project ownership", err)
	}

	const query = `
		INSERT INTO tasks (id, project_id, title, status, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskProjection

	row := s.DB.QueryRow(ctx, query,
		uuid.NewString(), in.ProjectID, title,
		string(repository.TaskStatusTodo), string(repository.TaskPriorityMedium),
		time.Now().UTC(),
	)
	out, err := scanTask(row)
	if err != nil {
		log.Error("task creation failed", logger.ProjectID(in.ProjectID), logger.Err(err))
		return nil, internalErr("insert task", err)
	}

	log.Info("task created", logger.TaskID(out.ID), logger.ProjectID(in.ProjectID))
	return out, nil
}

func (s *TaskStore) Get(ctx context.Context, taskID, userID string) (t *repository.Task, err error) {
	defer func() { metrics.ObserveRepoOp("task", "get", err) }()

	if taskID == "" {
		return nil, repository.NewValidationError("id", "task id is required")
	}
	if userID == "" {
		return nil, repository.NewValidationError("user_id", "user id is required")
	}

	const query = `
		SELECT t.id, t.project_id, t.title, t.assigned_to, t.status, t.priority, t.created_at
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1 AND p.user_id = $2`

	out, err := scanTask(s.DB.QueryRow(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: task", repository.ErrNotFound)
		}
		return nil, internalErr("select task", err)
	}
	return out, nil
}

func (s *TaskStore) ListByProject(ctx context.Context, projectID, userID string) (ts []repository.Task, err error) {
	defer func() { metrics.ObserveRepoOp("task", "list_by_project", err) }()

	if projectID == "" {
		return nil, repository.NewValidationError("project_id", "project id is required")
	}
	if userID == "" {
		return nil, repository.NewValidationError("user_id", "user id is required")
	}

	const query = `
		SELECT t.id, t.project_id, t.title, t.assigned_to, t.status, t.priority, t.created_at
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.project_id = $1 AND p.user_id = $2
		ORDER BY t.created_at DESC`

	return s.listTasks(ctx, query, projectID, userID)
}

func (s *TaskStore) ListByAssignee(ctx context.Context, assigneeID, userID string) (ts []repository.Task, err error) {
	defer func() { metrics.ObserveRepoOp("task", "list_by_assignee", err) }()

	if assigneeID == "" {
		return nil, repository.NewValidationError("assigned_to", "assignee id is required")
	}
	if userID == "" {
		return nil, repository.NewValidationError("user_id", "user id is required")
	}

	const query = `
		SELECT t.id, t.project_id, t.title, t.assigned_to, t.status, t.priority, t.created_at
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.assigned_to = $1 AND p.user_id = $2
		ORDER BY t.created_at DESC`

	return s.listTasks(ctx, query, assigneeID, userID)
}

// listTasks runs a task collection query. An empty result is ErrNotFound:
// an unauthorized caller sees the same outcome as an empty collection.
func (s *TaskStore) listTasks(ctx context.Context, query string, args ...any) ([]repository.Task, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, internalErr("select tasks", err)
	}
	defer rows.Close()

	var out []repository.Task
	for rows.Next() {
		var t repository.Task
		var status, priority string
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.AssignedTo, &status, &priority, &t.CreatedAt); err != nil {
			return nil, internalErr("scan task", err)
		}
		t.Status = repository.TaskStatus(status)
		t.Priority = repository.TaskPriority(priority)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErr("iterate tasks", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no tasks", repository.ErrNotFound)
	}
	return out, nil
}

func (s *TaskStore) Update(ctx context.Context, taskID, userID string, in repository.UpdateTaskInput) (t *repository.Task, err error) {
	defer func() { metrics.ObserveRepoOp("task", "update", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.tasks"), logger.Op("Update"))

	if taskID == "" || userID == "" {
		return nil, repository.NewValidationError("id", "missing required ids")
	}

	b, err := buildUpdate(
		field{column: "title", value: in.Title, normalize: strings.TrimSpace, validate: nonEmpty("title", "title")},
		field{column: "status", value: in.Status, normalize: strings.TrimSpace,
			validate: oneOf("status", "invalid status",
				string(repository.TaskStatusTodo), string(repository.TaskStatusInProgress), string(repository.TaskStatusDone))},
		field{column: "priority", value: in.Priority, normalize: strings.TrimSpace,
			validate: oneOf("priority", "invalid priority",
				string(repository.TaskPriorityLow), string(repository.TaskPriorityMedium), string(repository.TaskPriorityHigh))},
		field{column: "assigned_to", value: in.AssignedTo, normalize: strings.TrimSpace, nullIfEmpty: true},
	)
	if err != nil {
		return nil, err
	}
	if err := b.requireFields(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d AND `+ownedTasks+` RETURNING `+taskProjection,
		b.setClause(), b.whereArg(taskID), b.whereArg(userID),
	)

	out, err := scanTask(s.DB.QueryRow(ctx, query, b.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: task", repository.ErrNotFound)
		}
		log.Error("task update failed", logger.TaskID(taskID), logger.Err(err))
		return nil, internalErr("update task", err)
	}

	log.Info("task updated", logger.TaskID(taskID))
	return out, nil
}

func (s *TaskStore) Delete(ctx context.Context, taskID, userID string) (err error) {
	defer func() { metrics.ObserveRepoOp("task", "delete", err) }()
	log := logger.From(ctx).With(logger.Layer("store"), logger.Component("store.tasks"), logger.Op("Delete"))

	if taskID == "" || userID == "" {
		return repository.NewValidationError("id", "missing required ids")
	}

	query := fmt.Sprintf(`DELETE FROM tasks WHERE id = $1 AND `+ownedTasks, 2)
	tag, err := s.DB.Exec(ctx, query, taskID, userID)
	if err != nil {
		log.Error("task deletion failed", logger.TaskID(taskID), logger.Err(err))
		return internalErr("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task", repository.ErrNotFound)
	}

	log.Info("task deleted", logger.TaskID(taskID))
	return nil
}

func scanTask(row pgx.Row) (*repository.Task, error) {
	var t repository.Task
	var status, priority string
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.AssignedTo, &status, &priority, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = repository.TaskStatus(status)
	t.Priority = repository.TaskPriority(priority)
	return &t, nil
}
