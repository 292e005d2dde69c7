package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"teamtasks/internal/domain"
)

const taskColumns = `id, title, description, deadline, priority, status, user_id, created_by, created_at, updated_at`

// TaskRepository stores tasks in PostgreSQL.
type TaskRepository struct {
	base
}

// NewTaskRepository bounds every call by timeout.
func NewTaskRepository(db *sql.DB, timeout time.Duration) *TaskRepository {
	return &TaskRepository{base{db: db, timeout: timeout}}
}

// Create inserts t and returns the stored row.
func (r *TaskRepository) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO tasks (title, description, deadline, priority, status, user_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		t.Title, nullString(t.Description), t.Deadline, string(t.Priority), string(t.Status), t.UserID, t.CreatedBy,
	)
	out, err := scanTask(row)
	if err != nil {
		return domain.Task{}, translate(err, "task")
	}
	return out, nil
}

// GetByID returns ErrNotFound for an unknown id.
func (r *TaskRepository) GetByID(ctx context.Context, id int) (domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, translate(err, fmt.Sprintf("task %d", id))
	}
	return t, nil
}

// ListByAssignees returns the tasks whose assignee is one of userIDs.
func (r *TaskRepository) ListByAssignees(ctx context.Context, userIDs []int) ([]domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	ids := make([]int64, len(userIDs))
	for i, id := range userIDs {
		ids[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update writes every mutable column of t.
func (r *TaskRepository) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, deadline = $3, priority = $4,
		    status = $5, user_id = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		t.Title, nullString(t.Description), t.Deadline, string(t.Priority), string(t.Status), t.UserID, t.ID,
	)
	out, err := scanTask(row)
	if err != nil {
		return domain.Task{}, translate(err, fmt.Sprintf("task %d", t.ID))
	}
	return out, nil
}

// UpdateStatus changes only the status column of task id.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int, status domain.Status) (domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE tasks SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING ` + taskColumns

	out, err := scanTask(r.db.QueryRowContext(ctx, query, string(status), id))
	if err != nil {
		return domain.Task{}, translate(err, fmt.Sprintf("task %d", id))
	}
	return out, nil
}

// Delete removes task id, ErrNotFound when no row matched.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: task %d", domain.ErrNotFound, id)
	}
	return nil
}

func scanTask(s scanner) (domain.Task, error) {
	var (
		t           domain.Task
		description sql.NullString
		priority    string
		status      string
	)
	err := s.Scan(&t.ID, &t.Title, &description, &t.Deadline, &priority, &status,
		&t.UserID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	t.Description = stringPtr(description)
	t.Priority = domain.Priority(priority)
	t.Status = domain.Status(status)
	return t, nil
}
