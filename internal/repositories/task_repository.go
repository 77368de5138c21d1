package repositories

import (
	"context"
	"database/sql"
	"time"

	"taskmanager/internal/models"
)

const (
	taskTable   = "taskmanager.tasks"
	taskColumns = "id, user_id, title, content, priority, status, due_date, created_at, updated_at"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	ListPage(ctx context.Context, filter models.TaskFilter, now time.Time) ([]models.Task, error)
	Count(ctx context.Context, filter models.TaskFilter, now time.Time) (int, error)
	FindOwned(ctx context.Context, id, ownerID int64) (*models.Task, error)
	UpdateStatus(ctx context.Context, id, ownerID int64, to models.TaskStatus) (*models.Task, error)
	UpdatePriority(ctx context.Context, id, ownerID int64, to models.TaskPriority) (*models.Task, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func scanTask(row interface{ Scan(...interface{}) error }, t *models.Task) error {
	return row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Content, &t.Priority, &t.Status,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO ` + taskTable + ` (title, content, priority, status, due_date, user_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.Title, task.Content, task.Priority, task.Status,
		task.DueDate, task.UserID, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) ListPage(ctx context.Context, filter models.TaskFilter, now time.Time) ([]models.Task, error) {
	b, err := BucketConditions(filter, now)
	if err != nil {
		return nil, err
	}
	offset := (filter.Page - 1) * filter.Limit
	query, args := b.DataQuery(taskTable, taskColumns, "due_date ASC", filter.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Count(ctx context.Context, filter models.TaskFilter, now time.Time) (int, error) {
	b, err := BucketConditions(filter, now)
	if err != nil {
		return 0, err
	}
	query, args := b.CountQuery(taskTable)

	var c int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

// FindOwned returns (nil, nil) when no task with this id belongs to the
// owner; a missing row and a foreign row are indistinguishable on purpose.
func (r *taskRepository) FindOwned(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM ` + taskTable + ` WHERE id = $1 AND user_id = $2`
	t := &models.Task{}
	err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID), t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id, ownerID int64, to models.TaskStatus) (*models.Task, error) {
	query := `
		UPDATE ` + taskTable + ` SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + taskColumns
	t := &models.Task{}
	err := scanTask(r.db.QueryRowContext(ctx, query, to, id, ownerID), t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) UpdatePriority(ctx context.Context, id, ownerID int64, to models.TaskPriority) (*models.Task, error) {
	query := `
		UPDATE ` + taskTable + ` SET priority = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + taskColumns
	t := &models.Task{}
	err := scanTask(r.db.QueryRowContext(ctx, query, to, id, ownerID), t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
