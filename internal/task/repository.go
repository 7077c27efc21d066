// AngelaMos | 2026
// repository.go

package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

type Repository interface {
	List(ctx context.Context, assetID string) ([]Task, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	GetForUpdate(ctx context.Context, id string) (*Task, error)
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	SaveCompletion(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context, today schedule.Date) (*Counts, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const taskSelect = `
		SELECT t.id, t.asset_id, a.name AS asset_name, t.task_name,
		       t.last_done_date, t.next_due_date, t.frequency_days,
		       t.notified, t.notes, t.created_at, t.updated_at
		FROM tasks t
		LEFT JOIN assets a ON a.id = t.asset_id`

func (r *repository) List(ctx context.Context, assetID string) ([]Task, error) {
	query := taskSelect
	var args []any

	if assetID != "" {
		query += `
		WHERE t.asset_id = $1`
		args = append(args, assetID)
	}

	query += `
		ORDER BY t.next_due_date ASC NULLS LAST, t.created_at ASC`

	tasks := []Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Task, error) {
	return r.get(ctx, taskSelect+`
		WHERE t.id = $1`, id)
}

// GetForUpdate locks the task row until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id string) (*Task, error) {
	return r.get(ctx, taskSelect+`
		WHERE t.id = $1
		FOR UPDATE OF t`, id)
}

func (r *repository) get(ctx context.Context, query, id string) (*Task, error) {
	var task Task
	err := r.db.GetContext(ctx, &task, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &task, nil
}

func (r *repository) Create(ctx context.Context, task *Task) error {
	query := `
		WITH inserted AS (
			INSERT INTO tasks (
				id, asset_id, task_name, last_done_date, next_due_date,
				frequency_days, notified, notes
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			)
			RETURNING asset_id, created_at, updated_at
		)
		SELECT i.created_at, i.updated_at, a.name AS asset_name
		FROM inserted i
		LEFT JOIN assets a ON a.id = i.asset_id`

	err := r.db.GetContext(ctx, task, query,
		task.ID,
		task.AssetID,
		task.TaskName,
		task.LastDoneDate,
		task.NextDueDate,
		task.FrequencyDays,
		task.Notified,
		task.Notes,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", core.GatewayError(err))
	}

	return nil
}

func (r *repository) Update(ctx context.Context, task *Task) error {
	query := `
		WITH updated AS (
			UPDATE tasks
			SET asset_id = $2, task_name = $3, last_done_date = $4,
			    next_due_date = $5, frequency_days = $6, notified = $7,
			    notes = $8, updated_at = NOW()
			WHERE id = $1
			RETURNING asset_id, created_at, updated_at
		)
		SELECT u.created_at, u.updated_at, a.name AS asset_name
		FROM updated u
		LEFT JOIN assets a ON a.id = u.asset_id`

	err := r.db.GetContext(ctx, task, query,
		task.ID,
		task.AssetID,
		task.TaskName,
		task.LastDoneDate,
		task.NextDueDate,
		task.FrequencyDays,
		task.Notified,
		task.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update task: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update task: %w", core.GatewayError(err))
	}

	return nil
}

func (r *repository) SaveCompletion(ctx context.Context, task *Task) error {
	query := `
		UPDATE tasks
		SET last_done_date = $2, next_due_date = $3, notified = $4,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &task.UpdatedAt, query,
		task.ID,
		task.LastDoneDate,
		task.NextDueDate,
		task.Notified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("complete task: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("complete task: %w", core.GatewayError(err))
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete task: %w", core.GatewayError(err))
	}

	return nil
}

// Counts reports dashboard totals. Overdue means strictly before today.
func (r *repository) Counts(ctx context.Context, today schedule.Date) (*Counts, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE next_due_date < $1) AS overdue,
			COUNT(*) FILTER (
				WHERE next_due_date >= $1 AND next_due_date <= $2
			) AS due_this_week,
			COUNT(*) FILTER (WHERE last_done_date = $1) AS completed_today
		FROM tasks`

	var counts Counts
	err := r.db.GetContext(ctx, &counts, query,
		today,
		today.AddDays(schedule.DueSoonDays),
	)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	return &counts, nil
}
