// AngelaMos | 2026
// service.go

package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

type Service struct {
	repo  Repository
	db    *sqlx.DB
	clock schedule.Clock
}

func NewService(repo Repository, db *sqlx.DB, clock schedule.Clock) *Service {
	return &Service{repo: repo, db: db, clock: clock}
}

func (s *Service) Today() schedule.Date {
	return s.clock.Today()
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Task, error) {
	tasks, err := s.repo.List(ctx, params.AssetID)
	if err != nil {
		return nil, err
	}

	if params.Status != "" {
		today := s.clock.Today()
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.Status(today).Category == params.Status {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	if params.Sort == SortUrgency {
		schedule.SortByUrgency(tasks, func(t Task) *schedule.Date {
			return t.NextDueDate
		})
	}

	return tasks, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, f Fields) (*Task, error) {
	task := fromFields(uuid.New().String(), f)

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *Service) Update(ctx context.Context, id string, f Fields) (*Task, error) {
	task := fromFields(id, f)

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Complete marks the task done today. The row is locked for the read and the
// write so two concurrent completions cannot both roll the schedule forward
// from the same due date.
func (s *Service) Complete(ctx context.Context, id string) (*Task, error) {
	today := s.clock.Today()
	var done *Task

	err := core.InTx(ctx, s.db, nil, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		task, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		task.MarkDone(today)

		if err := repo.SaveCompletion(ctx, task); err != nil {
			return err
		}

		done = task
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("complete task %s: %w", id, err)
	}

	attrs := []attribute.KeyValue{
		attribute.String("task.id", done.ID),
		attribute.String("task.last_done_date", today.String()),
	}
	if done.NextDueDate != nil {
		attrs = append(attrs, attribute.String("task.next_due_date", done.NextDueDate.String()))
	}
	core.AddSpanEvent(ctx, "task.completed", attrs...)

	return done, nil
}

func (s *Service) Counts(ctx context.Context) (*Counts, error) {
	return s.repo.Counts(ctx, s.clock.Today())
}

func fromFields(id string, f Fields) *Task {
	return &Task{
		ID:            id,
		AssetID:       f.AssetID,
		TaskName:      f.TaskName,
		LastDoneDate:  f.LastDoneDate,
		NextDueDate:   f.NextDueDate,
		FrequencyDays: f.FrequencyDays,
		Notified:      f.Notified,
		Notes:         f.Notes,
	}
}
