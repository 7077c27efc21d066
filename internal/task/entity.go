// AngelaMos | 2026
// entity.go

package task

import (
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

type Task struct {
	ID            string         `db:"id"`
	AssetID       *string        `db:"asset_id"`
	AssetName     *string        `db:"asset_name"`
	TaskName      string         `db:"task_name"`
	LastDoneDate  *schedule.Date `db:"last_done_date"`
	NextDueDate   *schedule.Date `db:"next_due_date"`
	FrequencyDays *int           `db:"frequency_days"`
	Notified      bool           `db:"notified"`
	Notes         *string        `db:"notes"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (t *Task) Status(today schedule.Date) schedule.Status {
	return schedule.Classify(t.NextDueDate, today)
}

// MarkDone records a completion on day and rolls the due date forward by the
// task's frequency. One-off tasks keep their due date.
func (t *Task) MarkDone(day schedule.Date) {
	t.LastDoneDate = day.Ptr()
	if next := schedule.NextDue(day, t.FrequencyDays); next != nil {
		t.NextDueDate = next
	}
	t.Notified = false
}

type Counts struct {
	Total          int `db:"total"           json:"total"`
	Overdue        int `db:"overdue"         json:"overdue"`
	DueThisWeek    int `db:"due_this_week"   json:"due_this_week"`
	CompletedToday int `db:"completed_today" json:"completed_today"`
}
