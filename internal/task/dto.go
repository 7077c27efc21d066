// AngelaMos | 2026
// dto.go

package task

import (
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/form"
	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

type TaskForm struct {
	AssetID       form.Value `json:"asset_id"       validate:"notblank,uuid"`
	TaskName      form.Value `json:"task_name"      validate:"notblank,max=200"`
	LastDoneDate  form.Value `json:"last_done_date"`
	NextDueDate   form.Value `json:"next_due_date"`
	FrequencyDays form.Value `json:"frequency_days"`
	Notified      bool       `json:"notified"`
	Notes         form.Value `json:"notes"          validate:"max=4000"`
}

type Fields struct {
	AssetID       *string
	TaskName      string
	LastDoneDate  *schedule.Date
	NextDueDate   *schedule.Date
	FrequencyDays *int
	Notified      bool
	Notes         *string
}

func (f TaskForm) Normalize() (Fields, error) {
	lastDone, err := f.LastDoneDate.Date("last_done_date")
	if err != nil {
		return Fields{}, err
	}

	nextDue, err := f.NextDueDate.Date("next_due_date")
	if err != nil {
		return Fields{}, err
	}

	frequency, err := f.FrequencyDays.PositiveInt("frequency_days")
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		AssetID:       f.AssetID.Text(),
		TaskName:      f.TaskName.String(),
		LastDoneDate:  lastDone,
		NextDueDate:   nextDue,
		FrequencyDays: frequency,
		Notified:      f.Notified,
		Notes:         f.Notes.Text(),
	}, nil
}

const (
	SortDue     = "due"
	SortUrgency = "urgency"
)

type ListParams struct {
	AssetID string
	Status  schedule.Category
	Sort    string
}

// TaskResponse omits the notified flag, which is stored but never shown.
type TaskResponse struct {
	ID            string          `json:"id"`
	AssetID       *string         `json:"asset_id"`
	AssetName     *string         `json:"asset_name"`
	TaskName      string          `json:"task_name"`
	LastDoneDate  *schedule.Date  `json:"last_done_date"`
	NextDueDate   *schedule.Date  `json:"next_due_date"`
	FrequencyDays *int            `json:"frequency_days"`
	Notes         *string         `json:"notes"`
	Status        schedule.Status `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Today schedule.Date  `json:"today"`
}

func ToTaskResponse(t *Task, today schedule.Date) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		AssetID:       t.AssetID,
		AssetName:     t.AssetName,
		TaskName:      t.TaskName,
		LastDoneDate:  t.LastDoneDate,
		NextDueDate:   t.NextDueDate,
		FrequencyDays: t.FrequencyDays,
		Notes:         t.Notes,
		Status:        t.Status(today),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func ToTaskResponseList(tasks []Task, today schedule.Date) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, ToTaskResponse(&tasks[i], today))
	}
	return responses
}
