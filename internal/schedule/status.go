// AngelaMos | 2026
// status.go

package schedule

import (
	"fmt"
	"slices"
)

type Category string

const (
	Unscheduled Category = "unscheduled"
	Overdue     Category = "overdue"
	DueToday    Category = "due_today"
	DueSoon     Category = "due_soon"
	ScheduledOK Category = "scheduled_ok"
)

// DueSoonDays is the inclusive upper bound of the due_soon window.
const DueSoonDays = 7

type Status struct {
	Category    Category `json:"category"`
	Label       string   `json:"label"`
	DaysUntil   *int     `json:"days_until"`
	DaysOverdue int      `json:"days_overdue,omitempty"`
}

// Classify derives the urgency of a task from its next due date.
func Classify(due *Date, today Date) Status {
	if due == nil {
		return Status{Category: Unscheduled, Label: "Not scheduled"}
	}

	diff := today.DaysUntil(*due)

	switch {
	case diff < 0:
		return Status{
			Category:    Overdue,
			Label:       fmt.Sprintf("Overdue by %d days", -diff),
			DaysUntil:   &diff,
			DaysOverdue: -diff,
		}
	case diff == 0:
		return Status{Category: DueToday, Label: "Due today", DaysUntil: &diff}
	case diff <= DueSoonDays:
		return Status{
			Category:  DueSoon,
			Label:     fmt.Sprintf("Due in %d days", diff),
			DaysUntil: &diff,
		}
	default:
		return Status{
			Category:  ScheduledOK,
			Label:     fmt.Sprintf("Due in %d days", diff),
			DaysUntil: &diff,
		}
	}
}

// CompareDue orders due dates earliest first with unscheduled last.
func CompareDue(a, b *Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

// SortByUrgency stably sorts items so the most pressing come first.
func SortByUrgency[T any](items []T, due func(T) *Date) {
	slices.SortStableFunc(items, func(a, b T) int {
		return CompareDue(due(a), due(b))
	})
}

// NextDue returns the day a recurring task falls due again after being done
// on done. Tasks without a frequency have no next occurrence.
func NextDue(done Date, frequencyDays *int) *Date {
	if frequencyDays == nil || *frequencyDays <= 0 {
		return nil
	}
	next := done.AddDays(*frequencyDays)
	return &next
}
