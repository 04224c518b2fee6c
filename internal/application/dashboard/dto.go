package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/praktis/backend/internal/domain/task"
)

// StatusCounts holds task counts per work status
type StatusCounts struct {
	NotStarted int64
	InProgress int64
	Completed  int64
	Total      int64
}

// TaskStats groups the task-related dashboard numbers
type TaskStats struct {
	ByStatus       StatusCounts
	CompletedToday int64
	DueThisWeek    int64
	OverdueCount   int64
}

// SplitCount is an active/inactive pair
type SplitCount struct {
	Active   int64
	Inactive int64
}

// OverdueItem is one entry of the overdue listing
type OverdueItem struct {
	TaskID      uuid.UUID
	ClientID    uuid.UUID
	Title       string
	Status      task.Status
	Priority    task.Priority
	DueDate     time.Time
	DaysOverdue int
}

// StatsResult is the full dashboard payload
type StatsResult struct {
	Tasks   TaskStats
	Overdue []OverdueItem
	Clients SplitCount
	Staff   SplitCount
	Billing *task.BillingSummary
}

func toOverdueItems(tasks []*task.Task, now time.Time) []OverdueItem {
	items := make([]OverdueItem, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		items = append(items, OverdueItem{
			TaskID:      t.ID,
			ClientID:    t.ClientID,
			Title:       t.Title,
			Status:      t.Status,
			Priority:    t.Priority,
			DueDate:     *t.DueDate,
			DaysOverdue: int(now.Sub(*t.DueDate).Hours() / 24),
		})
	}
	return items
}
