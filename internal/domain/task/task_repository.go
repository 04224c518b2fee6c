package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, t *Task) error

	// Update updates an existing task
	Update(ctx context.Context, t *Task) error

	// Delete hard-deletes a task by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByIDForOwner finds a task by ID scoped to a practice
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Task, error)

	// FindAllForOwner returns a practice's tasks with filters and pagination
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*Task, int64, error)

	// FindForAssignee returns a staff member's non-archived tasks ordered
	// by due date
	FindForAssignee(ctx context.Context, assigneeID uuid.UUID, filter TaskFilter) ([]*Task, int64, error)

	// FindInactiveStaffTasks returns tasks still attributed to departed or
	// deactivated staff: assignee in the given set, or a legacy name set.
	FindInactiveStaffTasks(ctx context.Context, ownerID uuid.UUID, staffIDs []uuid.UUID) ([]*Task, error)

	// ClientIDsForAssignee returns the distinct clients reachable through
	// a staff member's assigned tasks
	ClientIDsForAssignee(ctx context.Context, assigneeID uuid.UUID) ([]uuid.UUID, error)

	// CountActiveForAssignee counts a staff member's non-archived tasks
	CountActiveForAssignee(ctx context.Context, assigneeID uuid.UUID) (int64, error)

	// CountNonArchivedForClient counts a client's non-archived tasks
	CountNonArchivedForClient(ctx context.Context, clientID uuid.UUID) (int64, error)

	// DeleteArchivedForClient removes a client's archived tasks, returning
	// the number deleted
	DeleteArchivedForClient(ctx context.Context, clientID uuid.UUID) (int64, error)

	// ReassignToLegacy snapshots the given name onto every task assigned
	// to the staff member (archived or not), clearing the assignee
	// reference. Returns the number of tasks touched.
	ReassignToLegacy(ctx context.Context, staffID uuid.UUID, legacyName string) (int64, error)

	// ArchiveCompletedBefore archives every non-archived completed task
	// whose completion predates the cutoff. Returns the number archived;
	// already-archived tasks are never touched, so repeat runs are no-ops.
	ArchiveCompletedBefore(ctx context.Context, cutoff, archivedAt time.Time) (int64, error)

	// CountAdvancesOnDay counts advance receipts issued by a practice on
	// the given calendar day. Drives the per-day receipt number sequence.
	CountAdvancesOnDay(ctx context.Context, ownerID uuid.UUID, day time.Time) (int64, error)

	// FindBilled returns issued bills matching the filter, paginated
	FindBilled(ctx context.Context, ownerID uuid.UUID, filter BillingFilter) ([]*Task, int64, error)

	// SummarizeBilling computes summary statistics over the entire
	// filtered set, not just one page
	SummarizeBilling(ctx context.Context, ownerID uuid.UUID, filter BillingFilter) (*BillingSummary, error)

	// CountByStatus returns task counts per work status for a practice
	CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[Status]int64, error)

	// CountCompletedSince counts tasks completed at or after the given time
	CountCompletedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error)

	// CountDueBetween counts non-archived tasks due in the window
	CountDueBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error)

	// FindOverdue returns non-archived, not completed tasks past their due
	// date
	FindOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time, limit int) ([]*Task, error)
}

// TaskFilter contains filter options for querying tasks
type TaskFilter struct {
	// Search keyword matched against title and service type
	Keyword string

	// Filter by work status
	Status *Status

	// Filter by priority
	Priority *Priority

	// Filter by assignee
	AssigneeID *uuid.UUID

	// Filter by client
	ClientID *uuid.UUID

	// Filter by archived flag; nil means non-archived only
	Archived *bool

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewTaskFilter creates a new TaskFilter with default values
func NewTaskFilter() TaskFilter {
	archived := false
	return TaskFilter{
		Archived:  &archived,
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithStatus sets the status filter
func (f TaskFilter) WithStatus(status Status) TaskFilter {
	f.Status = &status
	return f
}

// WithAssignee sets the assignee filter
func (f TaskFilter) WithAssignee(assigneeID uuid.UUID) TaskFilter {
	f.AssigneeID = &assigneeID
	return f
}

// WithClient sets the client filter
func (f TaskFilter) WithClient(clientID uuid.UUID) TaskFilter {
	f.ClientID = &clientID
	return f
}

// WithArchived sets the archived flag filter
func (f TaskFilter) WithArchived(archived bool) TaskFilter {
	f.Archived = &archived
	return f
}

// WithKeyword sets the search keyword
func (f TaskFilter) WithKeyword(keyword string) TaskFilter {
	f.Keyword = keyword
	return f
}

// WithPagination sets pagination parameters
func (f TaskFilter) WithPagination(page, pageSize int) TaskFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f TaskFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f TaskFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// BillingFilter contains filter options for the billing dashboard
type BillingFilter struct {
	// Search keyword matched against title, invoice number, client name
	// and client code
	Keyword string

	// Filter by payment status. OVERDUE selects unpaid bills past due.
	Status *PaymentStatus

	// Filter by client
	ClientID *uuid.UUID

	// Issuance date window
	From *time.Time
	To   *time.Time

	// Pagination
	Page     int
	PageSize int
}

// NewBillingFilter creates a new BillingFilter with default values
func NewBillingFilter() BillingFilter {
	return BillingFilter{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for pagination
func (f BillingFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f BillingFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// BillingSummary holds statistics computed over a whole filtered set of bills
type BillingSummary struct {
	TotalBills    int64                   `json:"total_bills"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	TotalReceived decimal.Decimal         `json:"total_received"`
	CountByStatus map[PaymentStatus]int64 `json:"count_by_status"`
	OverdueCount  int64                   `json:"overdue_count"`
}
