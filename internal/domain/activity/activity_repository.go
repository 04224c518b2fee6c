package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityRepository defines the interface for activity persistence
type ActivityRepository interface {
	// Create appends one activity record
	Create(ctx context.Context, a *Activity) error

	// FindRecentForOwner returns the newest records for a practice
	FindRecentForOwner(ctx context.Context, ownerID uuid.UUID, filter Filter) ([]*Activity, int64, error)

	// DeleteExpired removes records past their retention expiry,
	// returning the number pruned
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Filter contains filter options for querying activities
type Filter struct {
	// Only records at or above this priority when set
	MinPriority *Priority

	// Filter by category
	Type string

	// Pagination
	Page     int
	PageSize int
}

// NewFilter creates a new Filter with default values
func NewFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
	}
}

// ImportantOnly restricts the filter to IMPORTANT and CRITICAL records
func (f Filter) ImportantOnly() Filter {
	p := PriorityImportant
	f.MinPriority = &p
	return f
}

// Offset returns the offset for pagination
func (f Filter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
