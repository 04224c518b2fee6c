package directory

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// Create creates a new client
	Create(ctx context.Context, client *Client) error

	// Update updates an existing client
	Update(ctx context.Context, client *Client) error

	// Delete hard-deletes a client by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a client by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByIDForOwner finds a client by ID scoped to a practice
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Client, error)

	// FindAllForOwner returns a practice's clients with search and pagination
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter ClientFilter) ([]*Client, int64, error)

	// FindByIDs returns clients matching the given IDs, scoped to a practice.
	// Used for the staff view, which is restricted to clients reachable
	// through assigned tasks.
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*Client, error)

	// FindInactiveForOwner returns retired clients of a practice
	FindInactiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]*Client, error)

	// CountForOwner returns client counts for a practice, split by active flag
	CountForOwner(ctx context.Context, ownerID uuid.UUID) (active int64, inactive int64, err error)
}

// ClientFilter contains filter options for querying clients
type ClientFilter struct {
	// Search keyword matched against name, code, PAN, GSTIN and mobile
	Keyword string

	// Filter by active flag
	Active *bool

	// Filter by client type
	Type *ClientType

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewClientFilter creates a new ClientFilter with default values
func NewClientFilter() ClientFilter {
	return ClientFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "name",
		SortOrder: "asc",
	}
}

// WithKeyword sets the search keyword
func (f ClientFilter) WithKeyword(keyword string) ClientFilter {
	f.Keyword = keyword
	return f
}

// WithActive sets the active flag filter
func (f ClientFilter) WithActive(active bool) ClientFilter {
	f.Active = &active
	return f
}

// WithType sets the client type filter
func (f ClientFilter) WithType(clientType ClientType) ClientFilter {
	f.Type = &clientType
	return f
}

// WithPagination sets pagination parameters
func (f ClientFilter) WithPagination(page, pageSize int) ClientFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f ClientFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f ClientFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
