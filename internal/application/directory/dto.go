package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/praktis/backend/internal/domain/directory"
)

// CreateClientInput contains the input for creating a client
type CreateClientInput struct {
	Name            string
	Type            directory.ClientType
	Code            string
	PAN             string
	GSTIN           string
	Mobile          string
	AlternateMobile string
	Email           string
	Address         string
	Notes           string
}

// UpdateClientInput contains the input for updating a client
type UpdateClientInput struct {
	Name            string
	Code            string
	PAN             string
	GSTIN           string
	Mobile          string
	AlternateMobile string
	Email           string
	Address         string
	Notes           string
}

// ListClientsInput contains filter options for listing clients
type ListClientsInput struct {
	Keyword  string
	Active   *bool
	Type     *directory.ClientType
	Page     int
	PageSize int
}

// ClientResponse is the outward representation of a client
type ClientResponse struct {
	ID              uuid.UUID
	Name            string
	Code            string
	Type            directory.ClientType
	PAN             string
	GSTIN           string
	Mobile          string
	AlternateMobile string
	Email           string
	Address         string
	Notes           string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ClientListResult contains a page of clients
type ClientListResult struct {
	Clients    []ClientResponse
	TotalCount int64
	Page       int
	PageSize   int
}

// DeleteClientResult reports the outcome of a hard delete
type DeleteClientResult struct {
	DeletedTasks int64
}

func toClientResponse(c *directory.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		Name:            c.Name,
		Code:            c.Code,
		Type:            c.Type,
		PAN:             c.PAN,
		GSTIN:           c.GSTIN,
		Mobile:          c.Mobile,
		AlternateMobile: c.AlternateMobile,
		Email:           c.Email,
		Address:         c.Address,
		Notes:           c.Notes,
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toClientResponses(clients []*directory.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out
}
