package directory

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/praktis/backend/internal/domain/shared"
)

// ClientType represents the constitution of a client
type ClientType string

const (
	ClientTypeIndividual  ClientType = "INDIVIDUAL"
	ClientTypeFirm        ClientType = "FIRM"
	ClientTypeCompany     ClientType = "COMPANY"
	ClientTypeTrust       ClientType = "TRUST"
	ClientTypeHUF         ClientType = "HUF"
	ClientTypeOther       ClientType = "OTHER"
	clientTypeUnspecified ClientType = ""
)

// Client represents a customer of the practice, owned by one admin.
// Staff only see clients linked through their assigned tasks.
type Client struct {
	shared.OwnedAggregateRoot
	Name            string
	Code            string
	Type            ClientType
	PAN             string
	GSTIN           string
	Mobile          string
	AlternateMobile string
	Email           string
	Address         string
	Notes           string
	Active          bool
}

// NewClient creates a new client owned by the given admin
func NewClient(ownerID uuid.UUID, name string, clientType ClientType, actorID uuid.UUID) (*Client, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER_ID", "Owner ID cannot be empty")
	}
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateClientType(clientType); err != nil {
		return nil, err
	}

	client := &Client{
		OwnedAggregateRoot: shared.NewOwnedAggregateRootWithCreator(ownerID, actorID),
		Name:               strings.TrimSpace(name),
		Type:               clientType,
		Active:             true,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client, actorID))

	return client, nil
}

// SetCode sets the client's internal file code, stored uppercase
func (c *Client) SetCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code != "" && len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}

	c.Code = code
	c.touch()
	return nil
}

// SetPAN sets the client's PAN, stored uppercase
func (c *Client) SetPAN(pan string) error {
	pan = strings.ToUpper(strings.TrimSpace(pan))
	if pan != "" && !panRegex.MatchString(pan) {
		return shared.NewDomainError("INVALID_PAN", "PAN format is invalid")
	}

	c.PAN = pan
	c.touch()
	return nil
}

// SetGSTIN sets the client's GSTIN, stored uppercase
func (c *Client) SetGSTIN(gstin string) error {
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if gstin != "" && len(gstin) != 15 {
		return shared.NewDomainError("INVALID_GSTIN", "GSTIN must be 15 characters")
	}

	c.GSTIN = gstin
	c.touch()
	return nil
}

// SetContact sets mobile, alternate mobile and email
func (c *Client) SetContact(mobile, alternateMobile, email string) error {
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if !emailRegex.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
		}
	}
	if len(mobile) > 20 || len(alternateMobile) > 20 {
		return shared.NewDomainError("INVALID_MOBILE", "Mobile number cannot exceed 20 characters")
	}

	c.Mobile = strings.TrimSpace(mobile)
	c.AlternateMobile = strings.TrimSpace(alternateMobile)
	c.Email = email
	c.touch()
	return nil
}

// SetAddress sets the postal address
func (c *Client) SetAddress(address string) {
	c.Address = strings.TrimSpace(address)
	c.touch()
}

// SetNotes sets free-form notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// Rename changes the client's display name
func (c *Client) Rename(name string) error {
	if err := validateClientName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.touch()
	return nil
}

// Retire soft-deletes the client. Tasks keep referencing it; the record
// simply drops out of active listings until reactivated.
func (c *Client) Retire(actorID uuid.UUID) error {
	if !c.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Client is already inactive")
	}

	c.Active = false
	c.touch()

	c.AddDomainEvent(NewClientRetiredEvent(c, actorID))

	return nil
}

// Reactivate restores a retired client to active listings
func (c *Client) Reactivate(actorID uuid.UUID) error {
	if c.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Client is already active")
	}

	c.Active = true
	c.touch()

	c.AddDomainEvent(NewClientReactivatedEvent(c, actorID))

	return nil
}

// CanPermanentlyDelete reports whether hard deletion is allowed.
// The client must be retired first and must have no non-archived tasks.
func (c *Client) CanPermanentlyDelete(nonArchivedTasks int64) error {
	if c.Active {
		return shared.NewDomainError("CLIENT_ACTIVE", "Client must be retired before deletion")
	}
	if nonArchivedTasks > 0 {
		return shared.ErrHasActiveWork
	}
	return nil
}

func (c *Client) touch() {
	c.Touch()
	c.IncrementVersion()
}

// Validation

var (
	panRegex   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validateClientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

func validateClientType(clientType ClientType) error {
	switch clientType {
	case ClientTypeIndividual, ClientTypeFirm, ClientTypeCompany,
		ClientTypeTrust, ClientTypeHUF, ClientTypeOther, clientTypeUnspecified:
		return nil
	default:
		return shared.NewDomainError("INVALID_CLIENT_TYPE", "Unknown client type")
	}
}
