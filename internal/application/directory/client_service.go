package directory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
)

// ClientService handles the client directory. Clients are admin-owned;
// staff see only the clients reachable through their assigned tasks.
type ClientService struct {
	clientRepo directory.ClientRepository
	taskRepo   task.TaskRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewClientService creates a new client directory service
func NewClientService(
	clientRepo directory.ClientRepository,
	taskRepo task.TaskRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		taskRepo:   taskRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create creates a new client in the acting admin's practice
func (s *ClientService) Create(ctx context.Context, actor identity.Actor, input CreateClientInput) (*ClientResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	client, err := directory.NewClient(actor.AdminID, input.Name, input.Type, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.applyDetails(client, input.Code, input.PAN, input.GSTIN, input.Mobile, input.AlternateMobile, input.Email, input.Address, input.Notes); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		s.logger.Error("Failed to create client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create client")
	}
	s.publishDomainEvents(ctx, client)

	s.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("name", client.Name))

	resp := toClientResponse(client)
	return &resp, nil
}

// Update updates a client's details
func (s *ClientService) Update(ctx context.Context, actor identity.Actor, clientID uuid.UUID, input UpdateClientInput) (*ClientResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	client, err := s.clientRepo.FindByIDForOwner(ctx, actor.AdminID, clientID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if input.Name != "" && input.Name != client.Name {
		if err := client.Rename(input.Name); err != nil {
			return nil, err
		}
	}
	if err := s.applyDetails(client, input.Code, input.PAN, input.GSTIN, input.Mobile, input.AlternateMobile, input.Email, input.Address, input.Notes); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		s.logger.Error("Failed to update client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update client")
	}

	resp := toClientResponse(client)
	return &resp, nil
}

// Get returns one client. Staff may only fetch clients linked to their tasks.
func (s *ClientService) Get(ctx context.Context, actor identity.Actor, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForOwner(ctx, actor.AdminID, clientID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if !actor.IsAdmin() {
		visible, err := s.visibleToStaff(ctx, actor.ID, clientID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, shared.ErrNotFound
		}
	}

	resp := toClientResponse(client)
	return &resp, nil
}

// List returns a page of clients. Admins see their whole directory; staff
// see only clients reachable through their assigned tasks.
func (s *ClientService) List(ctx context.Context, actor identity.Actor, input ListClientsInput) (*ClientListResult, error) {
	if !actor.IsAdmin() {
		return s.listForStaff(ctx, actor)
	}

	filter := directory.NewClientFilter().
		WithKeyword(input.Keyword).
		WithPagination(input.Page, input.PageSize)
	filter.Active = input.Active
	filter.Type = input.Type

	clients, total, err := s.clientRepo.FindAllForOwner(ctx, actor.AdminID, filter)
	if err != nil {
		s.logger.Error("Failed to list clients", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list clients")
	}

	return &ClientListResult{
		Clients:    toClientResponses(clients),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}

// Retire marks a client inactive. Existing tasks are untouched.
func (s *ClientService) Retire(ctx context.Context, actor identity.Actor, clientID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	client, err := s.clientRepo.FindByIDForOwner(ctx, actor.AdminID, clientID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := client.Retire(actor.ID); err != nil {
		return err
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		s.logger.Error("Failed to retire client", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to retire client")
	}
	s.publishDomainEvents(ctx, client)

	s.logger.Info("Client retired", zap.String("client_id", client.ID.String()))
	return nil
}

// Reactivate re-enables a retired client
func (s *ClientService) Reactivate(ctx context.Context, actor identity.Actor, clientID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	client, err := s.clientRepo.FindByIDForOwner(ctx, actor.AdminID, clientID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := client.Reactivate(actor.ID); err != nil {
		return err
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		s.logger.Error("Failed to reactivate client", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reactivate client")
	}
	s.publishDomainEvents(ctx, client)

	s.logger.Info("Client reactivated", zap.String("client_id", client.ID.String()))
	return nil
}

// PermanentlyDelete hard-deletes a retired client with no active work,
// cascading deletion of the client's archived tasks.
func (s *ClientService) PermanentlyDelete(ctx context.Context, actor identity.Actor, clientID uuid.UUID) (*DeleteClientResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	client, err := s.clientRepo.FindByIDForOwner(ctx, actor.AdminID, clientID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	nonArchived, err := s.taskRepo.CountNonArchivedForClient(ctx, clientID)
	if err != nil {
		s.logger.Error("Failed to count client tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check client tasks")
	}

	if err := client.CanPermanentlyDelete(nonArchived); err != nil {
		return nil, err
	}

	deletedTasks, err := s.taskRepo.DeleteArchivedForClient(ctx, clientID)
	if err != nil {
		s.logger.Error("Failed to delete client's archived tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to delete client tasks")
	}

	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		s.logger.Error("Failed to delete client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to delete client")
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, directory.NewClientDeletedEvent(client, actor.ID, deletedTasks))
	}

	s.logger.Info("Client permanently deleted",
		zap.String("client_id", clientID.String()),
		zap.Int64("deleted_tasks", deletedTasks))

	return &DeleteClientResult{DeletedTasks: deletedTasks}, nil
}

func (s *ClientService) listForStaff(ctx context.Context, actor identity.Actor) (*ClientListResult, error) {
	ids, err := s.taskRepo.ClientIDsForAssignee(ctx, actor.ID)
	if err != nil {
		s.logger.Error("Failed to resolve staff client links", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list clients")
	}

	clients, err := s.clientRepo.FindByIDs(ctx, actor.AdminID, ids)
	if err != nil {
		s.logger.Error("Failed to list staff clients", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list clients")
	}

	return &ClientListResult{
		Clients:    toClientResponses(clients),
		TotalCount: int64(len(clients)),
		Page:       1,
		PageSize:   len(clients),
	}, nil
}

func (s *ClientService) visibleToStaff(ctx context.Context, staffID, clientID uuid.UUID) (bool, error) {
	ids, err := s.taskRepo.ClientIDsForAssignee(ctx, staffID)
	if err != nil {
		s.logger.Error("Failed to resolve staff client links", zap.Error(err))
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to check client visibility")
	}
	for _, id := range ids {
		if id == clientID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ClientService) applyDetails(client *directory.Client, code, pan, gstin, mobile, alternateMobile, email, address, notes string) error {
	if err := client.SetCode(code); err != nil {
		return err
	}
	if err := client.SetPAN(pan); err != nil {
		return err
	}
	if err := client.SetGSTIN(gstin); err != nil {
		return err
	}
	if err := client.SetContact(mobile, alternateMobile, email); err != nil {
		return err
	}
	client.SetAddress(address)
	client.SetNotes(notes)
	return nil
}

func (s *ClientService) publishDomainEvents(ctx context.Context, client *directory.Client) {
	if s.publisher == nil {
		return
	}
	events := client.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	client.ClearDomainEvents()
}
