package businessflow

import (
	"context"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// ClientFlow handles the photographer's client records
type ClientFlow interface {
	CreateClient(ctx context.Context, photographerID uint, request *dto.CreateClientRequest) (*dto.ClientDTO, error)
	UpdateClient(ctx context.Context, photographerID, clientID uint, request *dto.UpdateClientRequest) (*dto.ClientDTO, error)
	GetClient(ctx context.Context, photographerID, clientID uint) (*dto.ClientDTO, error)
	ListClients(ctx context.Context, photographerID uint, pagination *dto.PaginationQuery) ([]dto.ClientDTO, error)
}

// ClientFlowImpl implements the client record business flow
type ClientFlowImpl struct {
	clientRepo repository.ClientRepository
	db         *gorm.DB
}

// NewClientFlow creates a new client flow instance
func NewClientFlow(clientRepo repository.ClientRepository, db *gorm.DB) ClientFlow {
	return &ClientFlowImpl{
		clientRepo: clientRepo,
		db:         db,
	}
}

// CreateClient registers a client record for the photographer
func (cf *ClientFlowImpl) CreateClient(ctx context.Context, photographerID uint, request *dto.CreateClientRequest) (*dto.ClientDTO, error) {
	client := &models.Client{
		PhotographerID: photographerID,
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		Email:          request.Email,
		Phone:          request.Phone,
		Address:        request.Address,
		Notes:          request.Notes,
	}

	if err := cf.clientRepo.Save(ctx, client); err != nil {
		return nil, NewBusinessError("CLIENT_CREATION_FAILED", "Client creation failed", err)
	}

	out := ToClientDTO(*client)
	return &out, nil
}

// UpdateClient edits a client record the photographer owns
func (cf *ClientFlowImpl) UpdateClient(ctx context.Context, photographerID, clientID uint, request *dto.UpdateClientRequest) (*dto.ClientDTO, error) {
	client, err := cf.clientRepo.ByIDForPhotographer(ctx, clientID, photographerID)
	if err != nil {
		return nil, NewBusinessError("CLIENT_UPDATE_FAILED", "Client update failed", err)
	}
	if client == nil {
		return nil, NewBusinessError("CLIENT_UPDATE_FAILED", "Client update failed", ErrClientNotFound)
	}

	if request.FirstName != nil {
		client.FirstName = *request.FirstName
	}
	if request.LastName != nil {
		client.LastName = *request.LastName
	}
	if request.Email != nil {
		client.Email = request.Email
	}
	if request.Phone != nil {
		client.Phone = request.Phone
	}
	if request.Address != nil {
		client.Address = request.Address
	}
	if request.Notes != nil {
		client.Notes = request.Notes
	}
	client.UpdatedAt = utils.UTCNow()

	if err := cf.clientRepo.Update(ctx, client); err != nil {
		return nil, NewBusinessError("CLIENT_UPDATE_FAILED", "Client update failed", err)
	}

	out := ToClientDTO(*client)
	return &out, nil
}

// GetClient returns one client record
func (cf *ClientFlowImpl) GetClient(ctx context.Context, photographerID, clientID uint) (*dto.ClientDTO, error) {
	client, err := cf.clientRepo.ByIDForPhotographer(ctx, clientID, photographerID)
	if err != nil {
		return nil, NewBusinessError("CLIENT_FETCH_FAILED", "Client fetch failed", err)
	}
	if client == nil {
		return nil, NewBusinessError("CLIENT_FETCH_FAILED", "Client fetch failed", ErrClientNotFound)
	}

	out := ToClientDTO(*client)
	return &out, nil
}

// ListClients returns a page of the photographer's clients
func (cf *ClientFlowImpl) ListClients(ctx context.Context, photographerID uint, pagination *dto.PaginationQuery) ([]dto.ClientDTO, error) {
	pagination.Normalize()

	clients, err := cf.clientRepo.ListByPhotographer(ctx, photographerID, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, NewBusinessError("CLIENT_LIST_FAILED", "Client listing failed", err)
	}

	out := make([]dto.ClientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, ToClientDTO(*c))
	}
	return out, nil
}
