package services

import (
	"context"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ClientServiceInterface interface {
	GetClients(ctx context.Context, filter types.Filter) ([]*entities.Client, uint64, error)
	FindClient(ctx context.Context, id uint64) (*entities.Client, error)
	CreateClient(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error)
	UpdateClient(ctx context.Context, id uint64, payload dto.UpdateClientDTO, rawBody []byte) (*entities.Client, error)
	DeleteClient(ctx context.Context, id uint64) error
}

type ClientService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.ClientRepositoryInterface
	logger    *zap.Logger
}

func NewClientService(txManager repositories.TxManagerInterface, repo repositories.ClientRepositoryInterface, logger *zap.Logger) ClientServiceInterface {
	return &ClientService{txManager: txManager, repo: repo, logger: logger}
}

func (s *ClientService) GetClients(ctx context.Context, filter types.Filter) ([]*entities.Client, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *ClientService) FindClient(ctx context.Context, id uint64) (*entities.Client, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *ClientService) CreateClient(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	client := entities.Client{
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Address:   payload.Address,
		UserID:    payload.UserID,
		CreatedBy: null.Int64From(int64(actor.UserID)),
	}

	var created *entities.Client
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.repo.Create(ctx, tx, client)
		if err != nil {
			return err
		}
		created, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать клиента", err)
	}
	return created, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id uint64, payload dto.UpdateClientDTO, rawBody []byte) (*entities.Client, error) {
	var updated *entities.Client
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить клиента", err)
	}
	return updated, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, nil, id)
}
