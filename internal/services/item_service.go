package services

import (
	"context"
	"time"

	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/numbering"
	"solarforyou/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ItemServiceInterface interface {
	GetItems(ctx context.Context, filter types.Filter) ([]*entities.Item, uint64, error)
	FindItem(ctx context.Context, id uint64) (*entities.Item, error)
	CreateItem(ctx context.Context, payload dto.CreateItemDTO) (*entities.Item, error)
	UpdateItem(ctx context.Context, id uint64, payload dto.UpdateItemDTO, rawBody []byte) (*entities.Item, error)
	DeleteItem(ctx context.Context, id uint64) error
}

type ItemService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.ItemRepositoryInterface
	sequence  SequenceServiceInterface
	logger    *zap.Logger
}

func NewItemService(
	txManager repositories.TxManagerInterface,
	repo repositories.ItemRepositoryInterface,
	sequence SequenceServiceInterface,
	logger *zap.Logger,
) ItemServiceInterface {
	return &ItemService{txManager: txManager, repo: repo, sequence: sequence, logger: logger}
}

func (s *ItemService) GetItems(ctx context.Context, filter types.Filter) ([]*entities.Item, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *ItemService) FindItem(ctx context.Context, id uint64) (*entities.Item, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *ItemService) CreateItem(ctx context.Context, payload dto.CreateItemDTO) (*entities.Item, error) {
	if payload.Price.Valid && payload.Price.Decimal.IsNegative() {
		return nil, badRequest("price", "Cena nie może być ujemna")
	}
	var created *entities.Item
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		index, err := s.sequence.Next(ctx, tx, numbering.ItemIndex, time.Now())
		if err != nil {
			return err
		}
		id, err := s.repo.Create(ctx, tx, entities.Item{
			Index:       index,
			Name:        payload.Name,
			Unit:        payload.Unit,
			Price:       payload.Price,
			Description: payload.Description,
		})
		if err != nil {
			return err
		}
		created, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать товар", err)
	}
	s.logger.Info("Товар создан", zap.Uint64("id", created.ID), zap.String("index", created.Index))
	return created, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, id uint64, payload dto.UpdateItemDTO, rawBody []byte) (*entities.Item, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := patchEntity(current, payload, rawBody); err != nil {
		return nil, err
	}
	if current.Price.Valid && current.Price.Decimal.IsNegative() {
		return nil, badRequest("price", "Cena nie może być ujemna")
	}
	if err := s.repo.Update(ctx, nil, *current); err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить товар", err)
	}
	return s.repo.FindByID(ctx, nil, id)
}

func (s *ItemService) DeleteItem(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, nil, id)
}
