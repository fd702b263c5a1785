package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/events"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/numbering"
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const msgPriceRequired = "Cena musi być większa od zera"

type RequisitionServiceInterface interface {
	GetRequisitions(ctx context.Context, filter types.Filter) ([]*dto.RequisitionDTO, uint64, error)
	FindRequisition(ctx context.Context, id uint64) (*dto.RequisitionDTO, error)
	CreateRequisition(ctx context.Context, payload dto.CreateRequisitionDTO) (*dto.RequisitionDTO, error)
	UpdateRequisition(ctx context.Context, id uint64, payload dto.UpdateRequisitionDTO, rawBody []byte) (*dto.RequisitionDTO, error)
	DeleteRequisition(ctx context.Context, id uint64) error
	ValidateRequisition(ctx context.Context, payload dto.CreateRequisitionDTO) (*dto.ValidationResultDTO, error)

	GetItems(ctx context.Context, filter types.Filter) ([]*entities.RequisitionItem, uint64, error)
	FindItem(ctx context.Context, id uint64) (*entities.RequisitionItem, error)
	CreateItem(ctx context.Context, payload dto.CreateRequisitionItemDTO) (*entities.RequisitionItem, error)
	UpdateItem(ctx context.Context, id uint64, payload dto.UpdateRequisitionItemDTO, rawBody []byte) (*entities.RequisitionItem, error)
	DeleteItem(ctx context.Context, id uint64) error
}

type RequisitionService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.RequisitionRepositoryInterface
	lineRepo  repositories.RequisitionItemRepositoryInterface
	itemRepo  repositories.ItemRepositoryInterface
	sequence  SequenceServiceInterface
	publisher EventPublisher
	logger    *zap.Logger
}

func NewRequisitionService(
	txManager repositories.TxManagerInterface,
	repo repositories.RequisitionRepositoryInterface,
	lineRepo repositories.RequisitionItemRepositoryInterface,
	itemRepo repositories.ItemRepositoryInterface,
	sequence SequenceServiceInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) RequisitionServiceInterface {
	return &RequisitionService{
		txManager: txManager,
		repo:      repo,
		lineRepo:  lineRepo,
		itemRepo:  itemRepo,
		sequence:  sequence,
		publisher: publisher,
		logger:    logger,
	}
}

// ResolveLinePrice: явная цена позиции, иначе цена товара. Итог должен быть больше нуля.
func ResolveLinePrice(explicit decimal.NullDecimal, item *entities.Item) (decimal.Decimal, bool) {
	price := explicit
	if !price.Valid && item != nil {
		price = item.Price
	}
	if !price.Valid || !price.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return price.Decimal, true
}

func (s *RequisitionService) GetRequisitions(ctx context.Context, filter types.Filter) ([]*dto.RequisitionDTO, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.GetAll(ctx, filter, scope)
	if err != nil {
		return nil, 0, err
	}
	result := make([]*dto.RequisitionDTO, 0, len(list))
	for _, r := range list {
		result = append(result, dto.NewRequisitionDTO(r))
	}
	return result, total, nil
}

func (s *RequisitionService) FindRequisition(ctx context.Context, id uint64) (*dto.RequisitionDTO, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, nil, id, scope)
	if err != nil {
		return nil, err
	}
	return dto.NewRequisitionDTO(r), nil
}

// checkLines проверяет позиции и возвращает их с итоговыми ценами.
func (s *RequisitionService) checkLines(ctx context.Context, tx pgx.Tx, lines []dto.CreateRequisitionItemLineDTO, errs fieldErrors) []entities.RequisitionItem {
	result := make([]entities.RequisitionItem, 0, len(lines))
	for i, line := range lines {
		prefix := fmt.Sprintf("items[%d]", i)
		if !line.Quantity.IsPositive() {
			errs.add(prefix+".quantity", "Ilość musi być większa od zera")
		}
		item, err := s.itemRepo.FindByID(ctx, tx, line.ItemID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				errs.add(prefix+".item", "Nie znaleziono towaru")
				continue
			}
			s.logger.Error("Не удалось загрузить товар", zap.Uint64("itemID", line.ItemID), zap.Error(err))
			errs.add(prefix+".item", "Nie udało się sprawdzić towaru")
			continue
		}
		price, ok := ResolveLinePrice(line.Price, item)
		if !ok {
			errs.add(prefix+".price", msgPriceRequired)
			continue
		}
		result = append(result, entities.RequisitionItem{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    price,
			Comment:  line.Comment,
		})
	}
	return result
}

func checkRequisitionHeader(payload dto.CreateRequisitionDTO, errs fieldErrors) {
	if payload.Deadline.Time().IsZero() {
		errs.add("deadline", "Termin jest wymagany")
	}
	if payload.RequisitionType != "" && !constants.IsOneOf(payload.RequisitionType, constants.RequisitionTypes) {
		errs.add("requisition_type", "Nieprawidłowy typ zapotrzebowania")
	}
	if payload.Status != "" && !constants.IsOneOf(payload.Status, constants.RequisitionStatuses) {
		errs.add("status", "Nieprawidłowy status")
	}
}

// checkRequisitionState проверяет заявку после PATCH: null в теле обнуляет поле.
func checkRequisitionState(r *entities.Requisition) error {
	errs := fieldErrors{}
	if r.ProjectID == 0 {
		errs.add("project", "Projekt jest wymagany")
	}
	if r.Deadline.IsZero() {
		errs.add("deadline", "Termin jest wymagany")
	}
	if !constants.IsOneOf(r.RequisitionType, constants.RequisitionTypes) {
		errs.add("requisition_type", "Nieprawidłowy typ zapotrzebowania")
	}
	if !constants.IsOneOf(r.Status, constants.RequisitionStatuses) {
		errs.add("status", "Nieprawidłowy status")
	}
	return errs.err()
}

func (s *RequisitionService) ValidateRequisition(ctx context.Context, payload dto.CreateRequisitionDTO) (*dto.ValidationResultDTO, error) {
	errs := fieldErrors{}
	checkRequisitionHeader(payload, errs)
	s.checkLines(ctx, nil, payload.Items, errs)
	return errs.result(), nil
}

func (s *RequisitionService) CreateRequisition(ctx context.Context, payload dto.CreateRequisitionDTO) (*dto.RequisitionDTO, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var created *entities.Requisition
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		errs := fieldErrors{}
		checkRequisitionHeader(payload, errs)
		lines := s.checkLines(ctx, tx, payload.Items, errs)
		if err := errs.err(); err != nil {
			return err
		}

		number, err := s.sequence.Next(ctx, tx, numbering.Requisition, time.Now())
		if err != nil {
			return err
		}
		requisition := entities.Requisition{
			Number:          number,
			ProjectID:       payload.ProjectID,
			RequisitionType: payload.RequisitionType,
			Status:          payload.Status,
			Deadline:        payload.Deadline.Time(),
			Comment:         payload.Comment,
			CreatedBy:       actor.UserID,
		}
		if requisition.RequisitionType == "" {
			requisition.RequisitionType = constants.RequisitionTypeMaterial
		}
		if requisition.Status == "" {
			requisition.Status = constants.RequisitionStatusToAccept
		}
		id, err := s.repo.Create(ctx, tx, requisition)
		if err != nil {
			return err
		}
		for _, line := range lines {
			line.RequisitionID = id
			if _, err := s.lineRepo.Create(ctx, tx, line); err != nil {
				return err
			}
		}
		created, err = s.repo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать заявку", err)
	}

	s.logger.Info("Заявка создана",
		zap.Uint64("id", created.ID),
		zap.String("number", created.Number),
		zap.Uint64("userID", actor.UserID),
	)
	s.publisher.Publish(ctx, events.RequisitionCreatedEvent{RequisitionID: created.ID, Number: created.Number, ActorID: actor.UserID})
	return dto.NewRequisitionDTO(created), nil
}

func (s *RequisitionService) UpdateRequisition(ctx context.Context, id uint64, payload dto.UpdateRequisitionDTO, rawBody []byte) (*dto.RequisitionDTO, error) {
	actor, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	var updated *entities.Requisition
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := requireModify(s.logger, actor, current, authz.ResourceRequisitions); err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		if err := checkRequisitionState(current); err != nil {
			return err
		}
		current.UpdatedBy = null.Int64From(int64(actor.UserID))
		if err := s.repo.Update(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.repo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить заявку", err)
	}
	return dto.NewRequisitionDTO(updated), nil
}

func (s *RequisitionService) DeleteRequisition(ctx context.Context, id uint64) error {
	actor, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return err
	}
	current, err := s.repo.FindByID(ctx, nil, id, scope)
	if err != nil {
		return err
	}
	if err := requireModify(s.logger, actor, current, authz.ResourceRequisitions); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Заявка удалена", zap.Uint64("id", id), zap.String("number", current.Number), zap.Uint64("userID", actor.UserID))
	return nil
}

func (s *RequisitionService) GetItems(ctx context.Context, filter types.Filter) ([]*entities.RequisitionItem, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, 0, err
	}
	return s.lineRepo.GetAll(ctx, filter, scope)
}

func (s *RequisitionService) FindItem(ctx context.Context, id uint64) (*entities.RequisitionItem, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	return s.lineRepo.FindByID(ctx, nil, id, scope)
}

// parentForWrite загружает заявку и проверяет право на её изменение.
func (s *RequisitionService) parentForWrite(ctx context.Context, tx pgx.Tx, requisitionID uint64) error {
	actor, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return err
	}
	parent, err := s.repo.FindByID(ctx, tx, requisitionID, scope)
	if err != nil {
		return err
	}
	return requireModify(s.logger, actor, parent, authz.ResourceRequisitions)
}

func (s *RequisitionService) CreateItem(ctx context.Context, payload dto.CreateRequisitionItemDTO) (*entities.RequisitionItem, error) {
	var created *entities.RequisitionItem
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.parentForWrite(ctx, tx, payload.RequisitionID); err != nil {
			return err
		}
		errs := fieldErrors{}
		lines := s.checkLines(ctx, tx, []dto.CreateRequisitionItemLineDTO{payload.CreateRequisitionItemLineDTO}, errs)
		if len(errs) > 0 {
			// у одиночной позиции поля без префикса items[0]
			plain := fieldErrors{}
			for field, msg := range errs {
				plain.add(field[len("items[0]."):], msg)
			}
			return plain.err()
		}
		line := lines[0]
		line.RequisitionID = payload.RequisitionID
		id, err := s.lineRepo.Create(ctx, tx, line)
		if err != nil {
			return err
		}
		created, err = s.lineRepo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось добавить позицию заявки", err)
	}
	return created, nil
}

func (s *RequisitionService) UpdateItem(ctx context.Context, id uint64, payload dto.UpdateRequisitionItemDTO, rawBody []byte) (*entities.RequisitionItem, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	var updated *entities.RequisitionItem
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.lineRepo.FindByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := s.parentForWrite(ctx, tx, current.RequisitionID); err != nil {
			return err
		}
		explicit := decimal.NewNullDecimal(current.Price)
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		// null в price возвращает цену товара
		if bodyHasKey(rawBody, "price") {
			explicit = payload.Price
		}
		if !current.Quantity.IsPositive() {
			return badRequest("quantity", "Ilość musi być większa od zera")
		}
		item, err := s.itemRepo.FindByID(ctx, tx, current.ItemID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return badRequest("item", "Nie znaleziono towaru")
			}
			return err
		}
		price, ok := ResolveLinePrice(explicit, item)
		if !ok {
			return badRequest("price", msgPriceRequired)
		}
		current.Price = price
		if err := s.lineRepo.Update(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.lineRepo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить позицию заявки", err)
	}
	return updated, nil
}

func (s *RequisitionService) DeleteItem(ctx context.Context, id uint64) error {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.lineRepo.FindByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := s.parentForWrite(ctx, tx, current.RequisitionID); err != nil {
			return err
		}
		return s.lineRepo.Delete(ctx, tx, id)
	})
}
