package services

import (
	"context"
	"fmt"
	"time"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/events"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	"solarforyou/pkg/numbering"
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HRRequisitionServiceInterface interface {
	GetRequisitions(ctx context.Context, filter types.Filter) ([]*dto.HRRequisitionDTO, uint64, error)
	FindRequisition(ctx context.Context, id uint64) (*dto.HRRequisitionDTO, error)
	CreateRequisition(ctx context.Context, payload dto.CreateHRRequisitionDTO) (*dto.HRRequisitionDTO, error)
	UpdateRequisition(ctx context.Context, id uint64, payload dto.UpdateHRRequisitionDTO, rawBody []byte) (*dto.HRRequisitionDTO, error)
	DeleteRequisition(ctx context.Context, id uint64) error
	ValidateRequisition(ctx context.Context, payload dto.CreateHRRequisitionDTO) (*dto.ValidationResultDTO, error)

	GetPositions(ctx context.Context, filter types.Filter) ([]*entities.HRRequisitionPosition, uint64, error)
	FindPosition(ctx context.Context, id uint64) (*entities.HRRequisitionPosition, error)
	CreatePosition(ctx context.Context, payload dto.CreateHRPositionDTO) (*entities.HRRequisitionPosition, error)
	UpdatePosition(ctx context.Context, id uint64, payload dto.UpdateHRPositionDTO, rawBody []byte) (*entities.HRRequisitionPosition, error)
	DeletePosition(ctx context.Context, id uint64) error
}

type HRRequisitionService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.HRRequisitionRepositoryInterface
	sequence  SequenceServiceInterface
	publisher EventPublisher
	logger    *zap.Logger
}

func NewHRRequisitionService(
	txManager repositories.TxManagerInterface,
	repo repositories.HRRequisitionRepositoryInterface,
	sequence SequenceServiceInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) HRRequisitionServiceInterface {
	return &HRRequisitionService{
		txManager: txManager,
		repo:      repo,
		sequence:  sequence,
		publisher: publisher,
		logger:    logger,
	}
}

func checkHRRequisition(payload dto.CreateHRRequisitionDTO, errs fieldErrors) {
	if payload.Deadline.IsZero() {
		errs.add("deadline", "Termin jest wymagany")
	}
	if payload.Status != "" && !constants.IsOneOf(payload.Status, constants.RequisitionStatuses) {
		errs.add("status", "Nieprawidłowy status")
	}
	for i, p := range payload.Positions {
		checkHRPosition(p, fmt.Sprintf("positions[%d].", i), errs)
	}
}

func checkHRPosition(p dto.CreateHRPositionLineDTO, prefix string, errs fieldErrors) {
	if !constants.IsOneOf(p.Position, constants.HRPositions) {
		errs.add(prefix+"position", "Nieprawidłowe stanowisko")
	}
	if p.Quantity <= 0 {
		errs.add(prefix+"quantity", "Ilość musi być większa od zera")
	}
	if p.Experience != "" && !constants.IsOneOf(p.Experience, constants.HRExperience) {
		errs.add(prefix+"experience", "Nieprawidłowe doświadczenie")
	}
}

func experienceOrNone(experience string) string {
	if experience == "" {
		return constants.HRExperienceNone
	}
	return experience
}

func (s *HRRequisitionService) GetRequisitions(ctx context.Context, filter types.Filter) ([]*dto.HRRequisitionDTO, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.GetAll(ctx, filter, scope)
	if err != nil {
		return nil, 0, err
	}
	result := make([]*dto.HRRequisitionDTO, 0, len(list))
	for _, r := range list {
		result = append(result, dto.NewHRRequisitionDTO(r))
	}
	return result, total, nil
}

func (s *HRRequisitionService) FindRequisition(ctx context.Context, id uint64) (*dto.HRRequisitionDTO, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, nil, id, scope)
	if err != nil {
		return nil, err
	}
	return dto.NewHRRequisitionDTO(r), nil
}

func (s *HRRequisitionService) ValidateRequisition(ctx context.Context, payload dto.CreateHRRequisitionDTO) (*dto.ValidationResultDTO, error) {
	errs := fieldErrors{}
	checkHRRequisition(payload, errs)
	return errs.result(), nil
}

func (s *HRRequisitionService) CreateRequisition(ctx context.Context, payload dto.CreateHRRequisitionDTO) (*dto.HRRequisitionDTO, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	errs := fieldErrors{}
	checkHRRequisition(payload, errs)
	if err := errs.err(); err != nil {
		return nil, err
	}

	var created *entities.HRRequisition
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		number, err := s.sequence.Next(ctx, tx, numbering.HRRequisition, time.Now())
		if err != nil {
			return err
		}
		requisition := entities.HRRequisition{
			Number:              number,
			ProjectID:           payload.ProjectID,
			Status:              payload.Status,
			Deadline:            payload.Deadline.Time(),
			SpecialRequirements: payload.SpecialRequirements,
			Comment:             payload.Comment,
			CreatedBy:           actor.UserID,
		}
		if requisition.Status == "" {
			requisition.Status = constants.RequisitionStatusToAccept
		}
		id, err := s.repo.Create(ctx, tx, requisition)
		if err != nil {
			return err
		}
		for _, p := range payload.Positions {
			position := entities.HRRequisitionPosition{
				RequisitionID: id,
				Position:      p.Position,
				Quantity:      p.Quantity,
				Experience:    experienceOrNone(p.Experience),
			}
			if _, err := s.repo.CreatePosition(ctx, tx, position); err != nil {
				return err
			}
		}
		created, err = s.repo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать кадровую заявку", err)
	}

	s.logger.Info("Кадровая заявка создана", zap.Uint64("id", created.ID), zap.String("number", created.Number))
	s.publisher.Publish(ctx, events.HRRequisitionCreatedEvent{RequisitionID: created.ID, Number: created.Number, ActorID: actor.UserID})
	return dto.NewHRRequisitionDTO(created), nil
}

func checkHRRequisitionState(r *entities.HRRequisition) error {
	errs := fieldErrors{}
	if r.ProjectID == 0 {
		errs.add("project", "Projekt jest wymagany")
	}
	if r.Deadline.IsZero() {
		errs.add("deadline", "Termin jest wymagany")
	}
	if !constants.IsOneOf(r.Status, constants.RequisitionStatuses) {
		errs.add("status", "Nieprawidłowy status")
	}
	return errs.err()
}

func (s *HRRequisitionService) UpdateRequisition(ctx context.Context, id uint64, payload dto.UpdateHRRequisitionDTO, rawBody []byte) (*dto.HRRequisitionDTO, error) {
	actor, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	var updated *entities.HRRequisition
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
		if err := checkHRRequisitionState(current); err != nil {
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
		return nil, wrapInternal(s.logger, "не удалось обновить кадровую заявку", err)
	}
	return dto.NewHRRequisitionDTO(updated), nil
}

func (s *HRRequisitionService) DeleteRequisition(ctx context.Context, id uint64) error {
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
	return s.repo.Delete(ctx, nil, id)
}

func (s *HRRequisitionService) GetPositions(ctx context.Context, filter types.Filter) ([]*entities.HRRequisitionPosition, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.GetPositions(ctx, filter, scope)
}

func (s *HRRequisitionService) FindPosition(ctx context.Context, id uint64) (*entities.HRRequisitionPosition, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	return s.repo.FindPositionByID(ctx, nil, id, scope)
}

func (s *HRRequisitionService) parentForWrite(ctx context.Context, tx pgx.Tx, requisitionID uint64) error {
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

func (s *HRRequisitionService) CreatePosition(ctx context.Context, payload dto.CreateHRPositionDTO) (*entities.HRRequisitionPosition, error) {
	errs := fieldErrors{}
	checkHRPosition(payload.CreateHRPositionLineDTO, "", errs)
	if err := errs.err(); err != nil {
		return nil, err
	}
	var created *entities.HRRequisitionPosition
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.parentForWrite(ctx, tx, payload.RequisitionID); err != nil {
			return err
		}
		id, err := s.repo.CreatePosition(ctx, tx, entities.HRRequisitionPosition{
			RequisitionID: payload.RequisitionID,
			Position:      payload.Position,
			Quantity:      payload.Quantity,
			Experience:    experienceOrNone(payload.Experience),
		})
		if err != nil {
			return err
		}
		created, err = s.repo.FindPositionByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось добавить должность в заявку", err)
	}
	return created, nil
}

func (s *HRRequisitionService) UpdatePosition(ctx context.Context, id uint64, payload dto.UpdateHRPositionDTO, rawBody []byte) (*entities.HRRequisitionPosition, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return nil, err
	}
	var updated *entities.HRRequisitionPosition
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindPositionByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := s.parentForWrite(ctx, tx, current.RequisitionID); err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		current.Experience = experienceOrNone(current.Experience)
		errs := fieldErrors{}
		checkHRPosition(dto.CreateHRPositionLineDTO{
			Position:   current.Position,
			Quantity:   current.Quantity,
			Experience: current.Experience,
		}, "", errs)
		if err := errs.err(); err != nil {
			return err
		}
		if err := s.repo.UpdatePosition(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.repo.FindPositionByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить должность в заявке", err)
	}
	return updated, nil
}

func (s *HRRequisitionService) DeletePosition(ctx context.Context, id uint64) error {
	_, scope, err := actorWithScope(ctx, authz.ResourceRequisitions)
	if err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindPositionByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := s.parentForWrite(ctx, tx, current.RequisitionID); err != nil {
			return err
		}
		return s.repo.DeletePosition(ctx, tx, id)
	})
}
