package services

import (
	"context"
	"net/http"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/customvalidator"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error)
	GetAvailableEmployees(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO, rawBody []byte) (*entities.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
	AssignProject(ctx context.Context, id uint64, projectID null.Int64) (*entities.Employee, error)
	CheckPesel(ctx context.Context, pesel string, excludeID uint64) (*dto.PeselCheckDTO, error)
}

type EmployeeService struct {
	txManager   repositories.TxManagerInterface
	repo        repositories.EmployeeRepositoryInterface
	quarterRepo repositories.QuarterRepositoryInterface
	logger      *zap.Logger
}

func NewEmployeeService(
	txManager repositories.TxManagerInterface,
	repo repositories.EmployeeRepositoryInterface,
	quarterRepo repositories.QuarterRepositoryInterface,
	logger *zap.Logger,
) EmployeeServiceInterface {
	return &EmployeeService{txManager: txManager, repo: repo, quarterRepo: quarterRepo, logger: logger}
}

var errPeselTaken = apperrors.NewHttpError(http.StatusBadRequest, "Pracownik o tym numerze PESEL już istnieje", apperrors.ErrConflict, map[string]string{"pesel": "exists"})

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *EmployeeService) GetAvailableEmployees(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error) {
	return s.repo.GetAvailable(ctx, filter)
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	return s.repo.FindByID(ctx, nil, id)
}

// ensureQuarterCapacity блокирует квартиру и проверяет свободное место.
func ensureQuarterCapacity(ctx context.Context, tx pgx.Tx, quarters repositories.QuarterRepositoryInterface, employees repositories.EmployeeRepositoryInterface, quarterID uint64) error {
	quarter, err := quarters.LockByID(ctx, tx, quarterID)
	if err != nil {
		return err
	}
	occupants, err := employees.CountInQuarter(ctx, tx, quarterID)
	if err != nil {
		return err
	}
	if occupants >= quarter.MaxOccupants {
		return apperrors.NewHttpError(http.StatusBadRequest, "Kwatera jest pełna", nil,
			map[string]int{"max_occupants": quarter.MaxOccupants, "occupants_count": occupants})
	}
	return nil
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if taken, err := s.repo.PeselExists(ctx, payload.Pesel, 0); err != nil {
		return nil, wrapInternal(s.logger, "не удалось проверить PESEL", err)
	} else if taken {
		return nil, errPeselTaken
	}

	employee := entities.Employee{
		FirstName:        payload.FirstName,
		LastName:         payload.LastName,
		Pesel:            payload.Pesel,
		Phone:            payload.Phone,
		CurrentProjectID: payload.CurrentProjectID,
		QuarterID:        payload.QuarterID,
		CreatedBy:        null.Int64From(int64(actor.UserID)),
	}

	var created *entities.Employee
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if employee.QuarterID.Valid {
			if err := ensureQuarterCapacity(ctx, tx, s.quarterRepo, s.repo, uint64(employee.QuarterID.Int64)); err != nil {
				return err
			}
		}
		id, err := s.repo.Create(ctx, tx, employee)
		if err != nil {
			return err
		}
		if len(payload.TagIDs) > 0 {
			if err := s.repo.SetTags(ctx, tx, id, payload.TagIDs); err != nil {
				return err
			}
		}
		created, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать сотрудника", err)
	}
	return created, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO, rawBody []byte) (*entities.Employee, error) {
	var updated *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		previousQuarter := current.QuarterID
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}

		if payload.Pesel != nil {
			taken, err := s.repo.PeselExists(ctx, current.Pesel, id)
			if err != nil {
				return err
			}
			if taken {
				return errPeselTaken
			}
		}
		if current.QuarterID.Valid && current.QuarterID != previousQuarter {
			if err := ensureQuarterCapacity(ctx, tx, s.quarterRepo, s.repo, uint64(current.QuarterID.Int64)); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, tx, *current); err != nil {
			return err
		}
		if payload.TagIDs != nil {
			if err := s.repo.SetTags(ctx, tx, id, payload.TagIDs); err != nil {
				return err
			}
		}
		updated, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить сотрудника", err)
	}
	return updated, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, nil, id)
}

func (s *EmployeeService) AssignProject(ctx context.Context, id uint64, projectID null.Int64) (*entities.Employee, error) {
	var updated *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.SetProject(ctx, tx, []uint64{id}, projectID); err != nil {
			return err
		}
		var err error
		updated, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось назначить проект сотруднику", err)
	}
	s.logger.Info("Сотруднику назначен проект", zap.Uint64("employeeID", id), zap.Any("projectID", projectID))
	return updated, nil
}

func (s *EmployeeService) CheckPesel(ctx context.Context, pesel string, excludeID uint64) (*dto.PeselCheckDTO, error) {
	if !customvalidator.ValidPesel(pesel) {
		return &dto.PeselCheckDTO{Valid: false, Message: "Nieprawidłowy numer PESEL"}, nil
	}
	taken, err := s.repo.PeselExists(ctx, pesel, excludeID)
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось проверить PESEL", err)
	}
	if taken {
		return &dto.PeselCheckDTO{Valid: true, Exists: true, Message: "Pracownik o tym numerze PESEL już istnieje"}, nil
	}
	return &dto.PeselCheckDTO{Valid: true, Message: "PESEL poprawny"}, nil
}
