package services

import (
	"context"
	"net/http"
	"strings"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProjectServiceInterface interface {
	GetProjects(ctx context.Context, filter types.Filter) ([]*entities.Project, uint64, error)
	FindProject(ctx context.Context, id uint64) (*entities.Project, error)
	CreateProject(ctx context.Context, payload dto.CreateProjectDTO) (*entities.Project, error)
	UpdateProject(ctx context.Context, id uint64, payload dto.UpdateProjectDTO, rawBody []byte) (*entities.Project, error)
	DeleteProject(ctx context.Context, id uint64) error
	// CheckName сравнивает без учёта регистра; excludeID исключает редактируемый проект.
	CheckName(ctx context.Context, name string, excludeID uint64) (bool, error)
}

type ProjectService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.ProjectRepositoryInterface
	logger    *zap.Logger
}

func NewProjectService(txManager repositories.TxManagerInterface, repo repositories.ProjectRepositoryInterface, logger *zap.Logger) ProjectServiceInterface {
	return &ProjectService{txManager: txManager, repo: repo, logger: logger}
}

var errProjectNameTaken = apperrors.NewHttpError(http.StatusBadRequest, "Projekt o tej nazwie już istnieje", apperrors.ErrConflict, map[string]string{"name": "exists"})

func validateProjectDates(p *entities.Project) error {
	if p.StartDate.Valid && p.EndDate.Valid && p.EndDate.Time.Before(p.StartDate.Time) {
		return badRequest("end_date", "Data zakończenia nie może być wcześniejsza niż data rozpoczęcia")
	}
	return nil
}

func (s *ProjectService) GetProjects(ctx context.Context, filter types.Filter) ([]*entities.Project, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceProjects)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.GetAll(ctx, filter, scope)
}

func (s *ProjectService) FindProject(ctx context.Context, id uint64) (*entities.Project, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceProjects)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, nil, id, scope)
}

func (s *ProjectService) CreateProject(ctx context.Context, payload dto.CreateProjectDTO) (*entities.Project, error) {
	actor, scope, err := actorWithScope(ctx, authz.ResourceProjects)
	if err != nil {
		return nil, err
	}

	project := entities.Project{
		Name:         strings.TrimSpace(payload.Name),
		ClientID:     payload.ClientID,
		Country:      payload.Country,
		City:         payload.City,
		Street:       payload.Street,
		PostCode:     payload.PostCode,
		Localization: payload.Localization,
		Latitude:     payload.Latitude,
		Longitude:    payload.Longitude,
		Description:  payload.Description,
		Status:       payload.Status,
		StartDate:    payload.StartDate.Null(),
		EndDate:      payload.EndDate.Null(),
		Budget:       payload.Budget,
		CreatedBy:    null.Int64From(int64(actor.UserID)),
	}
	if project.Status == "" {
		project.Status = constants.ProjectStatusNew
	}
	if err := validateProjectDates(&project); err != nil {
		return nil, err
	}
	if taken, err := s.repo.NameExists(ctx, project.Name, 0); err != nil {
		return nil, wrapInternal(s.logger, "не удалось проверить имя проекта", err)
	} else if taken {
		return nil, errProjectNameTaken
	}

	var created *entities.Project
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.repo.Create(ctx, tx, project)
		if err != nil {
			return err
		}
		if len(payload.TagIDs) > 0 {
			if err := s.repo.SetTags(ctx, tx, id, payload.TagIDs); err != nil {
				return err
			}
		}
		created, err = s.repo.FindByID(ctx, tx, id, scope)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать проект", err)
	}
	s.logger.Info("Проект создан", zap.Uint64("projectID", created.ID), zap.Uint64("userID", actor.UserID))
	return created, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id uint64, payload dto.UpdateProjectDTO, rawBody []byte) (*entities.Project, error) {
	actor, scope, err := actorWithScope(ctx, authz.ResourceProjects)
	if err != nil {
		return nil, err
	}

	var updated *entities.Project
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := requireModify(s.logger, actor, current, authz.ResourceProjects); err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		current.Name = strings.TrimSpace(current.Name)
		if err := validateProjectDates(current); err != nil {
			return err
		}
		if payload.Name != nil {
			taken, err := s.repo.NameExists(ctx, current.Name, id)
			if err != nil {
				return err
			}
			if taken {
				return errProjectNameTaken
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
		updated, err = s.repo.FindByID(ctx, tx, id, scope)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить проект", err)
	}
	return updated, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	actor, scope, err := actorWithScope(ctx, authz.ResourceProjects)
	if err != nil {
		return err
	}
	current, err := s.repo.FindByID(ctx, nil, id, scope)
	if err != nil {
		return err
	}
	if err := requireModify(s.logger, actor, current, authz.ResourceProjects); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Проект удалён", zap.Uint64("projectID", id), zap.Uint64("userID", actor.UserID))
	return nil
}

func (s *ProjectService) CheckName(ctx context.Context, name string, excludeID uint64) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	return s.repo.NameExists(ctx, name, excludeID)
}
