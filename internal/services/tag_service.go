package services

import (
	"context"

	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/types"

	"go.uber.org/zap"
)

// TagService обслуживает метки проектов и метки сотрудников; таблица задаётся репозиторием.
type TagServiceInterface interface {
	GetTags(ctx context.Context, filter types.Filter) ([]*entities.Tag, uint64, error)
	FindTag(ctx context.Context, id uint64) (*entities.Tag, error)
	CreateTag(ctx context.Context, payload dto.CreateTagDTO) (*entities.Tag, error)
	UpdateTag(ctx context.Context, id uint64, payload dto.UpdateTagDTO, rawBody []byte) (*entities.Tag, error)
	DeleteTag(ctx context.Context, id uint64) error
}

const defaultTagColor = "#3498db"

type TagService struct {
	repo   repositories.TagRepositoryInterface
	logger *zap.Logger
}

func NewTagService(repo repositories.TagRepositoryInterface, logger *zap.Logger) TagServiceInterface {
	return &TagService{repo: repo, logger: logger}
}

func (s *TagService) GetTags(ctx context.Context, filter types.Filter) ([]*entities.Tag, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *TagService) FindTag(ctx context.Context, id uint64) (*entities.Tag, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *TagService) CreateTag(ctx context.Context, payload dto.CreateTagDTO) (*entities.Tag, error) {
	tag := entities.Tag{Name: payload.Name, Color: payload.Color}
	if tag.Color == "" {
		tag.Color = defaultTagColor
	}
	id, err := s.repo.Create(ctx, nil, tag)
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать метку", err)
	}
	return s.repo.FindByID(ctx, nil, id)
}

func (s *TagService) UpdateTag(ctx context.Context, id uint64, payload dto.UpdateTagDTO, rawBody []byte) (*entities.Tag, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := patchEntity(current, payload, rawBody); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, nil, *current); err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить метку", err)
	}
	return s.repo.FindByID(ctx, nil, id)
}

func (s *TagService) DeleteTag(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, nil, id)
}
