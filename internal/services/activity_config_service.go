package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/filestorage"
	"solarforyou/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ActivityConfigServiceInterface interface {
	GetConfig(ctx context.Context, projectID uint64) (*entities.ProjectActivityConfig, error)
	SaveConfig(ctx context.Context, payload dto.SaveActivityConfigDTO) (*entities.ProjectActivityConfig, error)
	ImportWorkbook(ctx context.Context, projectID uint64, file *multipart.FileHeader) (*entities.ProjectActivityConfig, error)
}

type ActivityConfigService struct {
	txManager   repositories.TxManagerInterface
	repo        repositories.ActivityConfigRepositoryInterface
	projectRepo repositories.ProjectRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewActivityConfigService(
	txManager repositories.TxManagerInterface,
	repo repositories.ActivityConfigRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) ActivityConfigServiceInterface {
	return &ActivityConfigService{
		txManager:   txManager,
		repo:        repo,
		projectRepo: projectRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func configPath(projectID uint64) string {
	return fmt.Sprintf(constants.ActivityConfigPathFormat, projectID)
}

// GetConfig читает конфигурацию из БД, при отсутствии записи - из файла проекта.
func (s *ActivityConfigService) GetConfig(ctx context.Context, projectID uint64) (*entities.ProjectActivityConfig, error) {
	if err := s.checkProject(ctx, nil, projectID); err != nil {
		return nil, err
	}
	cfg, err := s.repo.FindByProjectID(ctx, projectID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	data, readErr := s.fileStorage.Read(configPath(projectID))
	if readErr != nil || !json.Valid(data) {
		return nil, apperrors.ErrNotFound
	}
	return &entities.ProjectActivityConfig{ProjectID: projectID, ConfigData: data, FilePath: configPath(projectID)}, nil
}

func (s *ActivityConfigService) checkProject(ctx context.Context, tx pgx.Tx, projectID uint64) error {
	_, scope, err := actorWithScope(ctx, authz.ResourceProjects)
	if err != nil {
		return err
	}
	_, err = s.projectRepo.FindByID(ctx, tx, projectID, scope)
	return err
}

func (s *ActivityConfigService) SaveConfig(ctx context.Context, payload dto.SaveActivityConfigDTO) (*entities.ProjectActivityConfig, error) {
	var document map[string]interface{}
	if err := json.Unmarshal(payload.ConfigData, &document); err != nil {
		return nil, badRequest("config_data", "Konfiguracja musi być obiektem JSON")
	}
	return s.store(ctx, payload.ProjectID, document)
}

func (s *ActivityConfigService) ImportWorkbook(ctx context.Context, projectID uint64, header *multipart.FileHeader) (*entities.ProjectActivityConfig, error) {
	if header == nil {
		return nil, badRequest("file", "Plik jest wymagany")
	}
	file, err := header.Open()
	if err != nil {
		s.logger.Error("Не удалось открыть загруженный файл", zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}
	defer file.Close()

	if _, err := utils.ValidateUpload(header, file, constants.UploadContextActivityWorkbook); err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, err.Error(), err, nil)
	}
	document, err := ConvertActivityWorkbook(file)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("Błąd przetwarzania pliku: %v", err), err, nil)
	}
	s.logger.Info("Книга активностей разобрана",
		zap.Uint64("projectID", projectID),
		zap.String("file", header.Filename),
		zap.Any("type", document["typ_projektu"]),
	)
	return s.store(ctx, projectID, document)
}

// store пишет JSON в файловое хранилище и сохраняет его в БД.
func (s *ActivityConfigService) store(ctx context.Context, projectID uint64, document map[string]interface{}) (*entities.ProjectActivityConfig, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось сериализовать конфигурацию активностей", err)
	}

	path := configPath(projectID)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.checkProject(ctx, tx, projectID); err != nil {
			return err
		}
		if _, err := s.repo.Upsert(ctx, tx, entities.ProjectActivityConfig{
			ProjectID:  projectID,
			ConfigData: data,
			FilePath:   path,
			CreatedBy:  null.Int64From(int64(actor.UserID)),
		}); err != nil {
			return err
		}
		return s.fileStorage.Put(path, data)
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось сохранить конфигурацию активностей", err)
	}
	return s.repo.FindByProjectID(ctx, projectID)
}
