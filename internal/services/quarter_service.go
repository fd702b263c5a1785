package services

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/filestorage"
	"solarforyou/pkg/types"
	"solarforyou/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	uploadsURLPrefix = "/uploads/"
	defaultCountry   = "Polska"
)

type QuarterServiceInterface interface {
	GetQuarters(ctx context.Context, filter types.Filter) ([]*dto.QuarterDTO, uint64, error)
	FindQuarter(ctx context.Context, id uint64) (*dto.QuarterDTO, error)
	CreateQuarter(ctx context.Context, payload dto.CreateQuarterDTO) (*dto.QuarterDTO, error)
	UpdateQuarter(ctx context.Context, id uint64, payload dto.UpdateQuarterDTO, rawBody []byte) (*dto.QuarterDTO, error)
	DeleteQuarter(ctx context.Context, id uint64) error

	AssignEmployee(ctx context.Context, payload dto.AssignQuarterDTO) (*entities.Employee, error)
	RemoveEmployee(ctx context.Context, employeeID uint64) (*entities.Employee, error)

	GetImages(ctx context.Context, filter types.Filter) ([]*entities.QuarterImage, uint64, error)
	FindImage(ctx context.Context, id uint64) (*entities.QuarterImage, error)
	UploadImage(ctx context.Context, quarterID uint64, name string, file *multipart.FileHeader) (*entities.QuarterImage, error)
	RenameImage(ctx context.Context, id uint64, name string) (*entities.QuarterImage, error)
	DeleteImage(ctx context.Context, id uint64) error
}

type QuarterService struct {
	txManager    repositories.TxManagerInterface
	repo         repositories.QuarterRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	fileStorage  filestorage.FileStorageInterface
	logger       *zap.Logger
}

func NewQuarterService(
	txManager repositories.TxManagerInterface,
	repo repositories.QuarterRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) QuarterServiceInterface {
	return &QuarterService{
		txManager:    txManager,
		repo:         repo,
		employeeRepo: employeeRepo,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

func (s *QuarterService) GetQuarters(ctx context.Context, filter types.Filter) ([]*dto.QuarterDTO, uint64, error) {
	quarters, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]*dto.QuarterDTO, 0, len(quarters))
	for _, q := range quarters {
		result = append(result, dto.NewQuarterDTO(q))
	}
	return result, total, nil
}

func (s *QuarterService) FindQuarter(ctx context.Context, id uint64) (*dto.QuarterDTO, error) {
	q, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return dto.NewQuarterDTO(q), nil
}

func (s *QuarterService) CreateQuarter(ctx context.Context, payload dto.CreateQuarterDTO) (*dto.QuarterDTO, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	quarter := entities.Quarter{
		Name:         payload.Name,
		Address:      payload.Address,
		City:         payload.City,
		Country:      payload.Country,
		PaymentDay:   payload.PaymentDay,
		MaxOccupants: payload.MaxOccupants,
		CreatedBy:    null.Int64From(int64(actor.UserID)),
		UpdatedBy:    null.Int64From(int64(actor.UserID)),
	}
	if strings.TrimSpace(quarter.Country) == "" {
		quarter.Country = defaultCountry
	}
	id, err := s.repo.Create(ctx, nil, quarter)
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать квартиру", err)
	}
	return s.FindQuarter(ctx, id)
}

func (s *QuarterService) UpdateQuarter(ctx context.Context, id uint64, payload dto.UpdateQuarterDTO, rawBody []byte) (*dto.QuarterDTO, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		occupants, err := s.employeeRepo.CountInQuarter(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.MaxOccupants < occupants {
			return badRequest("max_occupants", "Limit miejsc nie może być mniejszy niż liczba mieszkańców")
		}
		current.UpdatedBy = null.Int64From(int64(actor.UserID))
		return s.repo.Update(ctx, tx, *current)
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить квартиру", err)
	}
	return s.FindQuarter(ctx, id)
}

func (s *QuarterService) DeleteQuarter(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, nil, id)
}

func (s *QuarterService) AssignEmployee(ctx context.Context, payload dto.AssignQuarterDTO) (*entities.Employee, error) {
	var employee *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.employeeRepo.FindByID(ctx, tx, payload.EmployeeID)
		if err != nil {
			return err
		}
		if current.QuarterID.Valid && uint64(current.QuarterID.Int64) == payload.QuarterID {
			employee = current
			return nil
		}
		if err := ensureQuarterCapacity(ctx, tx, s.repo, s.employeeRepo, payload.QuarterID); err != nil {
			return err
		}
		if err := s.employeeRepo.SetQuarter(ctx, tx, payload.EmployeeID, null.Int64From(int64(payload.QuarterID))); err != nil {
			return err
		}
		employee, err = s.employeeRepo.FindByID(ctx, tx, payload.EmployeeID)
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось заселить сотрудника", err)
	}
	s.logger.Info("Сотрудник заселён", zap.Uint64("employeeID", payload.EmployeeID), zap.Uint64("quarterID", payload.QuarterID))
	return employee, nil
}

func (s *QuarterService) RemoveEmployee(ctx context.Context, employeeID uint64) (*entities.Employee, error) {
	if err := s.employeeRepo.SetQuarter(ctx, nil, employeeID, null.Int64{}); err != nil {
		return nil, err
	}
	return s.employeeRepo.FindByID(ctx, nil, employeeID)
}

func (s *QuarterService) GetImages(ctx context.Context, filter types.Filter) ([]*entities.QuarterImage, uint64, error) {
	return s.repo.GetImages(ctx, filter)
}

func (s *QuarterService) FindImage(ctx context.Context, id uint64) (*entities.QuarterImage, error) {
	return s.repo.FindImageByID(ctx, id)
}

// saveUpload проверяет файл по правилам контекста и кладёт его в хранилище.
func saveUpload(logger *zap.Logger, storage filestorage.FileStorageInterface, header *multipart.FileHeader, uploadContext constants.UploadContext) (string, error) {
	if header == nil {
		return "", badRequest("image", "Plik jest wymagany")
	}
	file, err := header.Open()
	if err != nil {
		logger.Error("Не удалось открыть загруженный файл", zap.Error(err))
		return "", apperrors.ErrInternalServer
	}
	defer file.Close()

	rules, err := utils.ValidateUpload(header, file, uploadContext)
	if err != nil {
		return "", apperrors.NewHttpError(http.StatusBadRequest, err.Error(), err, nil)
	}
	path, err := storage.Save(file, header.Filename, rules.PathPrefix)
	if err != nil {
		logger.Error("Не удалось сохранить файл", zap.String("context", uploadContext.String()), zap.Error(err))
		return "", apperrors.ErrInternalServer
	}
	return uploadsURLPrefix + path, nil
}

func (s *QuarterService) UploadImage(ctx context.Context, quarterID uint64, name string, header *multipart.FileHeader) (*entities.QuarterImage, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, nil, quarterID); err != nil {
		return nil, err
	}
	path, err := saveUpload(s.logger, s.fileStorage, header, constants.UploadContextQuarterImage)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = header.Filename
	}

	id, err := s.repo.CreateImage(ctx, nil, entities.QuarterImage{
		QuarterID:  quarterID,
		ImagePath:  path,
		Name:       name,
		UploadedBy: null.Int64From(int64(actor.UserID)),
	})
	if err != nil {
		_ = s.fileStorage.Delete(path)
		return nil, wrapInternal(s.logger, "не удалось сохранить фото квартиры", err)
	}
	return s.repo.FindImageByID(ctx, id)
}

func (s *QuarterService) RenameImage(ctx context.Context, id uint64, name string) (*entities.QuarterImage, error) {
	if err := s.repo.UpdateImageName(ctx, id, name); err != nil {
		return nil, err
	}
	return s.repo.FindImageByID(ctx, id)
}

func (s *QuarterService) DeleteImage(ctx context.Context, id uint64) error {
	img, err := s.repo.FindImageByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteImage(ctx, nil, id); err != nil {
		return err
	}
	if err := s.fileStorage.Delete(img.ImagePath); err != nil {
		s.logger.Warn("Не удалось удалить файл фото квартиры", zap.String("path", img.ImagePath), zap.Error(err))
	}
	return nil
}
