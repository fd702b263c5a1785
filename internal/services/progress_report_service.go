package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	"solarforyou/internal/entities"
	"solarforyou/internal/repositories"
	"solarforyou/pkg/constants"
	"solarforyou/pkg/filestorage"
	"solarforyou/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var maxHoursPerDay = decimal.NewFromInt(24)

type ProgressReportServiceInterface interface {
	GetReports(ctx context.Context, filter types.Filter) ([]*dto.ProgressReportDTO, uint64, error)
	FindReport(ctx context.Context, id uint64) (*dto.ProgressReportDTO, error)
	CreateReport(ctx context.Context, payload dto.CreateProgressReportDTO) (*dto.ProgressReportDTO, error)
	CreateBulk(ctx context.Context, payload dto.BulkProgressReportDTO) (*dto.ProgressReportDTO, error)
	UpdateReport(ctx context.Context, id uint64, payload dto.UpdateProgressReportDTO, rawBody []byte) (*dto.ProgressReportDTO, error)
	DeleteReport(ctx context.Context, id uint64) error

	GetEntries(ctx context.Context, filter types.Filter) ([]*entities.ProgressReportEntry, uint64, error)
	FindEntry(ctx context.Context, id uint64) (*entities.ProgressReportEntry, error)
	CreateEntry(ctx context.Context, payload dto.CreateReportEntryDTO) (*entities.ProgressReportEntry, error)
	UpdateEntry(ctx context.Context, id uint64, payload dto.UpdateReportEntryDTO, rawBody []byte) (*entities.ProgressReportEntry, error)
	DeleteEntry(ctx context.Context, id uint64) error

	GetImages(ctx context.Context, filter types.Filter) ([]*entities.ProgressReportImage, uint64, error)
	FindImage(ctx context.Context, id uint64) (*entities.ProgressReportImage, error)
	UploadImage(ctx context.Context, reportID uint64, name string, file *multipart.FileHeader) (*entities.ProgressReportImage, error)
	RenameImage(ctx context.Context, id uint64, name string) (*entities.ProgressReportImage, error)
	DeleteImage(ctx context.Context, id uint64) error

	GetActivities(ctx context.Context, filter types.Filter) ([]*entities.ProgressReportActivity, uint64, error)
	FindActivity(ctx context.Context, id uint64) (*entities.ProgressReportActivity, error)
	CreateActivity(ctx context.Context, payload dto.CreateActivityDTO) (*entities.ProgressReportActivity, error)
	UpdateActivity(ctx context.Context, id uint64, payload dto.UpdateActivityDTO, rawBody []byte) (*entities.ProgressReportActivity, error)
	DeleteActivity(ctx context.Context, id uint64) error
	// AddActivities дописывает пакет активностей к существующему отчёту.
	AddActivities(ctx context.Context, payload dto.AddActivitiesDTO) (*dto.ProgressReportDTO, error)
}

type ProgressReportService struct {
	txManager   repositories.TxManagerInterface
	repo        repositories.ProgressReportRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewProgressReportService(
	txManager repositories.TxManagerInterface,
	repo repositories.ProgressReportRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) ProgressReportServiceInterface {
	return &ProgressReportService{txManager: txManager, repo: repo, fileStorage: fileStorage, logger: logger}
}

// ValidHours: от 0 до 24 включительно.
func ValidHours(h decimal.Decimal) bool {
	return !h.IsNegative() && h.LessThanOrEqual(maxHoursPerDay)
}

func checkQuantity(q decimal.Decimal, field string, errs fieldErrors) {
	if q.IsNegative() {
		errs.add(field, "Ilość nie może być ujemna")
	}
}

func (s *ProgressReportService) GetReports(ctx context.Context, filter types.Filter) ([]*dto.ProgressReportDTO, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.GetAll(ctx, filter, scope)
	if err != nil {
		return nil, 0, err
	}
	result := make([]*dto.ProgressReportDTO, 0, len(list))
	for _, r := range list {
		result = append(result, dto.NewProgressReportDTO(r))
	}
	return result, total, nil
}

func (s *ProgressReportService) FindReport(ctx context.Context, id uint64) (*dto.ProgressReportDTO, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, nil, id, scope)
	if err != nil {
		return nil, err
	}
	return dto.NewProgressReportDTO(r), nil
}

func (s *ProgressReportService) CreateReport(ctx context.Context, payload dto.CreateProgressReportDTO) (*dto.ProgressReportDTO, error) {
	return s.CreateBulk(ctx, dto.BulkProgressReportDTO{ProjectID: payload.ProjectID, Date: payload.Date, Notes: payload.Notes})
}

func (s *ProgressReportService) CreateBulk(ctx context.Context, payload dto.BulkProgressReportDTO) (*dto.ProgressReportDTO, error) {
	actor, err := authz.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	errs := fieldErrors{}
	if payload.Date.IsZero() {
		errs.add("date", "Data jest wymagana")
	}
	seen := make(map[uint64]bool, len(payload.Entries))
	for i, e := range payload.Entries {
		if !ValidHours(e.HoursWorked) {
			errs.add(fmt.Sprintf("entries[%d].hours_worked", i), "Liczba godzin musi być w zakresie 0-24")
		}
		if seen[e.EmployeeID] {
			errs.add(fmt.Sprintf("entries[%d].employee", i), "Pracownik występuje w raporcie więcej niż raz")
		}
		seen[e.EmployeeID] = true
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	var created *entities.ProgressReport
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.repo.Create(ctx, tx, entities.ProgressReport{
			ProjectID: payload.ProjectID,
			Date:      payload.Date.Time(),
			Notes:     payload.Notes,
			CreatedBy: actor.UserID,
		})
		if err != nil {
			return err
		}
		for _, e := range payload.Entries {
			entry := entities.ProgressReportEntry{
				ReportID:    id,
				EmployeeID:  e.EmployeeID,
				HoursWorked: e.HoursWorked,
				Notes:       e.Notes,
			}
			if _, err := s.repo.CreateEntry(ctx, tx, entry); err != nil {
				return err
			}
		}
		created, err = s.repo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось создать отчёт о ходе работ", err)
	}
	s.logger.Info("Отчёт о ходе работ создан",
		zap.Uint64("id", created.ID),
		zap.Uint64("projectID", created.ProjectID),
		zap.Int("entries", len(created.Entries)),
	)
	return dto.NewProgressReportDTO(created), nil
}

func (s *ProgressReportService) UpdateReport(ctx context.Context, id uint64, payload dto.UpdateProgressReportDTO, rawBody []byte) (*dto.ProgressReportDTO, error) {
	var updated *entities.ProgressReport
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.reportForWrite(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		if current.Date.IsZero() {
			return badRequest("date", "Data jest wymagana")
		}
		if err := s.repo.Update(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.repo.FindByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить отчёт о ходе работ", err)
	}
	return dto.NewProgressReportDTO(updated), nil
}

func (s *ProgressReportService) DeleteReport(ctx context.Context, id uint64) error {
	var images []entities.ProgressReportImage
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.reportForWrite(ctx, tx, id)
		if err != nil {
			return err
		}
		images = current.Images
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.fileStorage.Delete(img.ImagePath); err != nil {
			s.logger.Warn("Не удалось удалить фото отчёта", zap.String("path", img.ImagePath), zap.Error(err))
		}
	}
	return nil
}

// reportForWrite загружает отчёт и проверяет право на изменение.
func (s *ProgressReportService) reportForWrite(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ProgressReport, error) {
	actor, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, err
	}
	report, err := s.repo.FindByID(ctx, tx, id, scope)
	if err != nil {
		return nil, err
	}
	if err := requireModify(s.logger, actor, report, authz.ResourceReports); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ProgressReportService) GetEntries(ctx context.Context, filter types.Filter) ([]*entities.ProgressReportEntry, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.GetEntries(ctx, filter, scope)
}

func (s *ProgressReportService) FindEntry(ctx context.Context, id uint64) (*entities.ProgressReportEntry, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, err
	}
	return s.repo.FindEntryByID(ctx, nil, id, scope)
}

func (s *ProgressReportService) CreateEntry(ctx context.Context, payload dto.CreateReportEntryDTO) (*entities.ProgressReportEntry, error) {
	if !ValidHours(payload.HoursWorked) {
		return nil, badRequest("hours_worked", "Liczba godzin musi być w zakresie 0-24")
	}
	var created *entities.ProgressReportEntry
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.reportForWrite(ctx, tx, payload.ReportID); err != nil {
			return err
		}
		id, err := s.repo.CreateEntry(ctx, tx, entities.ProgressReportEntry{
			ReportID:    payload.ReportID,
			EmployeeID:  payload.EmployeeID,
			HoursWorked: payload.HoursWorked,
			Notes:       payload.Notes,
		})
		if err != nil {
			return err
		}
		created, err = s.repo.FindEntryByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось добавить запись в отчёт", err)
	}
	return created, nil
}

func (s *ProgressReportService) UpdateEntry(ctx context.Context, id uint64, payload dto.UpdateReportEntryDTO, rawBody []byte) (*entities.ProgressReportEntry, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, err
	}
	var updated *entities.ProgressReportEntry
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindEntryByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if _, err := s.reportForWrite(ctx, tx, current.ReportID); err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		if !ValidHours(current.HoursWorked) {
			return badRequest("hours_worked", "Liczba godzin musi być w zakresie 0-24")
		}
		if err := s.repo.UpdateEntry(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.repo.FindEntryByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить запись отчёта", err)
	}
	return updated, nil
}

func (s *ProgressReportService) DeleteEntry(ctx context.Context, id uint64) error {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindEntryByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if _, err := s.reportForWrite(ctx, tx, current.ReportID); err != nil {
			return err
		}
		return s.repo.DeleteEntry(ctx, tx, id)
	})
}

func (s *ProgressReportService) GetImages(ctx context.Context, filter types.Filter) ([]*entities.ProgressReportImage, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.GetImages(ctx, filter, scope)
}

func (s *ProgressReportService) FindImage(ctx context.Context, id uint64) (*entities.ProgressReportImage, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, err
	}
	return s.repo.FindImageByID(ctx, nil, id, scope)
}

func (s *ProgressReportService) UploadImage(ctx context.Context, reportID uint64, name string, header *multipart.FileHeader) (*entities.ProgressReportImage, error) {
	if _, err := s.reportForWrite(ctx, nil, reportID); err != nil {
		return nil, err
	}
	path, err := saveUpload(s.logger, s.fileStorage, header, constants.UploadContextReportImage)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = header.Filename
	}
	id, err := s.repo.CreateImage(ctx, nil, entities.ProgressReportImage{ReportID: reportID, ImagePath: path, Name: name})
	if err != nil {
		_ = s.fileStorage.Delete(path)
		return nil, wrapInternal(s.logger, "не удалось сохранить фото отчёта", err)
	}
	return s.repo.FindImageByID(ctx, nil, id, authz.Scope{All: true})
}

func (s *ProgressReportService) RenameImage(ctx context.Context, id uint64, name string) (*entities.ProgressReportImage, error) {
	img, err := s.FindImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.reportForWrite(ctx, nil, img.ReportID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateImageName(ctx, id, name); err != nil {
		return nil, err
	}
	return s.repo.FindImageByID(ctx, nil, id, authz.Scope{All: true})
}

func (s *ProgressReportService) DeleteImage(ctx context.Context, id uint64) error {
	img, err := s.FindImage(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.reportForWrite(ctx, nil, img.ReportID); err != nil {
		return err
	}
	if err := s.repo.DeleteImage(ctx, nil, id); err != nil {
		return err
	}
	if err := s.fileStorage.Delete(img.ImagePath); err != nil {
		s.logger.Warn("Не удалось удалить фото отчёта", zap.String("path", img.ImagePath), zap.Error(err))
	}
	return nil
}

func (s *ProgressReportService) GetActivities(ctx context.Context, filter types.Filter) ([]*entities.ProgressReportActivity, uint64, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.GetActivities(ctx, filter, scope)
}

func (s *ProgressReportService) FindActivity(ctx context.Context, id uint64) (*entities.ProgressReportActivity, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, err
	}
	return s.repo.FindActivityByID(ctx, nil, id, scope)
}

func newActivity(reportID uint64, line dto.ActivityLineDTO) entities.ProgressReportActivity {
	return entities.ProgressReportActivity{
		ReportID:     reportID,
		ActivityType: line.ActivityType,
		SubActivity:  line.SubActivity,
		Zona:         line.Zona,
		Row:          line.Row,
		Table:        line.Table,
		Quantity:     line.Quantity,
		Unit:         line.Unit,
		Notes:        line.Notes,
	}
}

func (s *ProgressReportService) CreateActivity(ctx context.Context, payload dto.CreateActivityDTO) (*entities.ProgressReportActivity, error) {
	errs := fieldErrors{}
	checkQuantity(payload.Quantity, "quantity", errs)
	if err := errs.err(); err != nil {
		return nil, err
	}
	var created *entities.ProgressReportActivity
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.reportForWrite(ctx, tx, payload.ReportID); err != nil {
			return err
		}
		id, err := s.repo.CreateActivity(ctx, tx, newActivity(payload.ReportID, payload.ActivityLineDTO))
		if err != nil {
			return err
		}
		created, err = s.repo.FindActivityByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось добавить активность в отчёт", err)
	}
	return created, nil
}

func (s *ProgressReportService) UpdateActivity(ctx context.Context, id uint64, payload dto.UpdateActivityDTO, rawBody []byte) (*entities.ProgressReportActivity, error) {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return nil, err
	}
	var updated *entities.ProgressReportActivity
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindActivityByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if _, err := s.reportForWrite(ctx, tx, current.ReportID); err != nil {
			return err
		}
		if err := patchEntity(current, payload, rawBody); err != nil {
			return err
		}
		errs := fieldErrors{}
		checkQuantity(current.Quantity, "quantity", errs)
		if err := errs.err(); err != nil {
			return err
		}
		if err := s.repo.UpdateActivity(ctx, tx, *current); err != nil {
			return err
		}
		updated, err = s.repo.FindActivityByID(ctx, tx, id, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось обновить активность отчёта", err)
	}
	return updated, nil
}

func (s *ProgressReportService) DeleteActivity(ctx context.Context, id uint64) error {
	_, scope, err := actorWithScope(ctx, authz.ResourceReports)
	if err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindActivityByID(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if _, err := s.reportForWrite(ctx, tx, current.ReportID); err != nil {
			return err
		}
		return s.repo.DeleteActivity(ctx, tx, id)
	})
}

func (s *ProgressReportService) AddActivities(ctx context.Context, payload dto.AddActivitiesDTO) (*dto.ProgressReportDTO, error) {
	errs := fieldErrors{}
	for i, a := range payload.Activities {
		checkQuantity(a.Quantity, fmt.Sprintf("activities[%d].quantity", i), errs)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	var report *entities.ProgressReport
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.reportForWrite(ctx, tx, payload.ReportID); err != nil {
			return err
		}
		for _, line := range payload.Activities {
			if _, err := s.repo.CreateActivity(ctx, tx, newActivity(payload.ReportID, line)); err != nil {
				return err
			}
		}
		var err error
		report, err = s.repo.FindByID(ctx, tx, payload.ReportID, authz.Scope{All: true})
		return err
	})
	if err != nil {
		return nil, wrapInternal(s.logger, "не удалось добавить активности в отчёт", err)
	}
	s.logger.Info("Активности добавлены в отчёт", zap.Uint64("reportID", payload.ReportID), zap.Int("count", len(payload.Activities)))
	return dto.NewProgressReportDTO(report), nil
}
