package repositories

import (
	"context"

	"solarforyou/internal/authz"
	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	reportTable         = "progress_reports"
	reportEntryTable    = "progress_report_entries"
	reportImageTable    = "progress_report_images"
	reportActivityTable = "progress_report_activities"

	reportFields   = "pr.id, pr.project_id, pr.date, pr.notes, pr.created_by, pr.created_at, pr.updated_at, p.name"
	entryFields    = "en.id, en.report_id, en.employee_id, en.hours_worked, en.notes, en.created_at, en.updated_at, TRIM(e.first_name || ' ' || e.last_name)"
	imageFields    = "im.id, im.report_id, im.image_path, im.name, im.created_at"
	activityFields = "a.id, a.report_id, a.activity_type, a.sub_activity, a.zona, a.row_no, a.table_no, a.quantity, a.unit, a.notes, a.created_at"
)

var reportListParams = listParams{
	From:          "progress_reports pr",
	Joins:         []string{"JOIN projects p ON p.id = pr.project_id"},
	Columns:       reportFields,
	CountColumn:   "pr.id",
	SearchColumns: []string{"p.name", "pr.notes"},
	Filters: map[string]string{
		"project":    "pr.project_id",
		"date":       "pr.date",
		"created_by": "pr.created_by",
	},
	Sorts: map[string]string{
		"id":         "pr.id",
		"date":       "pr.date",
		"created_at": "pr.created_at",
	},
	DefaultOrder: "pr.date DESC",
}

type ProgressReportRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.ProgressReport, error)
	GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.ProgressReport, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, r entities.ProgressReport) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, r entities.ProgressReport) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error

	FindEntryByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.ProgressReportEntry, error)
	GetEntries(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.ProgressReportEntry, uint64, error)
	CreateEntry(ctx context.Context, tx pgx.Tx, e entities.ProgressReportEntry) (uint64, error)
	UpdateEntry(ctx context.Context, tx pgx.Tx, e entities.ProgressReportEntry) error
	DeleteEntry(ctx context.Context, tx pgx.Tx, id uint64) error

	FindImageByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.ProgressReportImage, error)
	GetImages(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.ProgressReportImage, uint64, error)
	CreateImage(ctx context.Context, tx pgx.Tx, img entities.ProgressReportImage) (uint64, error)
	UpdateImageName(ctx context.Context, id uint64, name string) error
	DeleteImage(ctx context.Context, tx pgx.Tx, id uint64) error

	FindActivityByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.ProgressReportActivity, error)
	GetActivities(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.ProgressReportActivity, uint64, error)
	CreateActivity(ctx context.Context, tx pgx.Tx, a entities.ProgressReportActivity) (uint64, error)
	UpdateActivity(ctx context.Context, tx pgx.Tx, a entities.ProgressReportActivity) error
	DeleteActivity(ctx context.Context, tx pgx.Tx, id uint64) error
}

type progressReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProgressReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ProgressReportRepositoryInterface {
	return &progressReportRepository{storage: storage, logger: logger}
}

func (r *progressReportRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *progressReportRepository) scanRow(row pgx.Row) (*entities.ProgressReport, error) {
	var pr entities.ProgressReport
	err := row.Scan(&pr.ID, &pr.ProjectID, &pr.Date, &pr.Notes, &pr.CreatedBy, &pr.CreatedAt, &pr.UpdatedAt, &pr.ProjectName)
	if err != nil {
		return nil, scanErr(err, reportTable)
	}
	pr.Entries = []entities.ProgressReportEntry{}
	pr.Images = []entities.ProgressReportImage{}
	pr.Activities = []entities.ProgressReportActivity{}
	return &pr, nil
}

func (r *progressReportRepository) scanEntry(row pgx.Row) (*entities.ProgressReportEntry, error) {
	var e entities.ProgressReportEntry
	err := row.Scan(&e.ID, &e.ReportID, &e.EmployeeID, &e.HoursWorked, &e.Notes, &e.CreatedAt, &e.UpdatedAt, &e.EmployeeName)
	if err != nil {
		return nil, scanErr(err, reportEntryTable)
	}
	return &e, nil
}

func (r *progressReportRepository) scanImage(row pgx.Row) (*entities.ProgressReportImage, error) {
	var i entities.ProgressReportImage
	if err := row.Scan(&i.ID, &i.ReportID, &i.ImagePath, &i.Name, &i.CreatedAt); err != nil {
		return nil, scanErr(err, reportImageTable)
	}
	return &i, nil
}

func (r *progressReportRepository) scanActivity(row pgx.Row) (*entities.ProgressReportActivity, error) {
	var a entities.ProgressReportActivity
	err := row.Scan(&a.ID, &a.ReportID, &a.ActivityType, &a.SubActivity, &a.Zona, &a.Row, &a.Table, &a.Quantity, &a.Unit, &a.Notes, &a.CreatedAt)
	if err != nil {
		return nil, scanErr(err, reportActivityTable)
	}
	return &a, nil
}

// childOf ограничивает дочерние записи отчётами, видимыми актору.
func childOf(scope authz.Scope) sq.Sqlizer {
	return ownedBy(scope, "pr.created_by")
}

func (r *progressReportRepository) attachChildren(ctx context.Context, q Querier, list ...*entities.ProgressReport) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(list))
	byID := make(map[uint64]*entities.ProgressReport, len(list))
	for _, pr := range list {
		ids = append(ids, pr.ID)
		byID[pr.ID] = pr
	}

	entries, err := queryMany(ctx, q, psql.Select(entryFields).From("progress_report_entries en").
		Join("employees e ON e.id = en.employee_id").
		Where(sq.Eq{"en.report_id": ids}).OrderBy("en.id"), r.scanEntry)
	if err != nil {
		return err
	}
	for _, e := range entries {
		byID[e.ReportID].Entries = append(byID[e.ReportID].Entries, *e)
	}

	images, err := queryMany(ctx, q, psql.Select(imageFields).From("progress_report_images im").
		Where(sq.Eq{"im.report_id": ids}).OrderBy("im.id"), r.scanImage)
	if err != nil {
		return err
	}
	for _, i := range images {
		byID[i.ReportID].Images = append(byID[i.ReportID].Images, *i)
	}

	activities, err := queryMany(ctx, q, psql.Select(activityFields).From("progress_report_activities a").
		Where(sq.Eq{"a.report_id": ids}).OrderBy("a.id"), r.scanActivity)
	if err != nil {
		return err
	}
	for _, a := range activities {
		byID[a.ReportID].Activities = append(byID[a.ReportID].Activities, *a)
	}
	return nil
}

func (r *progressReportRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.ProgressReport, error) {
	q := r.getQuerier(tx)
	builder := psql.Select(reportFields).From("progress_reports pr").
		Join("projects p ON p.id = pr.project_id").
		Where(sq.Eq{"pr.id": id})
	if vis := childOf(scope); vis != nil {
		builder = builder.Where(vis)
	}
	pr, err := findOne(ctx, q, builder, r.scanRow)
	if err != nil {
		return nil, err
	}
	return pr, r.attachChildren(ctx, q, pr)
}

func (r *progressReportRepository) GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.ProgressReport, uint64, error) {
	list, total, err := fetchList(ctx, r.storage, reportListParams, filter, []sq.Sqlizer{childOf(scope)}, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, r.attachChildren(ctx, r.storage, list...)
}

func (r *progressReportRepository) Create(ctx context.Context, tx pgx.Tx, pr entities.ProgressReport) (uint64, error) {
	builder := psql.Insert(reportTable).
		Columns("project_id", "date", "notes", "created_by").
		Values(pr.ProjectID, pr.Date, pr.Notes, pr.CreatedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, reportTable)
}

func (r *progressReportRepository) Update(ctx context.Context, tx pgx.Tx, pr entities.ProgressReport) error {
	builder := psql.Update(reportTable).
		Set("project_id", pr.ProjectID).
		Set("date", pr.Date).
		Set("notes", pr.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": pr.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", reportTable)
}

func (r *progressReportRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), reportTable, id)
}

func (r *progressReportRepository) FindEntryByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.ProgressReportEntry, error) {
	builder := psql.Select(entryFields).From("progress_report_entries en").
		Join("employees e ON e.id = en.employee_id").
		Join("progress_reports pr ON pr.id = en.report_id").
		Where(sq.Eq{"en.id": id})
	if vis := childOf(scope); vis != nil {
		builder = builder.Where(vis)
	}
	return findOne(ctx, r.getQuerier(tx), builder, r.scanEntry)
}

func (r *progressReportRepository) GetEntries(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.ProgressReportEntry, uint64, error) {
	params := listParams{
		From:         "progress_report_entries en",
		Joins:        []string{"JOIN employees e ON e.id = en.employee_id", "JOIN progress_reports pr ON pr.id = en.report_id"},
		Columns:      entryFields,
		CountColumn:  "en.id",
		Filters:      map[string]string{"report": "en.report_id", "employee": "en.employee_id"},
		Sorts:        map[string]string{"id": "en.id", "hours_worked": "en.hours_worked"},
		DefaultOrder: "en.id ASC",
	}
	return fetchList(ctx, r.storage, params, filter, []sq.Sqlizer{childOf(scope)}, r.scanEntry)
}

func (r *progressReportRepository) CreateEntry(ctx context.Context, tx pgx.Tx, e entities.ProgressReportEntry) (uint64, error) {
	builder := psql.Insert(reportEntryTable).
		Columns("report_id", "employee_id", "hours_worked", "notes").
		Values(e.ReportID, e.EmployeeID, e.HoursWorked, e.Notes)
	return insertReturningID(ctx, r.getQuerier(tx), builder, reportEntryTable)
}

func (r *progressReportRepository) UpdateEntry(ctx context.Context, tx pgx.Tx, e entities.ProgressReportEntry) error {
	builder := psql.Update(reportEntryTable).
		Set("employee_id", e.EmployeeID).
		Set("hours_worked", e.HoursWorked).
		Set("notes", e.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", reportEntryTable)
}

func (r *progressReportRepository) DeleteEntry(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), reportEntryTable, id)
}

func (r *progressReportRepository) FindImageByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.ProgressReportImage, error) {
	builder := psql.Select(imageFields).From("progress_report_images im").
		Join("progress_reports pr ON pr.id = im.report_id").
		Where(sq.Eq{"im.id": id})
	if vis := childOf(scope); vis != nil {
		builder = builder.Where(vis)
	}
	return findOne(ctx, r.getQuerier(tx), builder, r.scanImage)
}

func (r *progressReportRepository) GetImages(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.ProgressReportImage, uint64, error) {
	params := listParams{
		From:         "progress_report_images im",
		Joins:        []string{"JOIN progress_reports pr ON pr.id = im.report_id"},
		Columns:      imageFields,
		CountColumn:  "im.id",
		Filters:      map[string]string{"report": "im.report_id"},
		Sorts:        map[string]string{"id": "im.id", "uploaded_at": "im.created_at"},
		DefaultOrder: "im.id ASC",
	}
	return fetchList(ctx, r.storage, params, filter, []sq.Sqlizer{childOf(scope)}, r.scanImage)
}

func (r *progressReportRepository) CreateImage(ctx context.Context, tx pgx.Tx, img entities.ProgressReportImage) (uint64, error) {
	builder := psql.Insert(reportImageTable).
		Columns("report_id", "image_path", "name").
		Values(img.ReportID, img.ImagePath, img.Name)
	return insertReturningID(ctx, r.getQuerier(tx), builder, reportImageTable)
}

func (r *progressReportRepository) UpdateImageName(ctx context.Context, id uint64, name string) error {
	return execAffected(ctx, r.storage, psql.Update(reportImageTable).Set("name", name).Where(sq.Eq{"id": id}), "update", reportImageTable)
}

func (r *progressReportRepository) DeleteImage(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), reportImageTable, id)
}

func (r *progressReportRepository) FindActivityByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.ProgressReportActivity, error) {
	builder := psql.Select(activityFields).From("progress_report_activities a").
		Join("progress_reports pr ON pr.id = a.report_id").
		Where(sq.Eq{"a.id": id})
	if vis := childOf(scope); vis != nil {
		builder = builder.Where(vis)
	}
	return findOne(ctx, r.getQuerier(tx), builder, r.scanActivity)
}

func (r *progressReportRepository) GetActivities(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.ProgressReportActivity, uint64, error) {
	params := listParams{
		From:          "progress_report_activities a",
		Joins:         []string{"JOIN progress_reports pr ON pr.id = a.report_id"},
		Columns:       activityFields,
		CountColumn:   "a.id",
		SearchColumns: []string{"a.activity_type", "a.sub_activity"},
		Filters: map[string]string{
			"report":        "a.report_id",
			"activity_type": "a.activity_type",
			"zona":          "a.zona",
		},
		Sorts:        map[string]string{"id": "a.id", "activity_type": "a.activity_type"},
		DefaultOrder: "a.id ASC",
	}
	return fetchList(ctx, r.storage, params, filter, []sq.Sqlizer{childOf(scope)}, r.scanActivity)
}

func (r *progressReportRepository) CreateActivity(ctx context.Context, tx pgx.Tx, a entities.ProgressReportActivity) (uint64, error) {
	builder := psql.Insert(reportActivityTable).
		Columns("report_id", "activity_type", "sub_activity", "zona", "row_no", "table_no", "quantity", "unit", "notes").
		Values(a.ReportID, a.ActivityType, a.SubActivity, a.Zona, a.Row, a.Table, a.Quantity, a.Unit, a.Notes)
	return insertReturningID(ctx, r.getQuerier(tx), builder, reportActivityTable)
}

func (r *progressReportRepository) UpdateActivity(ctx context.Context, tx pgx.Tx, a entities.ProgressReportActivity) error {
	builder := psql.Update(reportActivityTable).
		Set("activity_type", a.ActivityType).
		Set("sub_activity", a.SubActivity).
		Set("zona", a.Zona).
		Set("row_no", a.Row).
		Set("table_no", a.Table).
		Set("quantity", a.Quantity).
		Set("unit", a.Unit).
		Set("notes", a.Notes).
		Where(sq.Eq{"id": a.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", reportActivityTable)
}

func (r *progressReportRepository) DeleteActivity(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), reportActivityTable, id)
}
