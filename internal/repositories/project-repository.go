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
	projectTable     = "projects"
	projectTagsTable = "project_tag_links"
	projectFields    = `p.id, p.name, p.client_id, p.country, p.city, p.street, p.post_code, p.localization,
		p.latitude, p.longitude, p.description, p.status, p.start_date, p.end_date, p.budget,
		p.created_by, p.created_at, p.updated_at, c.name`
)

var projectListParams = listParams{
	From:          "projects p",
	Joins:         []string{"JOIN clients c ON c.id = p.client_id"},
	Columns:       projectFields,
	CountColumn:   "p.id",
	SearchColumns: []string{"p.name", "p.city", "p.localization", "c.name"},
	Filters: map[string]string{
		"status": "p.status",
		"client": "p.client_id",
		"city":   "p.city",
	},
	Sorts: map[string]string{
		"id":         "p.id",
		"name":       "p.name",
		"status":     "p.status",
		"start_date": "p.start_date",
		"created_at": "p.created_at",
	},
	DefaultOrder: "p.created_at DESC",
}

type ProjectRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.Project, error)
	GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.Project, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, p entities.Project) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, p entities.Project) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	SetTags(ctx context.Context, tx pgx.Tx, projectID uint64, tagIDs []uint64) error
	NameExists(ctx context.Context, name string, excludeID uint64) (bool, error)
}

type projectRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProjectRepository(storage *pgxpool.Pool, logger *zap.Logger) ProjectRepositoryInterface {
	return &projectRepository{storage: storage, logger: logger}
}

func (r *projectRepository) getQuerier(tx pgx.Tx) Querier {
	return querierFor(r.storage, tx)
}

func (r *projectRepository) scanRow(row pgx.Row) (*entities.Project, error) {
	var p entities.Project
	err := row.Scan(&p.ID, &p.Name, &p.ClientID, &p.Country, &p.City, &p.Street, &p.PostCode, &p.Localization,
		&p.Latitude, &p.Longitude, &p.Description, &p.Status, &p.StartDate, &p.EndDate, &p.Budget,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.ClientName)
	if err != nil {
		return nil, scanErr(err, projectTable)
	}
	p.TagIDs = []uint64{}
	return &p, nil
}

// projectVisibility: автор проекта или пользователь, привязанный к клиенту проекта.
func projectVisibility(scope authz.Scope) sq.Sqlizer {
	if scope.All {
		return nil
	}
	return sq.Or{sq.Eq{"p.created_by": scope.UserID}, sq.Eq{"c.user_id": scope.UserID}}
}

func (r *projectRepository) attachTags(ctx context.Context, q Querier, projects ...*entities.Project) error {
	ids := make([]uint64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	links, err := loadLinks(ctx, q, projectTagsTable, "project_id", ids)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if tags, ok := links[p.ID]; ok {
			p.TagIDs = tags
		}
	}
	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64, scope authz.Scope) (*entities.Project, error) {
	q := r.getQuerier(tx)
	builder := psql.Select(projectFields).From("projects p").
		Join("clients c ON c.id = p.client_id").
		Where(sq.Eq{"p.id": id})
	if vis := projectVisibility(scope); vis != nil {
		builder = builder.Where(vis)
	}
	p, err := findOne(ctx, q, builder, r.scanRow)
	if err != nil {
		return nil, err
	}
	return p, r.attachTags(ctx, q, p)
}

func (r *projectRepository) GetAll(ctx context.Context, filter types.Filter, scope authz.Scope) ([]*entities.Project, uint64, error) {
	where := []sq.Sqlizer{projectVisibility(scope)}
	if tag, ok := filter.Filter["tag"]; ok {
		where = append(where, sq.Expr("EXISTS (SELECT 1 FROM project_tag_links l WHERE l.project_id = p.id AND l.tag_id = ?)", tag))
	}
	list, total, err := fetchList(ctx, r.storage, projectListParams, filter, where, r.scanRow)
	if err != nil {
		return nil, 0, err
	}
	return list, total, r.attachTags(ctx, r.storage, list...)
}

func (r *projectRepository) Create(ctx context.Context, tx pgx.Tx, p entities.Project) (uint64, error) {
	builder := psql.Insert(projectTable).
		Columns("name", "client_id", "country", "city", "street", "post_code", "localization",
			"latitude", "longitude", "description", "status", "start_date", "end_date", "budget", "created_by").
		Values(p.Name, p.ClientID, p.Country, p.City, p.Street, p.PostCode, p.Localization,
			p.Latitude, p.Longitude, p.Description, p.Status, p.StartDate, p.EndDate, p.Budget, p.CreatedBy)
	return insertReturningID(ctx, r.getQuerier(tx), builder, projectTable)
}

func (r *projectRepository) Update(ctx context.Context, tx pgx.Tx, p entities.Project) error {
	builder := psql.Update(projectTable).
		Set("name", p.Name).
		Set("client_id", p.ClientID).
		Set("country", p.Country).
		Set("city", p.City).
		Set("street", p.Street).
		Set("post_code", p.PostCode).
		Set("localization", p.Localization).
		Set("latitude", p.Latitude).
		Set("longitude", p.Longitude).
		Set("description", p.Description).
		Set("status", p.Status).
		Set("start_date", p.StartDate).
		Set("end_date", p.EndDate).
		Set("budget", p.Budget).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": p.ID})
	return execAffected(ctx, r.getQuerier(tx), builder, "update", projectTable)
}

func (r *projectRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, r.getQuerier(tx), projectTable, id)
}

func (r *projectRepository) SetTags(ctx context.Context, tx pgx.Tx, projectID uint64, tagIDs []uint64) error {
	return replaceLinks(ctx, tx, projectTagsTable, "project_id", projectID, tagIDs)
}

// NameExists сравнивает имена без учёта регистра.
func (r *projectRepository) NameExists(ctx context.Context, name string, excludeID uint64) (bool, error) {
	builder := psql.Select("1").From(projectTable).Where(sq.Expr("LOWER(name) = LOWER(?)", name))
	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	return exists(ctx, r.storage, builder)
}
