package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type tagSeed struct {
	Name  string
	Color string
}

var projectTags = []tagSeed{
	{"Farma gruntowa", "#F59E0B"},
	{"Farma pływająca", "#3B82F6"},
	{"Dach", "#EF4444"},
	{"Priorytet", "#DC2626"},
}

var employeeTags = []tagSeed{
	{"Monter", "#10B981"},
	{"Elektryk", "#6366F1"},
	{"Brygadzista", "#F97316"},
	{"Kierowca", "#64748B"},
}

func seedTags(ctx context.Context, db *pgxpool.Pool, table string, tags []tagSeed, logger *zap.Logger) error {
	query := fmt.Sprintf("INSERT INTO %s (name, color) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING", table)
	created := 0
	for _, t := range tags {
		tag, err := db.Exec(ctx, query, t.Name, t.Color)
		if err != nil {
			return fmt.Errorf("%s %q: %w", table, t.Name, err)
		}
		created += int(tag.RowsAffected())
	}
	logger.Info("Метки добавлены", zap.String("table", table), zap.Int("created", created))
	return nil
}
