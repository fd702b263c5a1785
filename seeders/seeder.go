package seeders

import (
	"context"

	"solarforyou/internal/authz"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AdminOptions - учётные данные первого администратора.
type AdminOptions struct {
	Username string
	Password string
	Email    string
}

// SeedAdmin создаёт администратора с профилем и всеми привилегиями каталога.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, opts AdminOptions, logger *zap.Logger) error {
	logger.Info("Запуск создания администратора", zap.String("username", opts.Username))
	if err := seedAdmin(ctx, db, opts, logger); err != nil {
		return err
	}
	logger.Info("Создание администратора завершено")
	return nil
}

// SeedDictionaries наполняет справочники меток проектов и сотрудников.
func SeedDictionaries(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("Запуск наполнения справочников")
	if err := seedTags(ctx, db, "project_tags", projectTags, logger); err != nil {
		return err
	}
	if err := seedTags(ctx, db, "employee_tags", employeeTags, logger); err != nil {
		return err
	}
	logger.Info("Наполнение справочников завершено")
	return nil
}

// LogCatalogue выводит коды привилегий, которые можно назначить профилю.
func LogCatalogue(logger *zap.Logger) {
	for _, p := range authz.Catalogue {
		logger.Info("Привилегия", zap.String("code", p.Code), zap.String("label", p.Label))
	}
}
