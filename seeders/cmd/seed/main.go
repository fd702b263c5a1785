package main

import (
	"context"
	"flag"
	"os"

	"solarforyou/pkg/config"
	"solarforyou/pkg/database/postgresql"
	applogger "solarforyou/pkg/logger"
	"solarforyou/seeders"

	"go.uber.org/zap"
)

func main() {
	runAdmin := flag.Bool("admin", false, "Создать администратора со всеми привилегиями")
	runDictionaries := flag.Bool("dictionaries", false, "Наполнить справочники меток")
	runAll := flag.Bool("all", false, "Запустить все сидеры")
	showCatalogue := flag.Bool("catalogue", false, "Показать каталог привилегий")
	username := flag.String("username", envOr("ADMIN_USERNAME", "admin"), "Имя пользователя администратора")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "Email администратора")
	flag.Parse()

	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if *showCatalogue {
		seeders.LogCatalogue(logger)
		return
	}

	if !*runAdmin && !*runDictionaries && !*runAll {
		logger.Warn("Не выбран ни один сидер; флаги: -admin, -dictionaries, -all, -catalogue")
		flag.PrintDefaults()
		return
	}

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()
	ctx := context.Background()

	if *runAll || *runDictionaries {
		if err := seeders.SeedDictionaries(ctx, dbPool, logger); err != nil {
			logger.Fatal("Ошибка наполнения справочников", zap.Error(err))
		}
	}

	if *runAll || *runAdmin {
		opts := seeders.AdminOptions{
			Username: *username,
			Password: os.Getenv("ADMIN_PASSWORD"),
			Email:    *email,
		}
		if err := seeders.SeedAdmin(ctx, dbPool, opts, logger); err != nil {
			logger.Fatal("Ошибка создания администратора", zap.Error(err))
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
