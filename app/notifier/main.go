package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solarforyou/internal/repositories"
	"solarforyou/internal/services"
	"solarforyou/pkg/config"
	"solarforyou/pkg/database/postgresql"
	applogger "solarforyou/pkg/logger"
	"solarforyou/pkg/mailer"

	"go.uber.org/zap"
)

// Повторная отправка уведомлений по заявкам за последние сутки, письмо по которым не ушло.
// Запускается по расписанию (cron).
func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	requisitionRepo := repositories.NewRequisitionRepository(dbPool, repositories.NewRequisitionItemRepository(dbPool), logger)
	hrRepo := repositories.NewHRRequisitionRepository(dbPool, logger)
	mail := mailer.New(cfg.Mail.SendgridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress, logger)
	notificationService := services.NewNotificationService(requisitionRepo, hrRepo, mail, cfg.Mail.RequisitionRecipient, cfg.Server.BaseURL, logger)

	since := time.Now().Add(-24 * time.Hour)
	sent, failed := notificationService.SendPending(ctx, since)
	logger.Info("Повторная отправка уведомлений завершена",
		zap.Time("since", since),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
}
