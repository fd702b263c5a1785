package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"solarforyou/internal/routes"
	"solarforyou/migrations"
	"solarforyou/pkg/config"
	"solarforyou/pkg/customvalidator"
	"solarforyou/pkg/database/postgresql"
	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/eventbus"
	applogger "solarforyou/pkg/logger"
	"solarforyou/pkg/metrics"
	appmiddleware "solarforyou/pkg/middleware"
	"solarforyou/pkg/utils"
	"solarforyou/pkg/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("Паника при обработке запроса",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Wewnętrzny błąd serwera", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{Timeout: cfg.Server.RequestTimeout}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-CSRFToken"},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	// Мобильный клиент ходит с Bearer-токеном и без cookie, CSRF ему не нужен.
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderAuthorization) != "" ||
				c.Path() == "/api/mobile/login" ||
				!strings.HasPrefix(c.Path(), "/api/")
		},
		TokenLookup:    "header:X-CSRFToken",
		CookieName:     "csrftoken",
		CookiePath:     "/",
		CookieSecure:   cfg.Session.Secure,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	// 3. Статика загруженных файлов
	absPath, err := filepath.Abs(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("не удалось получить абсолютный путь к каталогу загрузок", zap.Error(err))
	}
	e.Static("/uploads", absPath)

	// 4. Валидатор
	v, err := customvalidator.New()
	if err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = v

	// 5. PostgreSQL и Redis
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	if cfg.Server.MigrateOnStart {
		if err := postgresql.Migrate(dbConn, migrations.FS); err != nil {
			logger.Fatal("не удалось применить миграции", zap.Error(err))
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	// 6. Шина событий и лента
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New(logger)
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// 7. Маршруты
	routes.InitRouter(e, dbConn, redisClient, hub, bus, cfg, logger)

	// 8. Сервер
	go func() {
		logger.Info("Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	// письма и события ленты, опубликованные до остановки
	bus.Wait()
	logger.Info("Сервер остановлен")
}
