package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"solarforyou/internal/authz"
	"solarforyou/internal/controllers"
	"solarforyou/internal/listeners"
	"solarforyou/internal/repositories"
	"solarforyou/internal/services"
	"solarforyou/pkg/config"
	"solarforyou/pkg/eventbus"
	"solarforyou/pkg/filestorage"
	"solarforyou/pkg/mailer"
	"solarforyou/pkg/metrics"
	"solarforyou/pkg/middleware"
	"solarforyou/pkg/service"
	"solarforyou/pkg/websocket"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	hub *websocket.Hub,
	bus *eventbus.Bus,
	cfg *config.Config,
	logger *zap.Logger,
) {
	logger.Info("InitRouter: начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn)
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger)
	sessions := service.NewRedisSessionStore(redisClient, cfg.Session.TTL)
	mail := mailer.New(cfg.Mail.SendgridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress, logger)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, logger)
	profileRepo := repositories.NewProfileRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	clientRepo := repositories.NewClientRepository(dbConn, logger)
	projectRepo := repositories.NewProjectRepository(dbConn, logger)
	projectTagRepo := repositories.NewTagRepository(dbConn, repositories.ProjectTagTable)
	employeeTagRepo := repositories.NewTagRepository(dbConn, repositories.EmployeeTagTable)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, logger)
	quarterRepo := repositories.NewQuarterRepository(dbConn, logger)
	itemRepo := repositories.NewItemRepository(dbConn, logger)
	requisitionItemRepo := repositories.NewRequisitionItemRepository(dbConn)
	requisitionRepo := repositories.NewRequisitionRepository(dbConn, requisitionItemRepo, logger)
	hrRepo := repositories.NewHRRequisitionRepository(dbConn, logger)
	transportRepo := repositories.NewTransportRepository(dbConn, logger)
	reportRepo := repositories.NewProgressReportRepository(dbConn, logger)
	settingsRepo := repositories.NewUserSettingsRepository(dbConn)
	brigadeRepo := repositories.NewBrigadeRepository(dbConn)
	activityRepo := repositories.NewActivityConfigRepository(dbConn)
	sequenceRepo := repositories.NewSequenceRepository(dbConn)

	// --- 2. СЕРВИСЫ ---
	authPermissionService := services.NewAuthPermissionService(userRepo, profileRepo, cacheRepo, logger, cfg.Session.PrivilegeCache)
	authService := services.NewAuthService(userRepo, cacheRepo, sessions, jwtSvc, logger)
	sequenceService := services.NewSequenceService(sequenceRepo, logger)

	userService := services.NewUserService(txManager, userRepo, authPermissionService, logger)
	profileService := services.NewProfileService(txManager, profileRepo, userRepo, authPermissionService, logger)
	settingsService := services.NewUserSettingsService(txManager, settingsRepo, logger)
	clientService := services.NewClientService(txManager, clientRepo, logger)
	projectService := services.NewProjectService(txManager, projectRepo, logger)
	projectTagService := services.NewTagService(projectTagRepo, logger)
	employeeTagService := services.NewTagService(employeeTagRepo, logger)
	employeeService := services.NewEmployeeService(txManager, employeeRepo, quarterRepo, logger)
	quarterService := services.NewQuarterService(txManager, quarterRepo, employeeRepo, fileStorage, logger)
	brigadeService := services.NewBrigadeService(txManager, brigadeRepo, employeeRepo, settingsRepo, logger)
	itemService := services.NewItemService(txManager, itemRepo, sequenceService, logger)
	requisitionService := services.NewRequisitionService(txManager, requisitionRepo, requisitionItemRepo, itemRepo, sequenceService, bus, logger)
	hrService := services.NewHRRequisitionService(txManager, hrRepo, sequenceService, bus, logger)
	transportService := services.NewTransportService(txManager, transportRepo, sequenceService, bus, logger)
	reportService := services.NewProgressReportService(txManager, reportRepo, fileStorage, logger)
	activityService := services.NewActivityConfigService(txManager, activityRepo, projectRepo, fileStorage, logger)

	notificationService := services.NewNotificationService(requisitionRepo, hrRepo, mail, cfg.Mail.RequisitionRecipient, cfg.Server.BaseURL, logger)
	feedService := services.NewLiveFeedService(hub, authPermissionService, logger)
	listeners.NewNotificationListener(notificationService, feedService, userRepo, logger).Register(bus)

	// --- 3. КОНТРОЛЛЕРЫ ---
	authCtrl := controllers.NewAuthController(authService, authPermissionService, cfg.Session, logger)
	userCtrl := controllers.NewUserController(userService, logger)
	profileCtrl := controllers.NewProfileController(profileService, logger)
	settingsCtrl := controllers.NewUserSettingsController(settingsService, logger)
	clientCtrl := controllers.NewClientController(clientService, logger)
	projectCtrl := controllers.NewProjectController(projectService, logger)
	projectTagCtrl := controllers.NewTagController(projectTagService, logger)
	employeeTagCtrl := controllers.NewTagController(employeeTagService, logger)
	activityCtrl := controllers.NewActivityConfigController(activityService, logger)
	employeeCtrl := controllers.NewEmployeeController(employeeService, logger)
	quarterCtrl := controllers.NewQuarterController(quarterService, logger)
	brigadeCtrl := controllers.NewBrigadeController(brigadeService, logger)
	itemCtrl := controllers.NewItemController(itemService, logger)
	requisitionCtrl := controllers.NewRequisitionController(requisitionService, logger)
	exportCtrl := controllers.NewRequisitionExportController(requisitionService, logger)
	hrCtrl := controllers.NewHRRequisitionController(hrService, logger)
	transportCtrl := controllers.NewTransportController(transportService, logger)
	reportCtrl := controllers.NewProgressReportController(reportService, logger)
	wsCtrl := controllers.NewWebSocketController(hub, cfg.Server.CORSOrigins, logger)

	// --- 4. РОУТЕРЫ ---
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")
	runAuthRouter(api, authCtrl)

	authMW := middleware.NewAuthMiddleware(jwtSvc, sessions, authPermissionService, cfg.Session.CookieName, logger)
	secureGroup := api.Group("", authMW.Auth, middleware.Authorize(Policy(), authz.NewGatekeeper(), logger))

	runUserRouter(secureGroup, authCtrl, userCtrl, profileCtrl, settingsCtrl)
	runProjectRouter(secureGroup, projectCtrl, clientCtrl, projectTagCtrl, activityCtrl)
	runEmployeeRouter(secureGroup, employeeCtrl, employeeTagCtrl, brigadeCtrl)
	runQuarterRouter(secureGroup, quarterCtrl)
	runRequisitionRouter(secureGroup, itemCtrl, requisitionCtrl, exportCtrl)
	runHRRequisitionRouter(secureGroup, hrCtrl)
	runTransportRouter(secureGroup, transportCtrl)
	runProgressReportRouter(secureGroup, reportCtrl)

	secureGroup.GET("/ws", wsCtrl.ServeWs)

	logger.Info("InitRouter: создание маршрутов завершено")
}

// crud регистрирует стандартный набор маршрутов ресурса; обновление доступно и через PUT, и через PATCH.
func crud(g *echo.Group, path string, list, find, create, update, remove echo.HandlerFunc) {
	g.GET(path, list)
	g.GET(path+"/:id", find)
	g.POST(path, create)
	g.PUT(path+"/:id", update)
	g.PATCH(path+"/:id", update)
	g.DELETE(path+"/:id", remove)
}
