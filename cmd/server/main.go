package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/preload/backend/docs"
	appdocument "github.com/preload/backend/internal/application/document"
	appidentity "github.com/preload/backend/internal/application/identity"
	apppartner "github.com/preload/backend/internal/application/partner"
	appreconciliation "github.com/preload/backend/internal/application/reconciliation"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/auth"
	"github.com/preload/backend/internal/infrastructure/cache"
	"github.com/preload/backend/internal/infrastructure/config"
	"github.com/preload/backend/internal/infrastructure/event"
	"github.com/preload/backend/internal/infrastructure/lock"
	"github.com/preload/backend/internal/infrastructure/logger"
	"github.com/preload/backend/internal/infrastructure/pdf"
	"github.com/preload/backend/internal/infrastructure/persistence"
	"github.com/preload/backend/internal/infrastructure/storage"
	"github.com/preload/backend/internal/infrastructure/telemetry"
	"github.com/preload/backend/internal/interfaces/http/handler"
	"github.com/preload/backend/internal/interfaces/http/middleware"
	"github.com/preload/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs --parseInternal

//	@title			Preload API
//	@version		1.0
//	@description	Supplier document preload: invoices, credit and debit notes submitted by providers,
//	@description	their approval workflow and the purchase-order reconciliation of each document.

//	@contact.name	API Support
//	@contact.email	soporte@preload.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    handler.Version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	// tee application logs into the OTLP pipeline when it is enabled
	log := bootLog
	if logProvider.IsEnabled() {
		log, err = logger.New(logCfg, logger.WithCore(logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level))))
		if err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer logger.Sync(log)

	log.Info("Starting preload backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", handler.Version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiling.Enabled,
		ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Telemetry.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(profiler); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}
	meter := meterProvider.Meter("preload-backend")
	metrics, err := telemetry.NewPreloadMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.App.Env == "development",
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	checks := map[string]handler.HealthCheck{"database": db.Ping}

	// Redis backs token revocation and document locks across replicas
	var (
		blacklist auth.TokenBlacklist
		locker    shared.Locker
		once      middleware.IdempotencyStore
		rdb       *redis.Client
	)
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		blacklist = auth.NewRedisTokenBlacklist(rdb)
		locker = lock.NewRedisLocker(rdb)
		once = cache.NewRedisIdempotencyStore(rdb, "")
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		locker = lock.NewLocalLocker()
		local := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer local.Close()
		once = local
		log.Warn("Redis disabled, token revocation and document locks are process-local")
	}

	var objects appdocument.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err))
		}
		objects = s3
		checks["storage"] = s3.Ping
	} else {
		mem := storage.NewMemoryObjectStorage("http://localhost:" + cfg.App.Port + "/files")
		objects = mem
		checks["storage"] = mem.Ping
		log.Warn("Object storage disabled, attachments are kept in memory")
	}

	roleNames := identity.RoleNames{
		Administrator: cfg.Roles.Administrator,
		ReadOnly:      cfg.Roles.ReadOnly,
		Provider:      cfg.Roles.Provider,
		Society:       cfg.Roles.Society,
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	providerRepo := persistence.NewGormProviderRepository(db.DB)
	societyRepo := persistence.NewGormSocietyRepository(db.DB)
	assignmentRepo := persistence.NewGormUserSocietyRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	typeRepo := persistence.NewGormDocumentTypeRepository(db.DB)
	historyRepo := persistence.NewGormDocumentHistoryRepository(db.DB)
	lineRepo := persistence.NewGormPurchaseOrderLineRepository(db.DB)

	// Event bus: history rows and workflow counters follow document events
	eventBus := event.NewInMemoryEventBus(log)
	historyRecorder := event.NewHistoryRecorder(historyRepo)
	eventBus.Subscribe(historyRecorder, historyRecorder.EventTypes()...)
	metricsRecorder := event.NewMetricsRecorder(metrics)
	eventBus.Subscribe(metricsRecorder, metricsRecorder.EventTypes()...)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT, roleNames)
	scopes := appidentity.NewScopeResolver(providerRepo, societyRepo, assignmentRepo, log)
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist, roleNames, appidentity.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	userService := appidentity.NewUserService(userRepo, providerRepo, roleNames, log)
	providerService := apppartner.NewProviderService(providerRepo)
	societyService := apppartner.NewSocietyService(societyRepo, assignmentRepo, userRepo)
	documentService := appdocument.NewDocumentService(appdocument.DocumentServiceDeps{
		Documents: documentRepo,
		Types:     typeRepo,
		History:   historyRepo,
		Providers: providerRepo,
		Societies: societyRepo,
		Scopes:    scopes,
		Storage:   objects,
		Inspector: pdf.NewInspector(cfg.Documents.MaxPages),
		Locker:    locker,
	}, appdocument.Config{
		MaxAttachmentSize: cfg.Documents.MaxAttachmentSize,
		MaxPages:          cfg.Documents.MaxPages,
		ExportMaxRows:     cfg.Documents.ExportMaxRows,
	}, log)
	documentService.SetEventPublisher(eventBus)
	reconciliationService := appreconciliation.NewReconciliationService(
		documentRepo, typeRepo, societyRepo, lineRepo, scopes, metrics, log,
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist
	jwtCfg.Logger = log
	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.Enabled = cfg.Telemetry.Enabled
	if cfg.Telemetry.ServiceName != "" {
		tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	}

	engine, err := router.New(router.Config{
		HTTP:    cfg.HTTP,
		JWT:     jwtCfg,
		Tracing: tracingCfg,
		Meter:   meter,
		Logger:  log,

		Idempotency: once,
		Profiling:   profiler.IsEnabled(),
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
	}, router.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		User:           handler.NewUserHandler(userService),
		Provider:       handler.NewProviderHandler(providerService),
		Society:        handler.NewSocietyHandler(societyService),
		Document:       handler.NewDocumentHandler(documentService, cfg.Documents.MaxAttachmentSize),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService),
		System:         handler.NewSystemHandler(checks),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	engine.Close()
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("Error closing redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logs":   logProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
