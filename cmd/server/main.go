package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appcontent "github.com/mediaassoc/backend/internal/application/content"
	identityapp "github.com/mediaassoc/backend/internal/application/identity"
	membershipapp "github.com/mediaassoc/backend/internal/application/membership"
	"github.com/mediaassoc/backend/internal/application/upload"
	"github.com/mediaassoc/backend/internal/domain/content"
	"github.com/mediaassoc/backend/internal/infrastructure/auth"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/mediaassoc/backend/internal/infrastructure/logger"
	"github.com/mediaassoc/backend/internal/infrastructure/migration"
	"github.com/mediaassoc/backend/internal/infrastructure/persistence"
	"github.com/mediaassoc/backend/internal/infrastructure/storage"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
	"github.com/mediaassoc/backend/internal/interfaces/http/handler"
	"github.com/mediaassoc/backend/internal/interfaces/http/middleware"
	"github.com/mediaassoc/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/mediaassoc/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Media Association API
//	@version		1.0
//	@description	Membership intake, the member ledger and public site content for the media association

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Media Association backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	collector := telemetry.Collector{
		Endpoint:       cfg.Telemetry.CollectorEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracesConfig{
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
		Collector:     collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdown(log, "tracer provider", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:        cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		ExportInterval: cfg.Telemetry.MetricsInterval,
		Collector:      collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdown(log, "meter provider", meterProvider.Shutdown)

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:   cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		Collector: collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdown(log, "logger provider", loggerProvider.Shutdown)
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.StartProfiling(telemetry.ProfilingConfig{
		Enabled:      cfg.Profiling.Enabled,
		Server:       cfg.Profiling.ServerAddress,
		App:          cfg.Telemetry.ServiceName,
		User:         cfg.Profiling.BasicAuthUser,
		Password:     cfg.Profiling.BasicAuthPassword,
		ProfileTypes: cfg.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer shutdown(log, "profiler", profiler.Shutdown)
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Database handle is opened lazily and shared by every repository
	gormLog := logger.NewSQLLogger(log, logger.SQLLogConfig{
		Level:      logger.MapGormLogLevel(cfg.Log.Level),
		HideParams: cfg.App.Env == "production",
	})
	provider := persistence.NewProvider(func(ctx context.Context) (*persistence.Database, error) {
		return persistence.NewDatabase(ctx, &cfg.Database, persistence.WithLogger(gormLog))
	})
	db, err := provider.Get(ctx)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := provider.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.App.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB for migrations", zap.Error(err))
		}
		if err := migration.ApplyUp(sqlDB, cfg.App.MigrationsDir, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	queryTracing := telemetry.QueryTracing{
		Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		WithVariables: cfg.Telemetry.DBLogFullSQL,
	}
	if err := telemetry.InstallQueryTracing(db.DB, queryTracing, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Warn("Database metrics unavailable", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	var metrics membershipapp.Metrics
	if meterProvider.IsEnabled() {
		membershipMetrics, err := telemetry.NewMembershipMetrics(telemetry.MembershipMetricsConfig{
			Meter:         meterProvider.Meter("mediaassoc.membership"),
			Logger:        log,
			StatsProvider: telemetry.NewGormArchivalStatsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Membership metrics unavailable", zap.Error(err))
		} else {
			membershipMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
			defer membershipMetrics.Stop()
			metrics = membershipMetrics
		}
	}

	// Repositories
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	renewalRepo := persistence.NewGormRenewalRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	jobRepo := persistence.NewGormArchivalJobRepository(db.DB).WithProcessingLease(cfg.Archival.ProcessingLease)
	adminRepo := persistence.NewGormAdminUserRepository(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	// Membership services
	archiver := membershipapp.NewArchiver(log,
		membershipapp.WithArchiverMetrics(metrics),
		membershipapp.WithMaxRetries(cfg.Archival.MaxRetries),
	)
	memberService := membershipapp.NewMemberService(memberRepo, txManager, archiver, metrics)
	renewalService := membershipapp.NewRenewalService(renewalRepo, txManager, archiver, metrics)
	ledgerService := membershipapp.NewLedgerService(ledgerRepo, metrics)
	jobService := membershipapp.NewArchivalJobService(jobRepo)

	if cfg.Archival.RetryEnabled {
		retrier := membershipapp.NewArchivalRetrier(jobRepo, txManager, metrics, membershipapp.RetrierConfig{
			BatchSize:           cfg.Archival.BatchSize,
			PollInterval:        cfg.Archival.PollInterval,
			CleanupEnabled:      cfg.Archival.CleanupRetention > 0,
			CleanupRetention:    cfg.Archival.CleanupRetention,
			MaxRetriesPerSecond: cfg.Archival.RetryRate,
		}, log)
		if err := retrier.Start(ctx); err != nil {
			log.Fatal("Failed to start archival retrier", zap.Error(err))
		}
		defer shutdown(log, "archival retrier", retrier.Stop)
		log.Info("Archival retrier started",
			zap.Int("batch_size", cfg.Archival.BatchSize),
			zap.Duration("poll_interval", cfg.Archival.PollInterval),
		)
	}

	// Identity
	checks := map[string]handler.Pinger{"database": db}
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisBlacklist.Close()
		}()
		blacklist = redisBlacklist
		checks["redis"] = redisBlacklist
	} else {
		log.Warn("Redis disabled, revoked sessions are tracked in memory only")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(adminRepo, jwtService, blacklist, log)
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Admin); err != nil {
		log.Fatal("Failed to create bootstrap admin", zap.Error(err))
	}

	// Uploads
	store, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize upload storage", zap.Error(err))
	}
	if s3Store, ok := store.(*storage.S3ObjectStorage); ok {
		checks["storage"] = s3Store
	}
	uploadService := upload.NewService(store, cfg.Storage, log)

	// Site content
	postService := appcontent.NewBlogPostService(persistence.NewGormBlogPostRepository(db.DB), log)
	eventService := appcontent.NewEventService(persistence.NewGormEventRepository(db.DB), log)
	resourceService := appcontent.NewResourceService(persistence.NewGormResourceRepository(db.DB), log)
	teamService := appcontent.NewTeamMemberService(persistence.NewGormTeamMemberRepository(db.DB), log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order matters: the request ID must exist before anything logs
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	})...)
	engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("http.server"), meterProvider.IsEnabled()))
	var profileAdmin gin.HandlerFunc
	if profiler.IsEnabled() {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
		profileAdmin = middleware.ProfilingAttributeInjector()
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	security := middleware.DefaultSecurityConfig()
	if cfg.Cookie.Secure {
		security.HSTSMaxAge = 365 * 24 * time.Hour
	}
	engine.Use(middleware.SecureWithConfig(security))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.RequestTimeout(cfg.HTTP.RequestTimeout))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	defer loginLimiter.Stop()
	submitLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	defer submitLimiter.Stop()

	session := middleware.RequireSession(middleware.SessionConfig{
		Tokens:     jwtService,
		Revoked:    blacklist,
		CookieName: cfg.Cookie.Name,
		Logger:     log,
	})

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, session),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	if strings.EqualFold(cfg.Storage.Backend, storage.BackendLocal) && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		engine.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	router.RegisterAPI(engine, router.NewRouter(engine), router.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.Cookie),
		Members:      handler.NewMemberHandler(memberService),
		Renewals:     handler.NewRenewalHandler(renewalService),
		Ledger:       handler.NewLedgerHandler(ledgerService),
		ArchivalJobs: handler.NewArchivalJobHandler(jobService),
		Uploads:      handler.NewUploadHandler(uploadService),
		System:       handler.NewSystemHandler(version, checks),
		Content: []router.ContentMount{
			{Path: "posts", Routes: handler.NewContentHandler[*content.BlogPost, appcontent.BlogPostRequest](postService, appcontent.ToBlogPostResponse)},
			{Path: "events", Routes: handler.NewContentHandler[*content.Event, appcontent.EventRequest](eventService, appcontent.ToEventResponse)},
			{Path: "resources", Routes: handler.NewContentHandler[*content.Resource, appcontent.ResourceRequest](resourceService, appcontent.ToResourceResponse)},
			{Path: "team", Routes: handler.NewContentHandler[*content.TeamMember, appcontent.TeamMemberRequest](teamService, appcontent.ToTeamMemberResponse)},
		},
	}, router.Guards{
		Session: session,
		Login:   middleware.AuthRateLimit(loginLimiter),
		Submit: middleware.RateLimitByKey(submitLimiter, func(c *gin.Context) string {
			return "submit:" + c.ClientIP()
		}),
		Profile: profileAdmin,
	})

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// shutdown runs a component's stop function with its own deadline
func shutdown(log *zap.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Error("Error stopping "+name, zap.Error(err))
	}
}
