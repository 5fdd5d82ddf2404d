package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/announcement"
	announcementPostgres "github.com/jovitools/portal/internal/announcement/postgres"
	"github.com/jovitools/portal/internal/auth"
	authPostgres "github.com/jovitools/portal/internal/auth/postgres"
	"github.com/jovitools/portal/internal/core/events"
	"github.com/jovitools/portal/internal/entitlement"
	entitlementPostgres "github.com/jovitools/portal/internal/entitlement/postgres"
	"github.com/jovitools/portal/internal/platform"
	platformPostgres "github.com/jovitools/portal/internal/platform/postgres"
	"github.com/jovitools/portal/internal/presence"
	"github.com/jovitools/portal/internal/provision"
	provisionPostgres "github.com/jovitools/portal/internal/provision/postgres"
	"github.com/jovitools/portal/internal/storage"
	"github.com/jovitools/portal/internal/transport/rest"
	"github.com/jovitools/portal/internal/user"
	userPostgres "github.com/jovitools/portal/internal/user/postgres"
	"github.com/jovitools/portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	DB        *sqlx.DB
	Redis     *redis.Client
	Router    *chi.Mux
	Handlers  rest.Handlers
	CoversDir string
	Presence  *presence.Subscriber
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Redis,
		deps.Handlers,
		deps.Config.Server.AllowedOrigins,
		deps.CoversDir,
		deps.Logger,
	)

	// Presence view stays current for as long as the server runs.
	presenceCtx, stopPresence := context.WithCancel(context.Background())
	defer stopPresence()
	go func() {
		if err := deps.Presence.Run(presenceCtx); err != nil {
			slog.Error("Presence subscriber stopped", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		stopPresence()
		if err := deps.Redis.Close(); err != nil {
			slog.Error("Redis close error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Env)
	appLogger := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	redisClient, err := initRedis(config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	coverStore, err := storage.NewFilesystemStore(config.Storage.CoversDir, config.Storage.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cover store: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)
	registerAuditHandlers(eventBus, appLogger)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)

	userRepo := userPostgres.NewRepository(gormDB)
	userService := user.NewService(userRepo)

	platformRepo := platformPostgres.NewRepository(gormDB)
	platformService := platform.NewService(platformRepo, userService)

	entitlementRepo := entitlementPostgres.NewRepository(gormDB)
	entitlementService := entitlement.NewService(entitlementRepo, eventBus, appLogger)

	announcementRepo := announcementPostgres.NewRepository(gormDB)
	announcementService := announcement.NewService(announcementRepo)

	provisionRepo := provisionPostgres.NewRepository(gormDB)
	provisionService := provision.NewService(provisionRepo, config.Security.BCryptCost, appLogger)

	aggregator := presence.NewAggregator()
	subscriber := presence.NewSubscriber(redisClient, config.Redis.PresenceChannel, aggregator, appLogger)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Platform:     platform.NewHandler(platformService),
		Entitlement:  entitlement.NewHandler(entitlementService),
		Announcement: announcement.NewHandler(announcementService),
		Presence:     presence.NewHandler(aggregator),
		Provision:    provision.NewHandler(provisionService),
		Storage:      storage.NewHandler(coverStore),
	}

	return &Dependencies{
		Config:    config,
		Logger:    appLogger,
		DB:        db,
		Redis:     redisClient,
		Router:    chi.NewRouter(),
		Handlers:  handlers,
		CoversDir: coverStore.Dir(),
		Presence:  subscriber,
	}, nil
}

// registerAuditHandlers logs every entitlement mutation an administrator
// performs.
func registerAuditHandlers(bus *events.EventBus, lg *slog.Logger) {
	auditTypes := []string{
		events.EventGrantsReconciled,
		events.EventExpirationAdjusted,
		events.EventUserBlocked,
		events.EventUserUnblocked,
		events.EventUserDeleted,
	}
	for _, eventType := range auditTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			lg.Info("audit",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-pooled stdlib connection so both
// share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}

func initRedis(cfg internal.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := internal.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
