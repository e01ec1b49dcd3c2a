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

	"github.com/publica-project/publica/internal"
	"github.com/publica-project/publica/internal/accesscontrol"
	"github.com/publica-project/publica/internal/article"
	articlePostgres "github.com/publica-project/publica/internal/article/postgres"
	"github.com/publica-project/publica/internal/auth"
	authPostgres "github.com/publica-project/publica/internal/auth/postgres"
	"github.com/publica-project/publica/internal/book"
	bookPostgres "github.com/publica-project/publica/internal/book/postgres"
	"github.com/publica-project/publica/internal/docs"
	"github.com/publica-project/publica/internal/media"
	mediaPostgres "github.com/publica-project/publica/internal/media/postgres"
	"github.com/publica-project/publica/internal/media/storage"
	"github.com/publica-project/publica/internal/obs"
	"github.com/publica-project/publica/internal/resourcepermission"
	rpPostgres "github.com/publica-project/publica/internal/resourcepermission/postgres"
	"github.com/publica-project/publica/internal/role"
	rolePostgres "github.com/publica-project/publica/internal/role/postgres"
	"github.com/publica-project/publica/internal/transport/middleware"
	"github.com/publica-project/publica/internal/transport/rest"
	"github.com/publica-project/publica/internal/user"
	userPostgres "github.com/publica-project/publica/internal/user/postgres"
	"github.com/publica-project/publica/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const openapiSpec = "api/openapi.yml"

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
	Router    *chi.Mux
	Rebuilder *accesscontrol.Rebuilder
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	// build the permission table before accepting traffic; until the first
	// successful rebuild every guarded route denies
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := deps.Rebuilder.Rebuild(ctx); err != nil {
		cancel()
		deps.Logger.Error("initial permission table build failed", "error", err)
		os.Exit(1)
	}
	cancel()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.L()

	if err := docs.Validate(context.Background(), openapiSpec); err != nil {
		return nil, fmt.Errorf("openapi contract: %w", err)
	}

	sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over the db pool: %w", err)
	}

	provider, uploadsDir, err := initStorage(config.Upload)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage provider: %w", err)
	}

	// repositories
	authUsers := authPostgres.NewUserRepository(gormDB)
	authRoles := authPostgres.NewRoleRepository(gormDB)
	userRepo := userPostgres.NewRepository(gormDB)
	roleRepo := rolePostgres.NewRepository(gormDB)
	rpRepo := rpPostgres.NewRepository(gormDB)
	ruleStore := rpPostgres.NewRuleStore(gormDB)
	mediaRepo := mediaPostgres.NewRepository(gormDB)
	bookRepo := bookPostgres.NewRepository(gormDB)
	articleRepo := articlePostgres.NewRepository(gormDB)

	// access control core
	rebuilder := accesscontrol.NewRebuilder(ruleStore, rest.Routes(), log)
	guard := accesscontrol.NewGuard(rebuilder, log)

	// services
	tokens := auth.NewTokenIssuer(config.Security.JWTSecret, config.Security.TokenExpiryDays)
	passwords := auth.NewPasswordHasher(config.Security.PBKDF2Iterations)
	authService := auth.NewService(authUsers, authRoles, tokens, passwords, config.Bootstrap, log)
	userService := user.NewService(userRepo, authRoles, passwords, log)
	roleService := role.NewService(roleRepo, log)
	rpService := resourcepermission.NewService(rpRepo, rebuilder, config.AccessControl.AutoRebuild, log)
	mediaService := media.NewService(mediaRepo, provider, log)
	bookService := book.NewService(bookRepo, authUsers, mediaRepo, log)
	articleService := article.NewService(articleRepo, authUsers, log)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(authService),
		Users:       user.NewHandler(userService),
		Roles:       role.NewHandler(roleService),
		Permissions: resourcepermission.NewHandler(rpService),
		Media:       media.NewHandler(mediaService),
		Books:       book.NewHandler(bookService),
		Articles:    article.NewHandler(articleService),
	}

	opts := rest.Options{
		Guard:      guard,
		Health:     rest.NewHealthHandler(sqlDB.DB),
		Docs:       docs.Handler(openapiSpec),
		UploadsDir: uploadsDir,
	}
	if config.Observability.Metrics.Enabled {
		obs.Init()
		opts.Metrics = obs.Handler()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORS(config.Server.AllowedOrigins))
	if config.Observability.Metrics.Enabled {
		router.Use(obs.Instrument)
	}

	rest.RegisterAllRoutes(router, handlers, opts)

	return &Dependencies{
		Config:    config,
		Logger:    log,
		DB:        sqlDB,
		Router:    router,
		Rebuilder: rebuilder,
	}, nil
}

// initDB opens the pgx-backed connection pool the whole process shares.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initStorage picks the configured upload provider. The second return value
// is the static mount directory, set only for local storage.
func initStorage(cfg internal.UploadConfig) (storage.Provider, string, error) {
	switch cfg.Provider {
	case "s3":
		provider, err := storage.NewS3(context.Background(), cfg)
		return provider, "", err
	default:
		provider, err := storage.NewLocal(cfg.Folder, rest.UploadsMount)
		if err != nil {
			return nil, "", err
		}
		return provider, provider.Folder(), nil
	}
}
