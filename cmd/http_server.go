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

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/auth"
	authPostgres "github.com/frahmantamala/timesheet-management/internal/auth/postgres"
	"github.com/frahmantamala/timesheet-management/internal/project"
	projectPostgres "github.com/frahmantamala/timesheet-management/internal/project/postgres"
	"github.com/frahmantamala/timesheet-management/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/timesheet-management/internal/timesheet/postgres"
	"github.com/frahmantamala/timesheet-management/internal/transport"
	"github.com/frahmantamala/timesheet-management/internal/transport/rest"
	"github.com/frahmantamala/timesheet-management/internal/user"
	userPostgres "github.com/frahmantamala/timesheet-management/internal/user/postgres"
	"github.com/frahmantamala/timesheet-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
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
	Config           *internal.Config
	DB               *sqlx.DB
	GormDB           *gorm.DB
	Router           *chi.Mux
	Logger           *slog.Logger
	AuthHandler      *auth.Handler
	UserHandler      *user.Handler
	ProjectHandler   *project.Handler
	TimesheetHandler *timesheet.Handler
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
		deps.AuthHandler,
		deps.UserHandler,
		deps.ProjectHandler,
		deps.TimesheetHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
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

	logger.Init(config.Logging.Format, config.Logging.Level)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the same pgx pool so there is a single set of
	// connection limits to tune.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration)

	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	projectRepo := projectPostgres.NewProjectRepository(gormDB)
	timesheetRepo := timesheetPostgres.NewTimesheetRepository(gormDB)

	authService := auth.NewService(authRepo, tokenGen, appLogger)
	// Timesheet rows hold the references that block project code and user
	// deletion, so the timesheet repository doubles as the counter.
	userService := user.NewService(userRepo, timesheetRepo, appLogger)
	projectService := project.NewService(projectRepo, timesheetRepo, appLogger)
	timesheetService := timesheet.NewService(timesheetRepo, projectService, config.Policy.AllowReopenApproved, appLogger)

	baseHandler := transport.NewBaseHandler(appLogger)

	return &Dependencies{
		Config:           config,
		Logger:           appLogger,
		DB:               db,
		GormDB:           gormDB,
		Router:           chi.NewRouter(),
		AuthHandler:      auth.NewHandler(authService),
		UserHandler:      user.NewHandler(userService),
		ProjectHandler:   project.NewHandler(baseHandler, projectService),
		TimesheetHandler: timesheet.NewHandler(timesheetService),
	}, nil
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
