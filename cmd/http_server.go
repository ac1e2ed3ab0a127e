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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	internal "github.com/rizkypratama/maintenance-portal/internal"
	"github.com/rizkypratama/maintenance-portal/internal/auth"
	authpostgres "github.com/rizkypratama/maintenance-portal/internal/auth/postgres"
	"github.com/rizkypratama/maintenance-portal/internal/gallery"
	gallerypostgres "github.com/rizkypratama/maintenance-portal/internal/gallery/postgres"
	"github.com/rizkypratama/maintenance-portal/internal/mediastore"
	"github.com/rizkypratama/maintenance-portal/internal/report"
	reportpostgres "github.com/rizkypratama/maintenance-portal/internal/report/postgres"
	"github.com/rizkypratama/maintenance-portal/internal/session"
	"github.com/rizkypratama/maintenance-portal/internal/transport/rest"
	"github.com/rizkypratama/maintenance-portal/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle portal requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the same pgx connection pool the sqlx handle owns.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	media, err := mediastore.NewCloudinaryStore(mediastore.Config{
		CloudName:     config.Cloudinary.CloudName,
		APIKey:        config.Cloudinary.APIKey,
		APISecret:     config.Cloudinary.APISecret,
		ReportFolder:  config.Cloudinary.ReportFolder,
		GalleryFolder: config.Cloudinary.GalleryFolder,
		UploadTimeout: config.Cloudinary.UploadTimeout,
	}, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	codec := session.NewCodec(config.Security.SessionSecret, config.Security.SessionTTL)
	cookies := session.NewCookieWriter(config.IsProduction(), codec.TTL())

	userRepo := authpostgres.NewUserRepository(gormDB)
	authService := auth.NewService(userRepo, codec, config.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService, codec, cookies)

	reportRepo := reportpostgres.NewReportRepository(gormDB)
	statsRepo := reportpostgres.NewStatsRepository(db)
	reportService := report.NewService(reportRepo, statsRepo, userRepo, media, lg)
	reportHandler := report.NewHandler(reportService, nil)

	galleryRepo := gallerypostgres.NewGalleryRepository(gormDB)
	galleryStatsRepo := gallerypostgres.NewStatsRepository(db)
	galleryService := gallery.NewService(galleryRepo, galleryStatsRepo, userRepo, media, lg)
	galleryHandler := gallery.NewHandler(galleryService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterDeps{
		DB:             db.DB,
		AuthHandler:    authHandler,
		ReportHandler:  reportHandler,
		GalleryHandler: galleryHandler,
		Sessions:       codec,
		AllowedOrigins: config.Server.AllowedOrigins,
		Logger:         lg,
	})

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
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
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
