package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/auth"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/config"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/handler"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/identity"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/middleware"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/notify"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/repository/postgres"
	postgresDir "github.com/sis-thesqd/hub-thesquad-sub000/internal/repository/postgres/directory"
	serviceDir "github.com/sis-thesqd/hub-thesquad-sub000/internal/service/directory"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to create log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	entryRepo := postgresDir.NewEntryRepository(repoConfig)
	frameRepo := postgresDir.NewFrameRepository(repoConfig)
	deptRepo := postgresDir.NewDepartmentRepository(repoConfig)
	favoriteRepo := postgresDir.NewFavoriteRepository(repoConfig)
	settingRepo := postgresDir.NewSettingRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Services
	validator := serviceDir.NewResourceValidator(entryRepo, deptRepo)
	syncer := serviceDir.NewPlacementSynchronizer(entryRepo, logger)
	treeService := serviceDir.NewTreeService(entryRepo, deptRepo, logger)
	entryService := serviceDir.NewEntryService(entryRepo, favoriteRepo, txManager, validator, logger)
	frameService := serviceDir.NewFrameService(frameRepo, entryRepo, favoriteRepo, deptRepo, syncer, txManager, validator, logger)
	favoriteService := serviceDir.NewFavoriteService(favoriteRepo, entryRepo, deptRepo, logger)
	settingService := serviceDir.NewSettingService(settingRepo, deptRepo, logger)

	// Worker directory client (best-effort audit metadata)
	var workers *identity.Client
	if cfg.WorkerDirectoryURL != "" {
		workers = identity.NewClient(cfg.WorkerDirectoryURL, cfg.WorkerDirectoryKey, logger)
		logger.Info("worker directory enabled", "url", cfg.WorkerDirectoryURL)
	}

	// Change-notification broker for client cache invalidation
	broker := notify.NewBroker(cfg.SSEKeepAlive)
	defer broker.Close()

	// Handlers
	deptHandler := handler.NewDepartmentHandler(deptRepo, settingService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	entryHandler := handler.NewEntryHandler(entryService, broker, logger)
	frameHandler := handler.NewFrameHandler(frameService, workerDirectoryOrNil(workers), broker, logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, logger)
	settingHandler := handler.NewSettingHandler(settingService, broker, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", deptHandler.HealthCheck)

	// Department routes
	mux.HandleFunc("GET /api/departments", deptHandler.ListDepartments)
	mux.HandleFunc("GET /api/departments/{id}", deptHandler.GetDepartment)
	mux.HandleFunc("GET /api/departments/{id}/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /api/departments/{id}/resolve", treeHandler.Resolve)

	// Entry (folder) routes
	mux.HandleFunc("POST /api/entries", entryHandler.CreateFolder)
	mux.HandleFunc("POST /api/entries/reorder", entryHandler.Reorder)
	mux.HandleFunc("GET /api/entries/{id}", entryHandler.GetEntry)
	mux.HandleFunc("PATCH /api/entries/{id}", entryHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/entries/{id}", entryHandler.DeleteFolder)
	mux.HandleFunc("GET /api/entries/{id}/children", entryHandler.ListChildren)
	mux.HandleFunc("GET /api/entries/{id}/path", treeHandler.GetEntryPath)

	// Frame routes
	mux.HandleFunc("POST /api/frames", frameHandler.CreateFrame)
	mux.HandleFunc("GET /api/frames", frameHandler.ListFrames)
	mux.HandleFunc("GET /api/frames/{id}", frameHandler.GetFrame)
	mux.HandleFunc("PATCH /api/frames/{id}", frameHandler.UpdateFrame)
	mux.HandleFunc("DELETE /api/frames/{id}", frameHandler.DeleteFrame)

	// Favorite routes
	mux.HandleFunc("GET /api/favorites", favoriteHandler.List)
	mux.HandleFunc("POST /api/favorites/toggle", favoriteHandler.Toggle)

	// Settings routes
	mux.HandleFunc("GET /api/settings/department-order", settingHandler.GetDepartmentOrder)
	mux.HandleFunc("PUT /api/settings/department-order", settingHandler.PutDepartmentOrder)
	mux.HandleFunc("GET /api/settings/{key}", settingHandler.GetSetting)
	mux.HandleFunc("PUT /api/settings/{key}", settingHandler.PutSetting)

	// Change-notification stream
	mux.Handle("GET /api/events", broker)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// workerDirectoryOrNil keeps the typed-nil pitfall out of the handler: a nil
// *identity.Client must arrive as a nil interface.
func workerDirectoryOrNil(client *identity.Client) services.WorkerDirectory {
	if client == nil {
		return nil
	}
	return client
}
