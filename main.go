// @title           Todo Task API
// @version         1.0
// @description     CRUD API for todo tasks with completion toggling and statistics
// @host            localhost:3001
// @BasePath        /

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"todo-api/config"
	"todo-api/db"
	_ "todo-api/docs"
	taskhandlers "todo-api/handlers"
	"todo-api/middlewares"
	"todo-api/routes"
	"todo-api/services"
	"todo-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid environment", "err", err)
	}

	logger, err := utils.NewLogger(os.Stderr, cfg.LogLevel, cfg.Production())
	if err != nil {
		log.Fatal("Failed to create logger", "err", err)
	}
	logger.Info("Environment validation passed", "env", cfg.Env, "port", cfg.Port, "database", db.Host(cfg.DatabaseURL))

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	repo, err := db.Open(connectCtx, cfg.DatabaseURL, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}

	errs := &utils.ErrorWriter{Logger: logger, Development: cfg.Development()}
	taskHandler := taskhandlers.NewTaskHandler(services.NewTaskService(repo), errs)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, taskHandler, repo, errs)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.CORSOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	var handler http.Handler = router
	handler = middlewares.Recover(errs)(handler)
	handler = cors(handler)
	handler = middlewares.RequestLogger(logger)(handler)
	handler = middlewares.SecurityHeaders(handler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", "http://localhost"+cfg.Addr(), "docs", "http://localhost"+cfg.Addr()+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "err", err)
			// Route the failure through the same shutdown path as a signal.
			if p, err := os.FindProcess(os.Getpid()); err == nil {
				_ = p.Signal(syscall.SIGTERM)
			}
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				shutdownErr := srv.Shutdown(ctx)
				closeErr := repo.Close()
				if closeErr == nil {
					logger.Info("Database connection closed")
				}
				return errors.Join(shutdownErr, closeErr)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server exited", "code", exitCode)
	os.Exit(exitCode)
}
