package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-roster/internal/handler"
	"github.com/noah-isme/college-roster/internal/persistence"
	"github.com/noah-isme/college-roster/internal/repository"
	"github.com/noah-isme/college-roster/internal/service"
	"github.com/noah-isme/college-roster/pkg/config"
	"github.com/noah-isme/college-roster/pkg/logger"
	"github.com/noah-isme/college-roster/pkg/storage"
)

// @title College Roster API
// @version 0.1.0
// @description Students, teachers and classrooms kept in flat record files
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	local, err := storage.NewLocalStorage(cfg.Storage.DataDir)
	if err != nil {
		logr.Fatal("failed to open data directory", zap.String("dir", cfg.Storage.DataDir), zap.Error(err))
	}

	var metrics *service.MetricsService
	var recorder persistence.Recorder
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
		recorder = metrics
	}

	catalog := repository.NewCatalog()
	store := persistence.NewStore(local, cfg.Storage, logr.Named("persistence"), recorder)
	persistenceSvc := service.NewPersistenceService(store, catalog, logr)
	persistenceSvc.Load()

	validate := validator.New()
	router := handler.NewRouter(handler.RouterDeps{
		APIPrefix:      cfg.APIPrefix,
		MetricsEnabled: cfg.Metrics.Enabled,
		Logger:         logr,
		Students:       service.NewStudentService(catalog.Students, validate, logr),
		Teachers:       service.NewTeacherService(catalog.Teachers, validate, logr),
		Classrooms:     service.NewClassroomService(catalog.Classrooms, catalog, validate, logr),
		Rosters:        service.NewRosterService(catalog.Classrooms, catalog, logr, nil, nil),
		Persistence:    persistenceSvc,
		Metrics:        metrics,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "data_dir", local.Path(""))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = shutdownAndSave(ctx, srv, cfg.Storage.SaveOnExit, persistenceSvc.Save, logr)
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownAndSave drains the server and then writes the catalog. When draining
// fails, handlers may still be running, so the save is skipped.
func shutdownAndSave(ctx context.Context, srv shutdowner, saveOnExit bool, save func() error, logr *zap.Logger) error {
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed, skipping save on exit", zap.Error(err))
		return err
	}
	if !saveOnExit {
		return nil
	}
	if err := save(); err != nil {
		logr.Error("save on exit failed", zap.Error(err))
		return err
	}
	logr.Info("catalog saved on exit")
	return nil
}
