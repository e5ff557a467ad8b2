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
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/syncwell/pendingsync/internal/log"
	"github.com/syncwell/pendingsync/internal/storage/postgres"
	syncapi "github.com/syncwell/pendingsync/internal/sync"
	"github.com/syncwell/pendingsync/middleware"
)

type serverConfig struct {
	Addr            string        `env:"HTTP_ADDR,default=:8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT,default=10s"`
	GinMode         string        `env:"GIN_MODE,default=release"`
}

func main() {
	_ = godotenv.Load()

	lg := log.NewLogger()
	defer lg.Sync()

	ctx := context.Background()

	var srvCfg serverConfig
	if err := envconfig.Process(ctx, &srvCfg); err != nil {
		lg.Fatalf("failed to load server config: %v", err)
	}

	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		lg.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.ConnectDB(ctx, dbCfg, lg)
	if err != nil {
		lg.Fatalf("connection failed: %v", err)
	}

	// Schema is owned by the migration runner; just warn when it has not run.
	if sqlDB, err := db.DB(); err == nil {
		if version, err := postgres.MigrationVersion(ctx, sqlDB); err != nil || version == 0 {
			lg.Warn("pending_syncs schema not migrated, run cmd/migrate up")
		}
	}

	repo := postgres.NewSyncRepository(db)
	service := syncapi.NewSyncService(repo)
	handler := syncapi.NewSyncHandler(service)

	gin.SetMode(srvCfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(lg))
	router.Use(middleware.ErrorHandler())
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: router,
	}

	go func() {
		lg.Infof("listening on %s", srvCfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, srvCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorf("shutdown: %v", err)
	}
	lg.Info("shutdown complete")
}
