package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/server"
	db "taskboard/repository/db"
	inmemory "taskboard/repository/inmemory"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("starting task board service")

	cfg := server.ReadConfig()

	var userRepo server.UserRepository
	var taskRepo server.TaskRepository

	dbStorage, err := db.NewStorage(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Warn("database unreachable, falling back to in-memory storage")
		inmem := inmemory.NewStorage()
		userRepo = inmem
		taskRepo = inmem
	} else {
		defer dbStorage.Close()
		if err := db.Migration(cfg.DatabaseURL, cfg.MigratePath); err != nil {
			logrus.WithError(err).Fatal("failed to apply migrations")
		}
		logrus.Info("migrations applied")
		userRepo = dbStorage
		taskRepo = dbStorage
	}

	api := server.NewTaskBoardAPI(userRepo, taskRepo, cfg)
	if api == nil {
		logrus.Fatal("failed to initialise API")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logrus.Infof("listening on %s:%d", cfg.Addr, cfg.Port)
		if err := api.Start(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logrus.Infof("received signal %v, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := api.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("graceful shutdown failed")
		} else {
			logrus.Info("graceful shutdown complete")
		}

	case err := <-serverErr:
		logrus.WithError(err).Error("server error")
	}

	logrus.Info("service stopped")
}
