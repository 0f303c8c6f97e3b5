package main

import (
	"ahaar-backend/cmd/config"
	migration "ahaar-backend/cmd/database/migrate"
	"ahaar-backend/internal/utils"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	utils.LoadConfig()
	appLog := utils.NewLogger(utils.GetConfig("LOG_LEVEL"))

	db, err := config.ConnectDB()
	if err != nil {
		appLog.WithError(err).Fatal("database connection failed")
	}

	if err := migration.Migrate(db); err != nil {
		appLog.WithError(err).Fatal("database migration failed")
	}

	app, err := config.NewApp(db, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("failed to build application")
	}

	if err := app.Sweeper.Start(); err != nil {
		appLog.WithError(err).Fatal("failed to start expiry sweeper")
	}

	go func() {
		port := utils.GetConfig("PORT")
		appLog.WithField("port", port).Info("server starting")
		if err := app.Fiber.Listen(":" + port); err != nil {
			appLog.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Fiber.ShutdownWithContext(ctx); err != nil {
		appLog.WithError(err).Error("server shutdown failed")
	}

	select {
	case <-app.Sweeper.Stop().Done():
	case <-ctx.Done():
		appLog.Warn("sweep still running at shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
