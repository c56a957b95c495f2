package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zytsoft/zytbooks/config"
	"github.com/zytsoft/zytbooks/internal/adminapi"
	"github.com/zytsoft/zytbooks/internal/app"
	"github.com/zytsoft/zytbooks/internal/webserver"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	server := webserver.Init(application)
	adminapi.RegisterRoutes()

	go func() {
		if err := server.Listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("web server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.S().Errorf("shutdown error: %v", err)
	}
}
