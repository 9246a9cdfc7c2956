package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ntu-info/05-sununyunun/internal/config"
	"github.com/ntu-info/05-sununyunun/internal/store"

	neuroHttp "github.com/ntu-info/05-sununyunun/internal/http"
)

func main() {
	log, err := zap.NewProductionConfig().Build()
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.New(ctx, cfg.DatabaseURL, log)
	cancel()
	if err != nil {
		log.Fatal("failed to connect to store", zap.Error(err))
	}
	defer st.Close()

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	handler := neuroHttp.NewHandler(st, log)
	handler.Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		_ = app.Shutdown()
	}()

	log.Info("dissociation service listening", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
