package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Chadbowen248/burnit/internal/config"
	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/logger"
	"github.com/Chadbowen248/burnit/internal/router"
	"github.com/Chadbowen248/burnit/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Open(db.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
	})
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close(gdb)

	search := service.NewUSDAClient(cfg.USDAAPIKey, cfg.USDABaseURL, zlog.Named("usda"))

	// 设置 Gin 服务器
	r := router.SetupRouter(gdb, router.Options{
		SessionSecret: cfg.SessionSecret,
		Search:        search,
		Logger:        zlog,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("burnit server listening", zap.String("addr", cfg.ListenAddr), zap.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
