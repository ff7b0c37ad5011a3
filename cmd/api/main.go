package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe-discovery/internal/api"
	"recipe-discovery/internal/core/document"
	"recipe-discovery/internal/core/recipe"
	"recipe-discovery/internal/core/search"
	"recipe-discovery/internal/core/session"
	"recipe-discovery/internal/infrastructure/config"
	"recipe-discovery/internal/pkg/common"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.String("document_backend", cfg.DocumentStore.Backend),
		zap.String("session_backend", cfg.Session.Backend),
	)

	// 文件庫
	fetcher, err := document.NewFetcher(cfg.DocumentStore)
	if err != nil {
		common.LogFatal("Failed to initialize document store", zap.Error(err))
	}

	// session 儲存
	store, err := session.NewStore(cfg.Session)
	if err != nil {
		common.LogFatal("Failed to initialize session store", zap.Error(err))
	}
	defer func() {
		if err := session.Close(store); err != nil {
			common.LogError("Failed to close session store", zap.Error(err))
		}
	}()

	catalog := recipe.NewCatalog(fetcher, cfg.DocumentStore)
	persister := session.NewPersister(store, cfg.Session.KeyPrefix)
	searchSvc := search.NewService(catalog, persister)

	router := api.SetupRouter(cfg, api.Dependencies{
		Search:       searchSvc,
		SessionStore: store,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 等待中斷信號或啟動失敗
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
		return
	}

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
