package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/feedkit/app/api"
	"github.com/lysyi3m/feedkit/app/cfg"
	"github.com/lysyi3m/feedkit/app/fetch"
	"github.com/lysyi3m/feedkit/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	fetch.Version = appCfg.Version

	slog.Info("Starting feedkit server", "version", appCfg.Version)

	catalogue := sources.NewCatalogue(appCfg.SourcesDir)
	if err := catalogue.Run(); err != nil {
		slog.Error("Failed to load sources", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "dir", appCfg.SourcesDir, "total", catalogue.Count(), "enabled", len(catalogue.Enabled()))

	fetchOpts := fetch.Options{
		Timeout:      appCfg.Timeout,
		MaxRedirects: appCfg.MaxRedirects,
	}
	if appCfg.MaxRedirects == 0 {
		fetchOpts.MaxRedirects = fetch.NoRedirects
	}
	if appCfg.UserAgent != "" {
		fetchOpts.Headers = map[string]string{"User-Agent": appCfg.UserAgent}
	}

	handler := api.NewHandler(catalogue, fetch.NewFetcher(nil), api.Options{
		Fetch:   fetchOpts,
		BaseURL: appCfg.BaseUrl,
		Version: appCfg.Version,
	})
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
