// Command weave runs the demo HTTP server for the inventory/cargo
// serialization engine: JSON and XML encode/decode, hex/base64 byte
// codecs, and Swagger documentation.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"weave/api"
	"weave/config"
	"weave/logger"
)

// @title weave API
// @version 1.0
// @description Schema-driven bidirectional serialization engine over JSON and XML, plus hex/base64 byte codecs.
// @BasePath /

func main() {
	cfg := config.Load()
	logger.Configure(cfg.LogLevel)
	logger.Info("starting %s", cfg.AppName)

	router := api.NewRouter(cfg.DocsDir, cfg.AppVersion, cfg.SwaggerHost, cfg.Policy)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		ErrorLog:     logger.SetHTTPServerErrorLog(),
	}

	go func() {
		logger.Info("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received signal %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error: %v", err)
	}
	logger.Info("weave shutdown complete")
}
