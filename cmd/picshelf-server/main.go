package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picshelf/picshelf/gallery/application"
	"github.com/picshelf/picshelf/gallery/persistence"
	"github.com/picshelf/picshelf/internal/middleware"
	"github.com/picshelf/picshelf/internal/rest"
	"github.com/picshelf/picshelf/shared/config"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	cache, err := persistence.OpenMetadataCache(cfg.CacheFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CacheFile).Msg("Failed to open metadata cache")
	}

	lib := application.NewLibrary(cache, persistence.NewCaptionStore())

	service := gin.New()
	service.Use(middleware.LoggingMiddleware())
	service.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(service, lib, cfg.LibraryDir)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: service,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("library", cfg.LibraryDir).Msg("Starting picshelf server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
