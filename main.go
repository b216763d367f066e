// Server binary for the game builder backend. It exposes the simulation
// engine and asset pipeline over HTTP and WebSocket for a browser
// frontend: initialize a game from a JSON description, feed it input,
// and pull rendered frames and state.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/codecravings/game-builder/assets"
	"github.com/codecravings/game-builder/config"
	"github.com/codecravings/game-builder/prefabs"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load configuration")
	}

	log := newLogger(cfg.Log)

	defaults, err := prefabs.LoadDefaults()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load prefab defaults")
	}

	cache, err := assets.OpenCache(cfg.Assets.CacheDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open asset cache")
	}

	var gen assets.Generator
	if cfg.Assets.APIKey != "" {
		gen = assets.NewOpenAIGenerator(cfg.Assets.APIKey, cfg.Assets.BaseURL, cfg.Assets.ImageModel, cfg.Assets.GenerationTimeout, log)
	} else {
		log.Warn().Msg("no image API key configured, artwork will use cache and fallbacks only")
	}

	srv := newServer(cfg, cache, gen, defaults, log)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("starting HTTP server")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.Pretty {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log = zerolog.New(output).With().Timestamp().Logger()
	} else {
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return log.Level(level)
}
