package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"
	"github.com/tendant/simple-blog/pkg/simpleblog/api"
	"github.com/tendant/simple-blog/pkg/simpleblog/config"
)

type Config struct {
	ApiKeySHA256 string `env:"API_KEY_SHA256" env-description:"SHA-256 of the API key guarding /api/v1; empty disables the check"`
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}
	var cmdConfig Config
	if err := cleanenv.ReadEnv(&cmdConfig); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	level, _ := config.ParseLogLevel(serverConfig.LogLevel)
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level, TimeFormat: time.DateTime}))
	slog.SetDefault(logger)

	services, err := serverConfig.BuildServices(logger)
	if err != nil {
		slog.Error("Failed to build services", "err", err)
		os.Exit(1)
	}
	slog.Info("Simple Blog server configured",
		"platform", serverConfig.Platform,
		"file_store", serverConfig.FileStore,
		"project", serverConfig.Appwrite.ProjectID,
	)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	mount := func(r chi.Router) {
		api.Mount(r, services.Auth, services.Content, logger)
	}
	if cmdConfig.ApiKeySHA256 != "" {
		apiKeyMiddleware, err := middleware.ApiKeyMiddleware(middleware.ApiKeyConfig{
			APIKeys: map[string]string{"key1": cmdConfig.ApiKeySHA256},
		})
		if err != nil {
			slog.Error("Failed initialize API Key middleware", "err", err)
			os.Exit(1)
		}
		routes := mount
		mount = func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			routes(r)
		}
	}
	server.R.Route("/api/v1", mount)

	server.Run()
}
