package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	almanacadapter "dayboard/internal/adapters/almanac"
	newsadapter "dayboard/internal/adapters/news"
	"dayboard/internal/adapters/provider"
	"dayboard/internal/adapters/repo"
	weatheradapter "dayboard/internal/adapters/weather"
	"dayboard/internal/infra/cache"
	"dayboard/internal/infra/config"
	"dayboard/internal/infra/db"
	httpinfra "dayboard/internal/infra/http"
	loginfra "dayboard/internal/infra/log"
	"dayboard/internal/infra/metrics"
	almanacusecase "dayboard/internal/usecase/almanac"
	newsusecase "dayboard/internal/usecase/news"
	wallpaperusecase "dayboard/internal/usecase/wallpaper"
	weatherusecase "dayboard/internal/usecase/weather"
)

func main() {
	cfg := config.Load()
	log := loginfra.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.NewClient(cfg.RedisAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("api: нет подключения к redis")
	}
	defer redisClient.Close()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("api: нет подключения к БД")
	}
	defer pool.Close()

	assets := repo.NewAssets(pool)
	if err := assets.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("api: миграция схемы")
	}

	wallpaperStore := cache.NewWallpaperStore(redisClient)
	archiveStore := cache.NewArchiveStore(redisClient)
	exclusionStore := cache.NewExclusionStore(redisClient)
	settingsStore := cache.NewSettingsStore(redisClient)
	dayCache := cache.NewRedis(redisClient)

	registry := provider.NewRegistry(cfg, archiveStore, assets)
	wallpaperSvc := wallpaperusecase.NewService(
		settingsStore, wallpaperStore, exclusionStore, registry,
		cfg.Wallpaper.ResolveTimeout, time.Now,
		log.With().Str("component", "wallpaper").Logger(),
	)

	newsSvc := newsusecase.NewService(
		settingsStore, newsadapter.NewFetcher(10*time.Second), dayCache, cfg.News.Limit,
		log.With().Str("component", "news").Logger(),
	)

	client := &http.Client{Timeout: 10 * time.Second}
	almanacSvc := almanacusecase.NewService(
		settingsStore,
		almanacadapter.NewBaike(client, cfg.Almanac.BaikeBaseURL),
		almanacadapter.NewWikipedia(client, cfg.Almanac.WikipediaURLFormat),
		dayCache,
		log.With().Str("component", "almanac").Logger(),
	)

	weatherSvc := weatherusecase.NewService(
		settingsStore,
		weatheradapter.NewOpenMeteo(client, cfg.Weather.ForecastBaseURL, cfg.Weather.AirQualityBaseURL, cfg.Weather.GeocodingBaseURL),
		dayCache,
		log.With().Str("component", "weather").Logger(),
	)

	server := httpinfra.NewServer(log)
	handlers := &httpinfra.Handlers{
		Wallpaper: wallpaperSvc,
		Settings:  settingsStore,
		Cache:     wallpaperStore,
		Exclusion: exclusionStore,
		Assets:    assets,
		News:      newsSvc,
		Almanac:   almanacSvc,
		Weather:   weatherSvc,
		ImagesDir: cfg.Wallpaper.ImagesDir,
		Now:       time.Now,
		Log:       log.With().Str("component", "api").Logger(),
	}
	handlers.Mount(server.Router)

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api: сервер остановлен")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
