package provider

import (
	"net/http"
	"time"

	"dayboard/internal/domain"
	"dayboard/internal/infra/config"
)

// NewRegistry собирает реестр стратегий-провайдеров для движка.
// Провайдер картинки дня присутствует в реестре, хотя на него не
// указывает ни один источник из настроек.
func NewRegistry(cfg config.AppConfig, archive domain.ArchiveCache, assets domain.AssetRepo) map[string]domain.WallpaperProvider {
	client := &http.Client{Timeout: 10 * time.Second}

	registry := map[string]domain.WallpaperProvider{}
	for _, p := range []domain.WallpaperProvider{
		NewLocal(cfg.Wallpaper.ImagesDir, cfg.Wallpaper.ImagesBasePath),
		NewUploaded(assets),
		NewDailyPhotoRandom(client, cfg.Providers.DailyPhotoBaseURL, archive),
		NewDailyPhotoToday(client, cfg.Providers.DailyPhotoBaseURL),
		NewCollection(client, cfg.Providers.CollectionBaseURL),
		NewFeatured(client, cfg.Providers.FeaturedBaseURL),
		NewGradient(),
	} {
		registry[p.Name()] = p
	}
	return registry
}
