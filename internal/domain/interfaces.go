package domain

import (
	"context"
	"time"
)

// WallpaperProvider стратегия получения одного кандидата обоев.
// Available проверяется до первой попытки: несконфигурированный провайдер
// пропускается целиком, не тратя бюджет ретраев.
type WallpaperProvider interface {
	Name() string
	Available(params ProviderParams) bool
	Fetch(ctx context.Context, params ProviderParams) (WallpaperItem, error)
}

// WallpaperCache дневной кэш результата резолва.
type WallpaperCache interface {
	Get(ctx context.Context, dayKey string) (WallpaperItem, bool, error)
	Set(ctx context.Context, dayKey string, item WallpaperItem) error
	Clear(ctx context.Context) error
}

// ArchiveCache дневной кэш сырого архива фотопровайдера.
type ArchiveCache interface {
	Get(ctx context.Context, dayKey string) ([]ArchiveImage, bool, error)
	Set(ctx context.Context, dayKey string, images []ArchiveImage) error
	Clear(ctx context.Context) error
}

// ExclusionStore ограниченный по ёмкости список отклонённых токенов
// (id и URL). При переполнении вытесняются самые старые записи.
type ExclusionStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, tokens ...string) error
	Clear(ctx context.Context) error
}

// SettingsRepo хранит настройки пользователя.
type SettingsRepo interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, patch map[string]any) (Settings, error)
}

// AssetRepo управляет загруженными изображениями.
type AssetRepo interface {
	Save(ctx context.Context, asset UploadedAsset) (UploadedAsset, error)
	ListAll(ctx context.Context) ([]UploadedAsset, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// WallpaperService публичная граница движка обоев. Resolve тотален:
// ошибок наружу нет, любой отказ заканчивается офлайн-градиентом.
type WallpaperService interface {
	Resolve(ctx context.Context, forceRefresh bool) WallpaperItem
	Reject(ctx context.Context, item WallpaperItem) WallpaperItem
}

// WeatherFetcher внешний погодный API: прогноз, качество воздуха,
// геокодирование города. Отказ качества воздуха не валит прогноз.
type WeatherFetcher interface {
	Forecast(ctx context.Context, lat, lon float64, tzName string) (Forecast, error)
	AirQualityIndex(ctx context.Context, lat, lon float64) (int, error)
	Geocode(ctx context.Context, city, lang string) ([]GeoCandidate, error)
}

// OnThisDayFetcher источник исторических событий на дату.
type OnThisDayFetcher interface {
	Events(ctx context.Context, mm, dd, lang string) (OnThisDayResult, error)
}

// FeedFetcher загружает одну RSS/Atom ленту.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL, tzName string) (FeedResult, error)
}

// Cache используется для простых TTL-хранилищ (новости, события, погода).
type Cache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
