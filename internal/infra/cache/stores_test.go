package cache

import (
	"testing"

	"dayboard/internal/domain"
)

func TestMergeSettingsPartialPatch(t *testing.T) {
	current := domain.DefaultSettings()
	got, err := mergeSettings(current, map[string]any{
		"bgRefresh":       "daily",
		"wallpaperSource": "collection",
	})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got.BgRefresh != domain.RefreshDaily {
		t.Fatalf("ожидали режим daily, получили %q", got.BgRefresh)
	}
	if got.WallpaperSource != domain.SourceCollection {
		t.Fatalf("ожидали источник collection, получили %q", got.WallpaperSource)
	}
	// Незатронутые поля сохраняются.
	if got.TimeZone != current.TimeZone {
		t.Fatalf("тайм-зона не должна была измениться: %q", got.TimeZone)
	}
	if len(got.RSSFeeds) != len(current.RSSFeeds) {
		t.Fatalf("ленты не должны были измениться")
	}
}

func TestMergeSettingsUnknownSourceNormalized(t *testing.T) {
	got, err := mergeSettings(domain.DefaultSettings(), map[string]any{"wallpaperSource": "vintage"})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got.WallpaperSource != domain.DefaultSettings().WallpaperSource {
		t.Fatalf("незнакомый источник заменяется дефолтным, получили %q", got.WallpaperSource)
	}
}

func TestMergeSettingsReplacesFeeds(t *testing.T) {
	got, err := mergeSettings(domain.DefaultSettings(), map[string]any{
		"rssFeeds": []map[string]string{{"title": "Ars", "url": "https://arstechnica.com/feed"}},
	})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got.RSSFeeds) != 1 || got.RSSFeeds[0].Title != "Ars" {
		t.Fatalf("список лент заменяется целиком, получили %+v", got.RSSFeeds)
	}
}

func TestMergeSettingsWeatherFields(t *testing.T) {
	got, err := mergeSettings(domain.DefaultSettings(), map[string]any{
		"weatherEnabled": true,
		"weatherLat":     "39.90",
		"weatherLon":     "116.40",
	})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !got.WeatherEnabled || got.WeatherLat != "39.90" || got.WeatherLon != "116.40" {
		t.Fatalf("погодные поля не применились: %+v", got)
	}
}
