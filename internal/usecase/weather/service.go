package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"dayboard/internal/domain"
)

const cacheTTL = time.Hour

// ErrDisabled погода выключена в настройках.
var ErrDisabled = errors.New("погода выключена")

// ErrNoLocation координаты не заданы ни настройками, ни запросом.
var ErrNoLocation = errors.New("координаты недоступны")

// Service отдаёт текущую погоду с часовым кэшем по координатам.
type Service struct {
	settings domain.SettingsRepo
	fetcher  domain.WeatherFetcher
	cache    domain.Cache
	now      func() time.Time
	log      zerolog.Logger
}

// NewService создаёт погодный сервис.
func NewService(settings domain.SettingsRepo, fetcher domain.WeatherFetcher, cache domain.Cache, logger zerolog.Logger) *Service {
	return &Service{
		settings: settings,
		fetcher:  fetcher,
		cache:    cache,
		now:      time.Now,
		log:      logger,
	}
}

// кэшируемая часть отчёта, подписи подставляются при чтении заново,
// чтобы смена языка не требовала нового запроса к API.
type cachedWeather struct {
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	WeatherCode   int     `json:"weatherCode"`
	AQI           *int    `json:"aqi,omitempty"`
	HasTomorrow   bool    `json:"hasTomorrow"`
	TomorrowCode  int     `json:"tomorrowCode"`
	TomorrowMax   float64 `json:"tomorrowMax"`
	TomorrowMin   float64 `json:"tomorrowMin"`
}

// Current возвращает погоду для координат из настроек либо из
// переданных извне (клиент может геолоцироваться сам).
func (s *Service) Current(ctx context.Context, latOverride, lonOverride *float64) (domain.WeatherReport, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("настройки: %w", err)
	}
	if !settings.WeatherEnabled {
		return domain.WeatherReport{}, ErrDisabled
	}

	lat, lon, ok := resolveCoords(settings, latOverride, lonOverride)
	if !ok {
		return domain.WeatherReport{}, ErrNoLocation
	}
	lang := settings.UILang

	// Близкие координаты делят одну запись кэша.
	cacheKey := fmt.Sprintf("weather:%.2f_%.2f:%s", lat, lon, domain.DayKey(s.now(), settings.TimeZone))
	if raw, err := s.cache.Get(cacheKey); err == nil {
		var cached cachedWeather
		if json.Unmarshal(raw, &cached) == nil {
			report := s.describe(cached, lang)
			report.FromCache = true
			return report, nil
		}
	}

	forecast, err := s.fetcher.Forecast(ctx, lat, lon, settings.TimeZone)
	if err != nil {
		return domain.WeatherReport{}, err
	}

	cached := cachedWeather{
		Temperature:   forecast.Temperature,
		Precipitation: forecast.Precipitation,
		WeatherCode:   forecast.WeatherCode,
		HasTomorrow:   forecast.HasTomorrow,
		TomorrowCode:  forecast.TomorrowCode,
		TomorrowMax:   forecast.TomorrowMax,
		TomorrowMin:   forecast.TomorrowMin,
	}

	// Качество воздуха опционально: его отказ не валит прогноз.
	if aqi, err := s.fetcher.AirQualityIndex(ctx, lat, lon); err == nil {
		cached.AQI = &aqi
	} else {
		s.log.Debug().Err(err).Msg("weather: качество воздуха недоступно")
	}

	if raw, err := json.Marshal(cached); err == nil {
		if err := s.cache.Set(cacheKey, raw, cacheTTL); err != nil {
			s.log.Debug().Err(err).Msg("weather: кэш не записался")
		}
	}
	return s.describe(cached, lang), nil
}

// Geocode ищет координаты города для настроек.
func (s *Service) Geocode(ctx context.Context, city string) ([]domain.GeoCandidate, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("настройки: %w", err)
	}
	return s.fetcher.Geocode(ctx, city, settings.UILang)
}

func (s *Service) describe(c cachedWeather, lang string) domain.WeatherReport {
	icon, text := describeCode(c.WeatherCode, lang)
	report := domain.WeatherReport{
		Temperature:   c.Temperature,
		Precipitation: c.Precipitation,
		WeatherCode:   c.WeatherCode,
		Icon:          icon,
		Text:          text,
	}
	if c.AQI != nil {
		level, aqIcon := aqiLevel(*c.AQI, lang)
		report.AirQuality = &domain.AirQuality{AQI: *c.AQI, Level: level, Icon: aqIcon}
	}
	if c.HasTomorrow {
		tIcon, tText := describeCode(c.TomorrowCode, lang)
		report.Tomorrow = &domain.DailyForecast{
			WeatherCode: c.TomorrowCode,
			TempMax:     c.TomorrowMax,
			TempMin:     c.TomorrowMin,
			Icon:        tIcon,
			Text:        tText,
		}
	}
	return report
}

func resolveCoords(settings domain.Settings, latOverride, lonOverride *float64) (float64, float64, bool) {
	if latOverride != nil && lonOverride != nil {
		return *latOverride, *lonOverride, true
	}
	lat, errLat := strconv.ParseFloat(settings.WeatherLat, 64)
	lon, errLon := strconv.ParseFloat(settings.WeatherLon, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
