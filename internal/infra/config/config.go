package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	Wallpaper struct {
		// Каталог со встроенными изображениями и манифестом images.json.
		ImagesDir string `envconfig:"IMAGES_DIR" default:"./img"`
		// Публичный префикс, под которым сервер раздаёт встроенные изображения.
		ImagesBasePath string `envconfig:"IMAGES_BASE_PATH" default:"/img"`
		// Общий бюджет времени на все сетевые попытки одного резолва.
		ResolveTimeout time.Duration `envconfig:"RESOLVE_TIMEOUT" default:"6500ms"`
	} `envconfig:""`

	Providers struct {
		DailyPhotoBaseURL string `envconfig:"DAILYPHOTO_BASE_URL" default:"https://bing.com"`
		CollectionBaseURL string `envconfig:"COLLECTION_BASE_URL" default:"https://api.unsplash.com"`
		FeaturedBaseURL   string `envconfig:"FEATURED_BASE_URL" default:"https://commons.wikimedia.org"`
	} `envconfig:""`

	News struct {
		Limit int `envconfig:"NEWS_LIMIT" default:"50"`
	} `envconfig:""`

	Weather struct {
		ForecastBaseURL   string `envconfig:"WEATHER_FORECAST_BASE_URL" default:"https://api.open-meteo.com"`
		AirQualityBaseURL string `envconfig:"WEATHER_AIR_BASE_URL" default:"https://air-quality-api.open-meteo.com"`
		GeocodingBaseURL  string `envconfig:"WEATHER_GEO_BASE_URL" default:"https://geocoding-api.open-meteo.com"`
	} `envconfig:""`

	Almanac struct {
		BaikeBaseURL       string `envconfig:"BAIKE_BASE_URL" default:"https://baike.baidu.com"`
		WikipediaURLFormat string `envconfig:"WIKIPEDIA_URL_FORMAT" default:"https://%s.wikipedia.org"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
