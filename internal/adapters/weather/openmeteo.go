package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dayboard/internal/domain"
	"dayboard/internal/infra/metrics"
)

// OpenMeteo клиент погодного API Open-Meteo: прогноз, качество воздуха
// и геокодирование живут на трёх разных хостах.
type OpenMeteo struct {
	client       *http.Client
	forecastBase string
	airBase      string
	geoBase      string
}

var _ domain.WeatherFetcher = (*OpenMeteo)(nil)

// NewOpenMeteo создаёт клиента.
func NewOpenMeteo(client *http.Client, forecastBase, airBase, geoBase string) *OpenMeteo {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenMeteo{
		client:       client,
		forecastBase: strings.TrimRight(forecastBase, "/"),
		airBase:      strings.TrimRight(airBase, "/"),
		geoBase:      strings.TrimRight(geoBase, "/"),
	}
}

// Forecast возвращает текущую погоду и прогноз на завтра.
func (o *OpenMeteo) Forecast(ctx context.Context, lat, lon float64, tzName string) (domain.Forecast, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "temperature_2m,precipitation,weather_code")
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	q.Set("forecast_days", "2")
	if tzName != "" {
		q.Set("timezone", tzName)
	}

	var payload struct {
		Current struct {
			Temperature   float64 `json:"temperature_2m"`
			Precipitation float64 `json:"precipitation"`
			WeatherCode   int     `json:"weather_code"`
		} `json:"current"`
		Daily struct {
			Time        []string  `json:"time"`
			WeatherCode []int     `json:"weather_code"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := o.getJSON(ctx, o.forecastBase+"/v1/forecast?"+q.Encode(), "forecast", &payload); err != nil {
		return domain.Forecast{}, err
	}

	forecast := domain.Forecast{
		Temperature:   payload.Current.Temperature,
		Precipitation: payload.Current.Precipitation,
		WeatherCode:   payload.Current.WeatherCode,
	}
	d := payload.Daily
	if len(d.Time) > 1 && len(d.WeatherCode) > 1 && len(d.TempMax) > 1 && len(d.TempMin) > 1 {
		forecast.HasTomorrow = true
		forecast.TomorrowCode = d.WeatherCode[1]
		forecast.TomorrowMax = d.TempMax[1]
		forecast.TomorrowMin = d.TempMin[1]
	}
	return forecast, nil
}

// AirQualityIndex возвращает текущий US AQI.
func (o *OpenMeteo) AirQualityIndex(ctx context.Context, lat, lon float64) (int, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "us_aqi")

	var payload struct {
		Current struct {
			USAQI *float64 `json:"us_aqi"`
		} `json:"current"`
	}
	if err := o.getJSON(ctx, o.airBase+"/v1/air-quality?"+q.Encode(), "air_quality", &payload); err != nil {
		return 0, err
	}
	if payload.Current.USAQI == nil || math.IsNaN(*payload.Current.USAQI) {
		return 0, fmt.Errorf("нет значения AQI")
	}
	return int(math.Round(*payload.Current.USAQI)), nil
}

// Geocode возвращает варианты координат по названию города.
func (o *OpenMeteo) Geocode(ctx context.Context, city, lang string) ([]domain.GeoCandidate, error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "5")
	if lang != "" {
		q.Set("language", lang)
	}

	var payload struct {
		Results []domain.GeoCandidate `json:"results"`
	}
	if err := o.getJSON(ctx, o.geoBase+"/v1/search?"+q.Encode(), "geocode", &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (o *OpenMeteo) getJSON(ctx context.Context, endpoint, operation string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	metrics.ObserveNetworkRequest("weather", operation, "open-meteo", start, err)
	if err != nil {
		return fmt.Errorf("запрос погоды: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("погода: статус %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("разбор погоды: %w", err)
	}
	return nil
}
