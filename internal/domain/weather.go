package domain

// AirQuality показатель качества воздуха по шкале US AQI.
type AirQuality struct {
	AQI   int    `json:"aqi"`
	Level string `json:"level"`
	Icon  string `json:"icon"`
}

// DailyForecast прогноз на завтра.
type DailyForecast struct {
	WeatherCode int     `json:"weatherCode"`
	TempMax     float64 `json:"tempMax"`
	TempMin     float64 `json:"tempMin"`
	Icon        string  `json:"icon"`
	Text        string  `json:"text"`
}

// WeatherReport текущая погода с опциональными качеством воздуха и прогнозом.
type WeatherReport struct {
	Temperature   float64        `json:"temperature"`
	Precipitation float64        `json:"precipitation"`
	WeatherCode   int            `json:"weatherCode"`
	Icon          string         `json:"icon"`
	Text          string         `json:"text"`
	AirQuality    *AirQuality    `json:"airQuality,omitempty"`
	Tomorrow      *DailyForecast `json:"tomorrow,omitempty"`
	FromCache     bool           `json:"fromCache"`
}

// Forecast сырой прогноз внешнего API до локализации иконок и текстов.
type Forecast struct {
	Temperature   float64
	Precipitation float64
	WeatherCode   int
	HasTomorrow   bool
	TomorrowCode  int
	TomorrowMax   float64
	TomorrowMin   float64
}

// GeoCandidate вариант геокодирования города.
type GeoCandidate struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
