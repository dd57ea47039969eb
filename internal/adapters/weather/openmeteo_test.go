package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Fatalf("неожиданный путь %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("latitude") != "39.9000" || q.Get("longitude") != "116.4000" {
			t.Fatalf("неожиданные координаты %q %q", q.Get("latitude"), q.Get("longitude"))
		}
		if q.Get("forecast_days") != "2" {
			t.Fatalf("ожидали прогноз на 2 дня, получили %q", q.Get("forecast_days"))
		}
		if q.Get("timezone") != "Asia/Shanghai" {
			t.Fatalf("ожидали тайм-зону в запросе, получили %q", q.Get("timezone"))
		}
		_, _ = w.Write([]byte(`{
			"current":{"temperature_2m":21.5,"precipitation":0.2,"weather_code":3},
			"daily":{"time":["2026-03-14","2026-03-15"],"weather_code":[3,61],"temperature_2m_max":[22.0,18.0],"temperature_2m_min":[12.0,9.0]}
		}`))
	}))
	defer srv.Close()

	o := NewOpenMeteo(srv.Client(), srv.URL, srv.URL, srv.URL)
	got, err := o.Forecast(context.Background(), 39.9, 116.4, "Asia/Shanghai")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got.Temperature != 21.5 || got.WeatherCode != 3 {
		t.Fatalf("неожиданная текущая погода %+v", got)
	}
	if !got.HasTomorrow || got.TomorrowCode != 61 || got.TomorrowMax != 18.0 || got.TomorrowMin != 9.0 {
		t.Fatalf("неожиданный прогноз на завтра %+v", got)
	}
}

func TestForecastWithoutTomorrow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":10,"weather_code":0},"daily":{"time":["2026-03-14"],"weather_code":[0],"temperature_2m_max":[12],"temperature_2m_min":[4]}}`))
	}))
	defer srv.Close()

	o := NewOpenMeteo(srv.Client(), srv.URL, srv.URL, srv.URL)
	got, err := o.Forecast(context.Background(), 0, 0, "")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got.HasTomorrow {
		t.Fatalf("одного дня недостаточно для прогноза на завтра")
	}
}

func TestAirQualityIndexRounds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/air-quality" {
			t.Fatalf("неожиданный путь %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"current":{"us_aqi":41.6}}`))
	}))
	defer srv.Close()

	o := NewOpenMeteo(srv.Client(), srv.URL, srv.URL, srv.URL)
	got, err := o.AirQualityIndex(context.Background(), 39.9, 116.4)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got != 42 {
		t.Fatalf("значение должно округляться, получили %d", got)
	}
}

func TestAirQualityIndexMissingValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":{}}`))
	}))
	defer srv.Close()

	o := NewOpenMeteo(srv.Client(), srv.URL, srv.URL, srv.URL)
	if _, err := o.AirQualityIndex(context.Background(), 0, 0); err == nil {
		t.Fatalf("ожидали ошибку при отсутствии AQI")
	}
}

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Fatalf("неожиданный путь %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("name") != "北京" || q.Get("language") != "zh" {
			t.Fatalf("неожиданный запрос name=%q language=%q", q.Get("name"), q.Get("language"))
		}
		_, _ = w.Write([]byte(`{"results":[{"name":"北京市","country":"中国","latitude":39.9042,"longitude":116.4074}]}`))
	}))
	defer srv.Close()

	o := NewOpenMeteo(srv.Client(), srv.URL, srv.URL, srv.URL)
	got, err := o.Geocode(context.Background(), "北京", "zh")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got) != 1 || got[0].Name != "北京市" {
		t.Fatalf("неожиданный ответ геокодера %+v", got)
	}
}

func TestTransportStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	o := NewOpenMeteo(srv.Client(), srv.URL, srv.URL, srv.URL)
	if _, err := o.Forecast(context.Background(), 0, 0, ""); err == nil {
		t.Fatalf("ожидали ошибку на не-2xx статус")
	}
}
