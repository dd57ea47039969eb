package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ResolveSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wallpaper_resolve_seconds",
		Help:    "Время полного резолва обоев",
		Buckets: prometheus.DefBuckets,
	})
	ResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallpaper_resolve_total",
		Help: "Количество резолвов по итоговому провайдеру",
	}, []string{"provider", "from_cache"})
	ProviderAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallpaper_provider_attempts_total",
		Help: "Попытки провайдеров по статусу",
	}, []string{"provider", "status"})
	FallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallpaper_fallback_total",
		Help: "Переходы по цепочке фолбэков после исчерпания провайдера",
	}, []string{"provider"})
	ExclusionSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wallpaper_exclusion_size",
		Help: "Текущий размер списка отклонённых обоев",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	NewsFeedErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "news_feed_errors_total",
		Help: "Ошибки загрузки RSS лент",
	}, []string{"feed"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		ResolveSeconds,
		ResolveTotal,
		ProviderAttempts,
		FallbackTotal,
		ExclusionSize,
		NetworkRequestDuration,
		NetworkRequestTotal,
		NewsFeedErrors,
	)
}

// Статусы попыток провайдеров.
const (
	AttemptOK       = "ok"
	AttemptError    = "error"
	AttemptExcluded = "excluded"
)

// IncProviderAttempt записывает исход одной попытки провайдера.
func IncProviderAttempt(provider, status string) {
	ProviderAttempts.WithLabelValues(provider, status).Inc()
}

// ObserveResolve записывает итог резолва.
func ObserveResolve(provider string, fromCache bool, start time.Time) {
	ResolveSeconds.Observe(time.Since(start).Seconds())
	cached := "false"
	if fromCache {
		cached = "true"
	}
	ResolveTotal.WithLabelValues(provider, cached).Inc()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}
