package wallpaper

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dayboard/internal/domain"
	"dayboard/internal/infra/metrics"
)

// Бюджеты последовательных попыток на адаптер. Исключённый кандидат
// тоже списывается из бюджета.
const (
	retryCollection = 4
	retryDailyPhoto = 3
	retryDefault    = 1
)

const defaultResolveTimeout = 6500 * time.Millisecond

// Service движок резолва обоев. Resolve тотален: любой отказ
// заканчивается офлайн-градиентом, ошибок наружу нет.
type Service struct {
	settings  domain.SettingsRepo
	cache     domain.WallpaperCache
	exclusion domain.ExclusionStore
	registry  map[string]domain.WallpaperProvider
	timeout   time.Duration
	now       func() time.Time
	log       zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ domain.WallpaperService = (*Service)(nil)

// NewService создаёт движок. now позволяет подменить часы в тестах,
// nil означает time.Now.
func NewService(settings domain.SettingsRepo, cache domain.WallpaperCache, exclusion domain.ExclusionStore, registry map[string]domain.WallpaperProvider, timeout time.Duration, now func() time.Time, logger zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		settings:  settings,
		cache:     cache,
		exclusion: exclusion,
		registry:  registry,
		timeout:   timeout,
		now:       now,
		log:       logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Resolve выбирает ровно один элемент обоев для текущего дня.
func (s *Service) Resolve(ctx context.Context, forceRefresh bool) domain.WallpaperItem {
	start := time.Now()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("wallpaper: настройки недоступны, используем дефолтные")
		settings = domain.DefaultSettings()
	}
	if !domain.KnownSource(settings.WallpaperSource) {
		settings.WallpaperSource = domain.DefaultSettings().WallpaperSource
	}

	dayKey := domain.DayKey(s.now(), settings.TimeZone)

	// Конкурентные резолвы одного дня сериализуются, иначе два вызова
	// могут молча затереть записи друг друга в дневном кэше.
	unlock := s.lockDay(dayKey)
	defer unlock()

	daily := settings.BgRefresh == domain.RefreshDaily

	if daily && !forceRefresh {
		if item, ok, err := s.cache.Get(ctx, dayKey); err == nil && ok && item.Usable() {
			item.FromCache = true
			metrics.ObserveResolve(item.Provider, true, start)
			return item
		}
	}

	blocked := s.loadExclusions(ctx)

	// Общий бюджет времени только на сетевые попытки. Запись кэша идёт
	// на контексте вызывающего, иначе исчерпание бюджета оставило бы
	// финальный фолбэк незакэшированным.
	netCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := domain.ProviderParams{Settings: settings, DayKey: dayKey}
	for _, name := range fallbackChain(settings.WallpaperSource) {
		prov, ok := s.registry[name]
		if !ok {
			continue
		}
		item, ok := s.tryProvider(netCtx, prov, params, blocked)
		if !ok {
			metrics.FallbackTotal.WithLabelValues(name).Inc()
			continue
		}
		s.persist(ctx, daily, forceRefresh, dayKey, &item)
		item.FromCache = false
		metrics.ObserveResolve(item.Provider, false, start)
		return item
	}

	// Недостижимо, пока в реестре есть градиент, но движок не вправе
	// вернуть пустоту даже при неполном реестре.
	item := domain.WallpaperItem{Provider: domain.ProviderOffline, Kind: domain.KindGradient}
	metrics.ObserveResolve(item.Provider, false, start)
	return item
}

// Reject заносит id и URL элемента в список отклонённых и
// принудительно перевыбирает обои.
func (s *Service) Reject(ctx context.Context, item domain.WallpaperItem) domain.WallpaperItem {
	var tokens []string
	if id := strings.TrimSpace(item.ID); id != "" {
		tokens = append(tokens, id)
	}
	if url := strings.TrimSpace(item.ImageURL); url != "" {
		tokens = append(tokens, url)
	}
	if len(tokens) > 0 {
		if err := s.exclusion.Add(ctx, tokens...); err != nil {
			s.log.Warn().Err(err).Msg("wallpaper: не удалось сохранить отклонение")
		}
	}
	return s.Resolve(ctx, true)
}

// fallbackChain возвращает фиксированный порядок провайдеров для источника:
// источник → случайное фото дня (для фотодневных вариантов вместо него
// встроенные) → встроенные → градиент, без повторов.
func fallbackChain(source string) []string {
	chain := []string{source}
	switch source {
	case domain.SourceDailyPhoto, domain.SourceDailyPhotoOnce:
		chain = append(chain, domain.ProviderLocal)
	default:
		chain = append(chain, domain.ProviderDailyPhoto, domain.ProviderLocal)
	}
	chain = append(chain, domain.ProviderOffline)

	seen := make(map[string]struct{}, len(chain))
	out := chain[:0]
	for _, name := range chain {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func retryBudget(provider string) int {
	switch provider {
	case domain.ProviderCollection:
		return retryCollection
	case domain.ProviderDailyPhoto:
		return retryDailyPhoto
	}
	return retryDefault
}

// tryProvider гоняет адаптер в пределах его бюджета попыток.
// Любой отказ гасится здесь и наружу не выходит.
func (s *Service) tryProvider(ctx context.Context, prov domain.WallpaperProvider, params domain.ProviderParams, blocked map[string]struct{}) (domain.WallpaperItem, bool) {
	name := prov.Name()
	if !prov.Available(params) {
		s.log.Debug().Str("provider", name).Msg("wallpaper: провайдер не сконфигурирован, пропускаем")
		return domain.WallpaperItem{}, false
	}

	budget := retryBudget(name)
	for attempt := 1; attempt <= budget; attempt++ {
		item, err := prov.Fetch(ctx, params)
		if err != nil {
			metrics.IncProviderAttempt(name, metrics.AttemptError)
			s.log.Debug().Err(err).Str("provider", name).Int("attempt", attempt).Msg("wallpaper: попытка не удалась")
			if errors.Is(err, domain.ErrProviderUnavailable) {
				break
			}
			continue
		}
		if name != domain.ProviderOffline && isExcluded(item, blocked) {
			metrics.IncProviderAttempt(name, metrics.AttemptExcluded)
			continue
		}
		metrics.IncProviderAttempt(name, metrics.AttemptOK)
		return item, true
	}
	return domain.WallpaperItem{}, false
}

// persist применяет политику записи дневного кэша. Случайное фото дня
// при forceRefresh кэш не трогает: свежий элемент уходит вызывающему,
// а запись дня остаётся прежней.
func (s *Service) persist(ctx context.Context, daily, forceRefresh bool, dayKey string, item *domain.WallpaperItem) {
	write := false
	switch item.Provider {
	case domain.ProviderDailyPhoto:
		write = daily && !forceRefresh
	case domain.ProviderDailyPhotoOnce:
		// Картинка одна на весь день, кэшируется в любом режиме.
		write = true
	default:
		write = daily
	}
	if !write {
		return
	}
	now := s.now()
	item.CachedAt = &now
	if err := s.cache.Set(ctx, dayKey, *item); err != nil {
		s.log.Warn().Err(err).Str("day", dayKey).Msg("wallpaper: не удалось записать дневной кэш")
		item.CachedAt = nil
	}
}

func (s *Service) loadExclusions(ctx context.Context) map[string]struct{} {
	tokens, err := s.exclusion.List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("wallpaper: список отклонённых недоступен")
		return nil
	}
	blocked := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		blocked[t] = struct{}{}
	}
	return blocked
}

func isExcluded(item domain.WallpaperItem, blocked map[string]struct{}) bool {
	if len(blocked) == 0 {
		return false
	}
	if item.ID != "" {
		if _, ok := blocked[item.ID]; ok {
			return true
		}
	}
	if item.ImageURL != "" {
		if _, ok := blocked[item.ImageURL]; ok {
			return true
		}
	}
	return false
}

func (s *Service) lockDay(dayKey string) func() {
	s.mu.Lock()
	m, ok := s.locks[dayKey]
	if !ok {
		// Ключей ровно один на календарный день, вчерашние больше не нужны.
		for k := range s.locks {
			delete(s.locks, k)
		}
		m = &sync.Mutex{}
		s.locks[dayKey] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}
