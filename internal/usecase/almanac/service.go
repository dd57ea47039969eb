package almanac

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"dayboard/internal/domain"
)

const cacheTTL = 24 * time.Hour

// Service отдаёт события «в этот день» из выбранного настройками
// источника с дневным кэшем.
type Service struct {
	settings  domain.SettingsRepo
	baike     domain.OnThisDayFetcher
	wikipedia domain.OnThisDayFetcher
	cache     domain.Cache
	now       func() time.Time
	log       zerolog.Logger
}

// NewService создаёт сервис событий.
func NewService(settings domain.SettingsRepo, baike, wikipedia domain.OnThisDayFetcher, cache domain.Cache, logger zerolog.Logger) *Service {
	return &Service{
		settings:  settings,
		baike:     baike,
		wikipedia: wikipedia,
		cache:     cache,
		now:       time.Now,
		log:       logger,
	}
}

// Today возвращает события на текущую дату. Для Википедии при пустом
// ответе на выбранном языке пробуется английский.
func (s *Service) Today(ctx context.Context) (domain.OnThisDayResult, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.OnThisDayResult{}, fmt.Errorf("настройки: %w", err)
	}

	loc, err := time.LoadLocation(settings.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	now := s.now().In(loc)
	mm := now.Format("01")
	dd := now.Format("02")

	source := settings.OnThisDaySource
	if source != domain.OnThisDayWikipedia {
		source = domain.OnThisDayBaike
	}
	lang := settings.EventsLang
	if lang == "" {
		lang = "en"
	}

	cacheKey := fmt.Sprintf("events:day:%s:%s:%s", domain.DayKey(s.now(), settings.TimeZone), source, lang)
	if raw, err := s.cache.Get(cacheKey); err == nil {
		var cached domain.OnThisDayResult
		if json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
	}

	var result domain.OnThisDayResult
	if source == domain.OnThisDayWikipedia {
		result, err = s.wikipedia.Events(ctx, mm, dd, lang)
		if (err != nil || len(result.Events) == 0) && lang != "en" {
			if err != nil {
				s.log.Debug().Err(err).Str("lang", lang).Msg("almanac: переходим на английский")
			}
			result, err = s.wikipedia.Events(ctx, mm, dd, "en")
		}
	} else {
		result, err = s.baike.Events(ctx, mm, dd, lang)
	}
	if err != nil {
		return domain.OnThisDayResult{}, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(cacheKey, raw, cacheTTL); err != nil {
			s.log.Debug().Err(err).Msg("almanac: кэш не записался")
		}
	}
	return result, nil
}
