package news

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dayboard/internal/domain"
)

const (
	defaultLimit = 50
	cacheTTL     = 30 * time.Minute
)

// Service агрегирует новости из настроенных RSS лент.
type Service struct {
	settings domain.SettingsRepo
	fetcher  domain.FeedFetcher
	cache    domain.Cache
	limit    int
	now      func() time.Time
	log      zerolog.Logger
}

// NewService создаёт сервис новостей.
func NewService(settings domain.SettingsRepo, fetcher domain.FeedFetcher, cache domain.Cache, limit int, logger zerolog.Logger) *Service {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Service{
		settings: settings,
		fetcher:  fetcher,
		cache:    cache,
		limit:    limit,
		now:      time.Now,
		log:      logger,
	}
}

// Headlines возвращает ленты в порядке настроек. Ошибка одной ленты
// превращается в запись с Success=false, остальные ленты не страдают.
func (s *Service) Headlines(ctx context.Context) ([]domain.FeedResult, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("настройки: %w", err)
	}
	if len(settings.RSSFeeds) == 0 {
		return []domain.FeedResult{}, nil
	}

	cacheKey := fmt.Sprintf("news:day:%s:%s", domain.DayKey(s.now(), settings.TimeZone), feedsDigest(settings.RSSFeeds))
	if raw, err := s.cache.Get(cacheKey); err == nil {
		var cached []domain.FeedResult
		if json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
	}

	results := make([]domain.FeedResult, len(settings.RSSFeeds))
	var wg sync.WaitGroup
	for i, feed := range settings.RSSFeeds {
		wg.Add(1)
		go func(i int, feed domain.RSSFeed) {
			defer wg.Done()
			res, err := s.fetcher.Fetch(ctx, feed.URL, settings.TimeZone)
			if err != nil {
				s.log.Warn().Err(err).Str("feed", feed.URL).Msg("news: лента не загрузилась")
				results[i] = domain.FeedResult{
					Items:      []domain.NewsItem{},
					SourceName: "Load Error",
					SourceURL:  feed.URL,
					Success:    false,
					Error:      err.Error(),
				}
				return
			}
			if feed.Title != "" {
				res.SourceName = feed.Title
			}
			if len(res.Items) > s.limit {
				res.Items = res.Items[:s.limit]
			}
			results[i] = res
		}(i, feed)
	}
	wg.Wait()

	if raw, err := json.Marshal(results); err == nil {
		if err := s.cache.Set(cacheKey, raw, cacheTTL); err != nil {
			s.log.Debug().Err(err).Msg("news: кэш не записался")
		}
	}
	return results, nil
}

func feedsDigest(feeds []domain.RSSFeed) string {
	h := sha256.New()
	for _, f := range feeds {
		h.Write([]byte(f.URL))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
