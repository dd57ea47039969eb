package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"dayboard/internal/domain"
	"dayboard/internal/infra/metrics"
)

// В одном фиде берётся не больше стольких записей до нормализации.
const perFeedCap = 30

// Fetcher загружает и нормализует RSS/Atom ленты.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher создаёт загрузчик лент.
func NewFetcher(timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = "dayboard/1.0"
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	parser.Client = &http.Client{Timeout: timeout}
	return &Fetcher{parser: parser}
}

// Fetch загружает одну ленту. Ошибка возвращается вызывающему,
// агрегация по лентам живёт уровнем выше.
func (f *Fetcher) Fetch(ctx context.Context, feedURL, tzName string) (domain.FeedResult, error) {
	u := strings.TrimSpace(feedURL)
	if u == "" {
		return domain.FeedResult{}, fmt.Errorf("пустой URL ленты")
	}

	start := time.Now()
	feed, err := f.parser.ParseURLWithContext(u, ctx)
	metrics.ObserveNetworkRequest("news", "fetch_feed", u, start, err)
	if err != nil {
		metrics.NewsFeedErrors.WithLabelValues(u).Inc()
		return domain.FeedResult{}, fmt.Errorf("загрузка ленты %s: %w", u, err)
	}

	loc := loadLocation(tzName)
	items := make([]domain.NewsItem, 0, perFeedCap)
	for _, it := range feed.Items {
		if len(items) >= perFeedCap {
			break
		}
		if it == nil || it.Title == "" || it.Link == "" {
			continue
		}
		items = append(items, domain.NewsItem{
			Title: strings.TrimSpace(it.Title),
			Link:  fixDoubledHost(it.Link),
			Date:  formatPubDate(it, loc),
		})
	}

	name := strings.TrimSpace(feed.Title)
	if name == "" {
		name = "RSS"
	}
	return domain.FeedResult{
		Items:      items,
		SourceName: name,
		SourceURL:  u,
		Success:    true,
	}, nil
}

// formatPubDate приводит дату публикации к виду 2006-01-02 15:04:05
// в заданной тайм-зоне. Неразобранная дата отдаётся как есть.
func formatPubDate(it *gofeed.Item, loc *time.Location) string {
	var t *time.Time
	switch {
	case it.PublishedParsed != nil:
		t = it.PublishedParsed
	case it.UpdatedParsed != nil:
		t = it.UpdatedParsed
	}
	if t == nil {
		raw := it.Published
		if raw == "" {
			raw = it.Updated
		}
		return strings.TrimSpace(raw)
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

// fixDoubledHost чинит ленты, склеивающие хост дважды в ссылке.
func fixDoubledHost(link string) string {
	const host = "https://www.chinanews.com.cn"
	if strings.HasPrefix(link, host+host) {
		return strings.TrimPrefix(link, host)
	}
	return link
}

func loadLocation(tzName string) *time.Location {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return time.UTC
	}
	return loc
}
