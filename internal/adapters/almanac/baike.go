package almanac

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"dayboard/internal/domain"
	"dayboard/internal/infra/metrics"
)

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Baike события «в этот день» из помесячного JSON Baidu Baike.
// Ответ содержит весь месяц, нужный день выбирается по ключу MMDD.
type Baike struct {
	client  *http.Client
	baseURL string
}

var _ domain.OnThisDayFetcher = (*Baike)(nil)

// NewBaike создаёт источник Baike.
func NewBaike(client *http.Client, baseURL string) *Baike {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Baike{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Events возвращает события на дату. Язык источником игнорируется.
func (b *Baike) Events(ctx context.Context, mm, dd, _ string) (domain.OnThisDayResult, error) {
	endpoint := fmt.Sprintf("%s/cms/home/eventsOnHistory/%s.json", b.baseURL, mm)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.OnThisDayResult{}, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := b.client.Do(req)
	metrics.ObserveNetworkRequest("almanac", "events", "baike", start, err)
	if err != nil {
		return domain.OnThisDayResult{}, fmt.Errorf("запрос событий: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.OnThisDayResult{}, fmt.Errorf("события: статус %d", resp.StatusCode)
	}

	var payload map[string]map[string][]struct {
		Year  string `json:"year"`
		Title string `json:"title"`
		Link  string `json:"link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.OnThisDayResult{}, fmt.Errorf("разбор событий: %w", err)
	}

	month, ok := payload[mm]
	if !ok {
		month = payload[strings.TrimLeft(mm, "0")]
	}
	raw := month[mm+dd]

	events := make([]domain.OnThisDayEvent, 0, len(raw))
	for _, e := range raw {
		text := stripHTML(e.Title)
		if text == "" {
			continue
		}
		events = append(events, domain.OnThisDayEvent{
			Year: e.Year,
			Text: text,
			URL:  e.Link,
			Lang: domain.OnThisDayBaike,
		})
	}

	return domain.OnThisDayResult{
		MM:     mm,
		DD:     dd,
		Events: events,
		Source: "百度百科（历史上的今天）",
	}, nil
}

func stripHTML(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(tagRe.ReplaceAllString(s, ""), " "))
}
