package almanac

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dayboard/internal/domain"
	"dayboard/internal/infra/metrics"
)

var yearTitleRe = regexp.MustCompile(`^(公元前)?\d{1,4}年?$`)

// Wikipedia события «в этот день» из REST-ленты Википедии на выбранном
// языке. Для события выбирается первая не «годовая» страница, чтобы
// ссылка вела на тему, а не на страницу года.
type Wikipedia struct {
	client    *http.Client
	urlFormat string
}

var _ domain.OnThisDayFetcher = (*Wikipedia)(nil)

// NewWikipedia создаёт источник Википедии. urlFormat содержит %s
// под код языка, например https://%s.wikipedia.org.
func NewWikipedia(client *http.Client, urlFormat string) *Wikipedia {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Wikipedia{client: client, urlFormat: urlFormat}
}

// Events возвращает события на дату на языке lang.
func (w *Wikipedia) Events(ctx context.Context, mm, dd, lang string) (domain.OnThisDayResult, error) {
	if lang == "" {
		lang = "en"
	}
	endpoint := fmt.Sprintf(w.urlFormat, lang) + fmt.Sprintf("/api/rest_v1/feed/onthisday/events/%s/%s", mm, dd)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.OnThisDayResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	if lang == "zh" {
		req.Header.Set("Accept-Language", "zh-cn")
	}

	start := time.Now()
	resp, err := w.client.Do(req)
	metrics.ObserveNetworkRequest("almanac", "events", "wikipedia_"+lang, start, err)
	if err != nil {
		return domain.OnThisDayResult{}, fmt.Errorf("запрос событий: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.OnThisDayResult{}, fmt.Errorf("события: статус %d", resp.StatusCode)
	}

	var payload struct {
		Events []struct {
			Year  int    `json:"year"`
			Text  string `json:"text"`
			Pages []struct {
				Title       string `json:"title"`
				Lang        string `json:"lang"`
				ContentURLs struct {
					Desktop struct {
						Page string `json:"page"`
					} `json:"desktop"`
				} `json:"content_urls"`
			} `json:"pages"`
		} `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.OnThisDayResult{}, fmt.Errorf("разбор событий: %w", err)
	}

	events := make([]domain.OnThisDayEvent, 0, len(payload.Events))
	for _, e := range payload.Events {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		pageURL := ""
		for _, p := range e.Pages {
			if p.Title == "" || yearTitleRe.MatchString(strings.TrimSpace(p.Title)) {
				continue
			}
			pageURL = p.ContentURLs.Desktop.Page
			if pageURL == "" {
				pageLang := p.Lang
				if pageLang == "" {
					pageLang = lang
				}
				title := url.PathEscape(strings.ReplaceAll(p.Title, " ", "_"))
				pageURL = fmt.Sprintf(w.urlFormat, pageLang) + "/wiki/" + title
			}
			break
		}
		events = append(events, domain.OnThisDayEvent{
			Year: strconv.Itoa(e.Year),
			Text: text,
			URL:  pageURL,
			Lang: lang,
		})
	}

	return domain.OnThisDayResult{
		MM:     mm,
		DD:     dd,
		Events: events,
		Source: "Wikipedia (" + lang + ")",
	}, nil
}
