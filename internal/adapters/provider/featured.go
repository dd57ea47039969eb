package provider

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
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	spaceRe      = regexp.MustCompile(`\s+`)
	filePrefixRe = regexp.MustCompile(`^File:`)
)

// Featured «картинка дня» Wikimedia Commons. Зарегистрирован в реестре,
// но ни одно значение wallpaperSource на него не указывает: стратегия
// доступна, но не выбираема.
type Featured struct {
	client  *http.Client
	baseURL string
}

var _ domain.WallpaperProvider = (*Featured)(nil)

// NewFeatured создаёт провайдер картинки дня.
func NewFeatured(client *http.Client, baseURL string) *Featured {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Featured{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name возвращает имя провайдера.
func (*Featured) Name() string { return domain.ProviderFeatured }

// Available всегда true.
func (*Featured) Available(domain.ProviderParams) bool { return true }

// Fetch загружает картинку дня по ключу дня из параметров.
func (p *Featured) Fetch(ctx context.Context, params domain.ProviderParams) (domain.WallpaperItem, error) {
	parts := strings.SplitN(params.DayKey, "-", 3)
	if len(parts) != 3 {
		return domain.WallpaperItem{}, fmt.Errorf("%w: некорректный ключ дня %q", domain.ErrProviderData, params.DayKey)
	}
	endpoint := fmt.Sprintf("%s/api/rest_v1/feed/featured/%s/%s/%s", p.baseURL, parts[0], parts[1], parts[2])

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: %v", domain.ErrProviderTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	metrics.ObserveNetworkRequest("wallpaper", "featured", "commons", start, err)
	if err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: %v", domain.ErrProviderTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.WallpaperItem{}, fmt.Errorf("%w: статус %d", domain.ErrProviderTransport, resp.StatusCode)
	}

	var payload struct {
		Image struct {
			Title string `json:"title"`
			Image struct {
				Source string `json:"source"`
			} `json:"image"`
			FilePage string `json:"file_page"`
			Artist   struct {
				HTML string `json:"html"`
			} `json:"artist"`
			Description struct {
				Text string `json:"text"`
			} `json:"description"`
		} `json:"image"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: %v", domain.ErrProviderData, err)
	}
	img := payload.Image
	if img.Image.Source == "" {
		return domain.WallpaperItem{}, fmt.Errorf("%w: нет картинки дня", domain.ErrProviderData)
	}

	title := "Wikimedia Commons"
	if img.Title != "" {
		title = filePrefixRe.ReplaceAllString(img.Title, "")
	}
	pieces := []string{title}
	if artist := stripHTMLToText(img.Artist.HTML); artist != "" {
		pieces = append(pieces, artist)
	}
	if desc := strings.TrimSpace(img.Description.Text); desc != "" {
		pieces = append(pieces, desc)
	}
	pieces = append(pieces, "Wikimedia Commons")

	pageURL := img.FilePage
	if pageURL == "" {
		pageURL = "https://commons.wikimedia.org"
	}
	id := img.Title
	if id == "" {
		id = title
	}

	return domain.WallpaperItem{
		Provider:   domain.ProviderFeatured,
		Kind:       domain.KindPhoto,
		ID:         id,
		ImageURL:   img.Image.Source,
		CreditText: strings.Join(pieces, " — "),
		CreditURL:  pageURL,
	}, nil
}

func stripHTMLToText(html string) string {
	s := tagRe.ReplaceAllString(html, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
