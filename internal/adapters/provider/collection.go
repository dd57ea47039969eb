package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"dayboard/internal/domain"
	"dayboard/internal/infra/metrics"
)

var (
	collectionIDRe = regexp.MustCompile(`(?i)collections/(\d+)`)
	digitsRe       = regexp.MustCompile(`^\d+$`)
)

// Collection случайная фотография из тегированной коллекции фотосервиса.
// Требует API-ключ и идентификатор коллекции; без них провайдер
// недоступен и не тратит попыток.
type Collection struct {
	client  *http.Client
	baseURL string
}

var _ domain.WallpaperProvider = (*Collection)(nil)

// NewCollection создаёт провайдер коллекции.
func NewCollection(client *http.Client, baseURL string) *Collection {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Collection{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name возвращает имя провайдера.
func (*Collection) Name() string { return domain.ProviderCollection }

// Available true только при заданных ключе и идентификаторе коллекции.
func (*Collection) Available(params domain.ProviderParams) bool {
	return params.Settings.UnsplashAccessKey != "" && NormalizeCollectionID(params.Settings.UnsplashCollectionID) != ""
}

// Fetch запрашивает одну случайную фотографию коллекции.
func (c *Collection) Fetch(ctx context.Context, params domain.ProviderParams) (domain.WallpaperItem, error) {
	key := params.Settings.UnsplashAccessKey
	cid := NormalizeCollectionID(params.Settings.UnsplashCollectionID)
	if key == "" || cid == "" {
		return domain.WallpaperItem{}, fmt.Errorf("%w: нет ключа или id коллекции", domain.ErrProviderUnavailable)
	}

	endpoint := c.baseURL + "/photos/random?orientation=landscape&content_filter=high&collections=" + url.QueryEscape(cid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: %v", domain.ErrProviderTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Client-ID "+key)

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ObserveNetworkRequest("wallpaper", "random_photo", "collection", start, err)
	if err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: %v", domain.ErrProviderTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.WallpaperItem{}, fmt.Errorf("%w: статус %d", domain.ErrProviderTransport, resp.StatusCode)
	}

	var payload struct {
		ID   string `json:"id"`
		URLs struct {
			Full    string `json:"full"`
			Regular string `json:"regular"`
		} `json:"urls"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
		User struct {
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: %v", domain.ErrProviderData, err)
	}

	imageURL := payload.URLs.Full
	if imageURL == "" {
		imageURL = payload.URLs.Regular
	}
	if imageURL == "" {
		return domain.WallpaperItem{}, fmt.Errorf("%w: в ответе нет URL изображения", domain.ErrProviderData)
	}

	link := payload.Links.HTML
	if link == "" {
		link = "https://unsplash.com"
	}
	name := payload.User.Name
	if name == "" {
		name = payload.User.Username
	}
	if name == "" {
		name = "Unsplash"
	}

	return domain.WallpaperItem{
		Provider:   domain.ProviderCollection,
		Kind:       domain.KindPhoto,
		ID:         payload.ID,
		ImageURL:   imageURL,
		CreditText: fmt.Sprintf("Photo by %s on Unsplash", name),
		CreditURL:  link,
	}, nil
}

// NormalizeCollectionID принимает числовой id либо фрагмент URL вида
// .../collections/12345/... и возвращает id. Нераспознанная строка
// возвращается как есть: её отвергнет сам сервис.
func NormalizeCollectionID(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	if digitsRe.MatchString(v) {
		return v
	}
	if m := collectionIDRe.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}
