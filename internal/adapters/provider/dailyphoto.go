package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"dayboard/internal/domain"
	"dayboard/internal/infra/metrics"
)

const (
	archiveSize = 10
	photoHost   = "https://www.bing.com"
)

// DailyPhotoRandom случайная фотография из дневного архива сервиса.
// Архив на день кэшируется, чтобы много выборов за день стоили одного
// запроса к провайдеру.
type DailyPhotoRandom struct {
	client  *http.Client
	baseURL string
	archive domain.ArchiveCache
}

var _ domain.WallpaperProvider = (*DailyPhotoRandom)(nil)

// NewDailyPhotoRandom создаёт провайдер случайного фото дня.
func NewDailyPhotoRandom(client *http.Client, baseURL string, archive domain.ArchiveCache) *DailyPhotoRandom {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DailyPhotoRandom{client: client, baseURL: strings.TrimRight(baseURL, "/"), archive: archive}
}

// Name возвращает имя провайдера.
func (*DailyPhotoRandom) Name() string { return domain.ProviderDailyPhoto }

// Available всегда true: конфигурации не требуется.
func (*DailyPhotoRandom) Available(domain.ProviderParams) bool { return true }

// Fetch берёт архив дня из кэша либо загружает его и случайно
// выбирает нормализованную запись.
func (p *DailyPhotoRandom) Fetch(ctx context.Context, params domain.ProviderParams) (domain.WallpaperItem, error) {
	images, ok, err := p.archive.Get(ctx, params.DayKey)
	if err != nil || !ok || len(images) == 0 {
		images, err = fetchPhotoArchive(ctx, p.client, p.baseURL, archiveSize)
		if err != nil {
			return domain.WallpaperItem{}, err
		}
		// Ошибка записи кэша не мешает выдаче: потеряем только экономию запросов.
		_ = p.archive.Set(ctx, params.DayKey, images)
	}

	normalized := make([]domain.WallpaperItem, 0, len(images))
	for _, img := range images {
		item := normalizeArchiveImage(img, domain.ProviderDailyPhoto)
		if item.ImageURL != "" {
			normalized = append(normalized, item)
		}
	}
	if len(normalized) == 0 {
		return domain.WallpaperItem{}, fmt.Errorf("%w: архив без пригодных изображений", domain.ErrProviderData)
	}
	return normalized[rand.Intn(len(normalized))], nil
}

// DailyPhotoToday строго сегодняшняя фотография сервиса. Архив не
// переиспользуется, идентичность провайдера отдельная для кэша.
type DailyPhotoToday struct {
	client  *http.Client
	baseURL string
}

var _ domain.WallpaperProvider = (*DailyPhotoToday)(nil)

// NewDailyPhotoToday создаёт провайдер фотографии текущего дня.
func NewDailyPhotoToday(client *http.Client, baseURL string) *DailyPhotoToday {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DailyPhotoToday{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name возвращает имя провайдера.
func (*DailyPhotoToday) Name() string { return domain.ProviderDailyPhotoOnce }

// Available всегда true.
func (*DailyPhotoToday) Available(domain.ProviderParams) bool { return true }

// Fetch загружает ровно одно изображение текущего дня.
func (p *DailyPhotoToday) Fetch(ctx context.Context, _ domain.ProviderParams) (domain.WallpaperItem, error) {
	images, err := fetchPhotoArchive(ctx, p.client, p.baseURL, 1)
	if err != nil {
		return domain.WallpaperItem{}, err
	}
	if len(images) == 0 {
		return domain.WallpaperItem{}, fmt.Errorf("%w: пустой ответ на сегодняшнее фото", domain.ErrProviderData)
	}
	item := normalizeArchiveImage(images[0], domain.ProviderDailyPhotoOnce)
	if item.ImageURL == "" {
		return domain.WallpaperItem{}, fmt.Errorf("%w: сегодняшнее фото без URL", domain.ErrProviderData)
	}
	return item, nil
}

func fetchPhotoArchive(ctx context.Context, client *http.Client, baseURL string, count int) ([]domain.ArchiveImage, error) {
	url := fmt.Sprintf("%s/HPImageArchive.aspx?format=js&idx=0&n=%d", baseURL, count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	metrics.ObserveNetworkRequest("wallpaper", "archive", "dailyphoto", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: статус %d", domain.ErrProviderTransport, resp.StatusCode)
	}

	var payload struct {
		Images []domain.ArchiveImage `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderData, err)
	}
	return payload.Images, nil
}

// normalizeArchiveImage приводит сырую запись архива к WallpaperItem:
// абсолютный URL, самый стабильный из доступных идентификаторов
// (hash > urlbase > дата > полный URL) и атрибуция.
func normalizeArchiveImage(img domain.ArchiveImage, providerName string) domain.WallpaperItem {
	imageURL := img.URL
	if imageURL != "" && !strings.HasPrefix(imageURL, "http") {
		imageURL = photoHost + imageURL
	}

	id := imageURL
	switch {
	case img.Hash != "":
		id = img.Hash
	case img.URLBase != "":
		id = img.URLBase
	case img.FullStartDate != "":
		id = img.FullStartDate
	}

	credit := img.Copyright
	if credit == "" {
		credit = "每日一图"
	}
	creditURL := img.CopyrightLink
	if creditURL == "" {
		creditURL = photoHost
	}

	return domain.WallpaperItem{
		Provider:   providerName,
		Kind:       domain.KindPhoto,
		ID:         id,
		ImageURL:   imageURL,
		CreditText: credit,
		CreditURL:  creditURL,
	}
}
