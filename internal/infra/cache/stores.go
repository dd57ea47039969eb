package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"dayboard/internal/domain"
	"dayboard/internal/infra/metrics"
)

const (
	keyWallpaperDay = "bg:day:"
	keyArchiveDay   = "bing:archive:"
	keyBlocklist    = "bg:blocklist"
	keySettings     = "settings"

	wallpaperTTL = 72 * time.Hour
	archiveTTL   = 48 * time.Hour

	// Ёмкость списка отклонённых: при переполнении вытесняются старые.
	exclusionCap = 500
)

// WallpaperStore дневной кэш обоев в Redis.
type WallpaperStore struct {
	client *redis.Client
}

var _ domain.WallpaperCache = (*WallpaperStore)(nil)

// NewWallpaperStore создаёт кэш обоев.
func NewWallpaperStore(client *redis.Client) *WallpaperStore {
	return &WallpaperStore{client: client}
}

// Get возвращает закэшированный на день элемент.
func (s *WallpaperStore) Get(ctx context.Context, dayKey string) (domain.WallpaperItem, bool, error) {
	raw, err := s.client.Get(ctx, keyWallpaperDay+dayKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.WallpaperItem{}, false, nil
	}
	if err != nil {
		return domain.WallpaperItem{}, false, err
	}
	var item domain.WallpaperItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return domain.WallpaperItem{}, false, err
	}
	return item, true, nil
}

// Set записывает элемент на день.
func (s *WallpaperStore) Set(ctx context.Context, dayKey string, item domain.WallpaperItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyWallpaperDay+dayKey, raw, wallpaperTTL).Err()
}

// Clear удаляет все дневные записи обоев.
func (s *WallpaperStore) Clear(ctx context.Context) error {
	return deleteByPattern(ctx, s.client, keyWallpaperDay+"*")
}

// ArchiveStore дневной кэш сырого архива фотопровайдера.
type ArchiveStore struct {
	client *redis.Client
}

var _ domain.ArchiveCache = (*ArchiveStore)(nil)

// NewArchiveStore создаёт кэш архива.
func NewArchiveStore(client *redis.Client) *ArchiveStore {
	return &ArchiveStore{client: client}
}

// Get возвращает архив на день.
func (s *ArchiveStore) Get(ctx context.Context, dayKey string) ([]domain.ArchiveImage, bool, error) {
	raw, err := s.client.Get(ctx, keyArchiveDay+dayKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var images []domain.ArchiveImage
	if err := json.Unmarshal(raw, &images); err != nil {
		return nil, false, err
	}
	return images, true, nil
}

// Set записывает архив на день.
func (s *ArchiveStore) Set(ctx context.Context, dayKey string, images []domain.ArchiveImage) error {
	raw, err := json.Marshal(images)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyArchiveDay+dayKey, raw, archiveTTL).Err()
}

// Clear удаляет все дневные архивы.
func (s *ArchiveStore) Clear(ctx context.Context) error {
	return deleteByPattern(ctx, s.client, keyArchiveDay+"*")
}

// ExclusionStore список отклонённых токенов в Redis-списке.
// Порядок вставки сохраняется, что даёт вытеснение самых старых при LTRIM.
type ExclusionStore struct {
	client *redis.Client
}

var _ domain.ExclusionStore = (*ExclusionStore)(nil)

// NewExclusionStore создаёт хранилище отклонённых.
func NewExclusionStore(client *redis.Client) *ExclusionStore {
	return &ExclusionStore{client: client}
}

// List возвращает все токены.
func (s *ExclusionStore) List(ctx context.Context) ([]string, error) {
	tokens, err := s.client.LRange(ctx, keyBlocklist, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	metrics.ExclusionSize.Set(float64(len(tokens)))
	return tokens, nil
}

// Add дописывает токены в конец, пропуская уже имеющиеся,
// и обрезает список до ёмкости с головы.
func (s *ExclusionStore) Add(ctx context.Context, tokens ...string) error {
	existing, err := s.client.LRange(ctx, keyBlocklist, 0, -1).Result()
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[t] = struct{}{}
	}
	var fresh []any
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		fresh = append(fresh, t)
	}
	if len(fresh) == 0 {
		return nil
	}
	if err := s.client.RPush(ctx, keyBlocklist, fresh...).Err(); err != nil {
		return err
	}
	if err := s.client.LTrim(ctx, keyBlocklist, -exclusionCap, -1).Err(); err != nil {
		return err
	}
	size, err := s.client.LLen(ctx, keyBlocklist).Result()
	if err == nil {
		metrics.ExclusionSize.Set(float64(size))
	}
	return nil
}

// Clear очищает список отклонённых.
func (s *ExclusionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, keyBlocklist).Err(); err != nil {
		return err
	}
	metrics.ExclusionSize.Set(0)
	return nil
}

// SettingsStore хранит настройки одним JSON-блобом.
type SettingsStore struct {
	client *redis.Client
}

var _ domain.SettingsRepo = (*SettingsStore)(nil)

// NewSettingsStore создаёт хранилище настроек.
func NewSettingsStore(client *redis.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

// Get возвращает настройки, смерженные поверх значений по умолчанию.
func (s *SettingsStore) Get(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	raw, err := s.client.Get(ctx, keySettings).Bytes()
	if errors.Is(err, redis.Nil) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.DefaultSettings(), err
	}
	if !domain.KnownSource(settings.WallpaperSource) {
		settings.WallpaperSource = domain.DefaultSettings().WallpaperSource
	}
	return settings, nil
}

// Update применяет частичное обновление поверх текущих настроек.
func (s *SettingsStore) Update(ctx context.Context, patch map[string]any) (domain.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return current, err
	}
	next, err := mergeSettings(current, patch)
	if err != nil {
		return current, err
	}
	stored, err := json.Marshal(next)
	if err != nil {
		return current, err
	}
	if err := s.client.Set(ctx, keySettings, stored, 0).Err(); err != nil {
		return current, err
	}
	return next, nil
}

// mergeSettings накладывает частичный патч по JSON-именам полей.
// Неизвестный источник обоев приводится к источнику по умолчанию.
func mergeSettings(current domain.Settings, patch map[string]any) (domain.Settings, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return current, err
	}
	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return current, err
	}
	for k, v := range patch {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return current, err
	}
	next := domain.DefaultSettings()
	if err := json.Unmarshal(raw, &next); err != nil {
		return current, err
	}
	if !domain.KnownSource(next.WallpaperSource) {
		next.WallpaperSource = domain.DefaultSettings().WallpaperSource
	}
	return next, nil
}

func deleteByPattern(ctx context.Context, client *redis.Client, pattern string) error {
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}
