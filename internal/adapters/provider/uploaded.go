package provider

import (
	"context"
	"fmt"
	"math/rand"

	"dayboard/internal/domain"
)

// Uploaded пул изображений, загруженных пользователем. Полезная нагрузка
// подставляется инлайном как data-URI, внешних URL нет.
type Uploaded struct {
	assets domain.AssetRepo
}

var _ domain.WallpaperProvider = (*Uploaded)(nil)

// NewUploaded создаёт провайдер загруженных изображений.
func NewUploaded(assets domain.AssetRepo) *Uploaded {
	return &Uploaded{assets: assets}
}

// Name возвращает имя провайдера.
func (*Uploaded) Name() string { return domain.ProviderUploaded }

// Available всегда true: пустой пул выяснится при попытке.
func (*Uploaded) Available(domain.ProviderParams) bool { return true }

// Fetch равновероятно выбирает изображение из хранилища.
func (u *Uploaded) Fetch(ctx context.Context, _ domain.ProviderParams) (domain.WallpaperItem, error) {
	assets, err := u.assets.ListAll(ctx)
	if err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: чтение пула загруженных: %v", domain.ErrProviderTransport, err)
	}
	if len(assets) == 0 {
		return domain.WallpaperItem{}, fmt.Errorf("%w: нет загруженных изображений", domain.ErrPoolEmpty)
	}

	pick := assets[rand.Intn(len(assets))]
	if pick.DataURL == "" {
		return domain.WallpaperItem{}, fmt.Errorf("%w: у изображения %s нет данных", domain.ErrProviderData, pick.ID)
	}
	name := pick.Name
	if name == "" {
		name = "uploaded"
	}
	return domain.WallpaperItem{
		Provider:   domain.ProviderUploaded,
		Kind:       domain.KindPhoto,
		ID:         "db_" + pick.ID,
		ImageURL:   pick.DataURL,
		CreditText: "本地上传：" + name,
	}, nil
}
