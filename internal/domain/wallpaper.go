package domain

import "time"

// WallpaperKind тип фонового изображения.
type WallpaperKind string

const (
	// KindPhoto фотография по URL или data-URI.
	KindPhoto WallpaperKind = "photo"
	// KindGradient CSS-градиент, не требующий сети.
	KindGradient WallpaperKind = "gradient"
)

// Имена провайдеров обоев. Значение попадает в поле provider элемента.
const (
	ProviderLocal          = "local"
	ProviderUploaded       = "uploaded"
	ProviderDailyPhoto     = "dailyphoto"
	ProviderDailyPhotoOnce = "dailyphoto-today"
	ProviderCollection     = "collection"
	ProviderFeatured       = "featured"
	ProviderOffline        = "offline"
)

// WallpaperItem результат резолва обоев. Ровно одно из полей
// ImageURL и CSSBackground непусто.
type WallpaperItem struct {
	Provider      string        `json:"provider"`
	Kind          WallpaperKind `json:"kind"`
	ID            string        `json:"id,omitempty"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	CSSBackground string        `json:"cssBackground,omitempty"`
	CreditText    string        `json:"creditText,omitempty"`
	CreditURL     string        `json:"creditUrl,omitempty"`
	CachedAt      *time.Time    `json:"cachedAt,omitempty"`
	FromCache     bool          `json:"fromCache"`
}

// Usable сообщает, можно ли показывать элемент как фон.
func (w WallpaperItem) Usable() bool {
	return w.Provider != "" && (w.ImageURL != "" || w.CSSBackground != "")
}

// ArchiveImage сырая запись дневного архива фотопровайдера,
// кэшируется списком на день, чтобы не дёргать провайдера на каждый резолв.
type ArchiveImage struct {
	URL           string `json:"url"`
	URLBase       string `json:"urlbase"`
	Hash          string `json:"hsh"`
	FullStartDate string `json:"fullstartdate"`
	Copyright     string `json:"copyright"`
	CopyrightLink string `json:"copyrightlink"`
}

// DayKey вычисляет календарный ключ дня (YYYY-MM-DD) в заданной тайм-зоне.
// Неизвестная зона трактуется как UTC.
func DayKey(t time.Time, tzName string) string {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02")
}

// ProviderParams параметры одной попытки провайдера.
type ProviderParams struct {
	Settings Settings
	DayKey   string
}
