package domain

import "time"

// UploadedAsset изображение, загруженное пользователем. Полезная нагрузка
// хранится инлайном как data-URI, а не как внешний URL.
type UploadedAsset struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Mime       string    `json:"mime"`
	Size       int64     `json:"size"`
	DataURL    string    `json:"dataUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}
