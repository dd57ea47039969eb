package provider

import (
	"context"
	"math/rand"

	"dayboard/internal/domain"
)

// Палитра офлайн-градиентов, значения в формате CSS background.
var gradientPalette = []string{
	"radial-gradient(1200px 700px at 20% 20%, #2a3a7a 0%, rgba(42, 58, 122, 0) 55%),radial-gradient(900px 600px at 80% 10%, #246b6b 0%, rgba(36, 107, 107, 0) 50%),radial-gradient(900px 600px at 70% 90%, #6b3a24 0%, rgba(107, 58, 36, 0) 55%),linear-gradient(180deg, #0b1020 0%, #050812 100%)",
	"radial-gradient(900px 600px at 20% 30%, rgba(60, 130, 246, 0.35) 0%, rgba(60,130,246,0) 60%),radial-gradient(900px 600px at 80% 70%, rgba(16, 185, 129, 0.25) 0%, rgba(16,185,129,0) 55%),linear-gradient(180deg, #0b1020 0%, #070a16 100%)",
	"radial-gradient(1000px 700px at 30% 20%, rgba(244, 114, 182, 0.22) 0%, rgba(244,114,182,0) 60%),radial-gradient(1000px 700px at 70% 80%, rgba(245, 158, 11, 0.18) 0%, rgba(245,158,11,0) 55%),linear-gradient(180deg, #0b1020 0%, #050812 100%)",
}

// Gradient терминальный офлайн-провайдер. Без ввода-вывода, не падает,
// не подлежит исключению, поэтому цепочка фолбэков всегда завершается.
type Gradient struct{}

var _ domain.WallpaperProvider = Gradient{}

// NewGradient создаёт офлайн-провайдер.
func NewGradient() Gradient {
	return Gradient{}
}

// Name возвращает имя провайдера.
func (Gradient) Name() string { return domain.ProviderOffline }

// Available всегда true.
func (Gradient) Available(domain.ProviderParams) bool { return true }

// Fetch выбирает случайный градиент из палитры.
func (Gradient) Fetch(context.Context, domain.ProviderParams) (domain.WallpaperItem, error) {
	css := gradientPalette[rand.Intn(len(gradientPalette))]
	return domain.WallpaperItem{
		Provider:      domain.ProviderOffline,
		Kind:          domain.KindGradient,
		CSSBackground: css,
		CreditText:    "离线背景（渐变）",
	}, nil
}
