package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strings"

	"dayboard/internal/domain"
)

const manifestName = "images.json"

// Local пул встроенных изображений: манифест со списком файлов
// в каталоге, который сервер раздаёт как статику.
type Local struct {
	imagesDir string
	basePath  string
}

var _ domain.WallpaperProvider = (*Local)(nil)

// NewLocal создаёт провайдер встроенных изображений.
func NewLocal(imagesDir, basePath string) *Local {
	return &Local{imagesDir: imagesDir, basePath: strings.TrimRight(basePath, "/")}
}

// Name возвращает имя провайдера.
func (*Local) Name() string { return domain.ProviderLocal }

// Available всегда true: чтение манифеста и есть попытка.
func (*Local) Available(domain.ProviderParams) bool { return true }

// Fetch равновероятно выбирает файл из манифеста.
func (l *Local) Fetch(_ context.Context, _ domain.ProviderParams) (domain.WallpaperItem, error) {
	raw, err := os.ReadFile(filepath.Join(l.imagesDir, manifestName))
	if err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: манифест не прочитан: %v", domain.ErrPoolEmpty, err)
	}
	var files []string
	if err := json.Unmarshal(raw, &files); err != nil {
		return domain.WallpaperItem{}, fmt.Errorf("%w: манифест не разобран: %v", domain.ErrProviderData, err)
	}
	if len(files) == 0 {
		return domain.WallpaperItem{}, fmt.Errorf("%w: манифест пуст", domain.ErrPoolEmpty)
	}

	pick := files[rand.Intn(len(files))]
	filename := path.Base(pick)
	return domain.WallpaperItem{
		Provider:   domain.ProviderLocal,
		Kind:       domain.KindPhoto,
		ID:         "file_" + pick,
		ImageURL:   l.basePath + "/" + pick,
		CreditText: "本地图片：" + filename,
	}, nil
}
