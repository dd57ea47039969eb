package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dayboard/internal/domain"
)

// Assets реализует domain.AssetRepo на основе pgxpool.
type Assets struct {
	pool *pgxpool.Pool
}

var _ domain.AssetRepo = (*Assets)(nil)

// NewAssets создаёт адаптер хранилища загруженных изображений.
func NewAssets(pool *pgxpool.Pool) *Assets {
	return &Assets{pool: pool}
}

func (a *Assets) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицу изображений, если её ещё нет.
func (a *Assets) EnsureSchema(ctx context.Context) error {
	ctx, cancel := a.connCtx(ctx)
	defer cancel()
	_, err := a.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS uploaded_images (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			mime TEXT NOT NULL DEFAULT '',
			size BIGINT NOT NULL DEFAULT 0,
			data_url TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("схема uploaded_images: %w", err)
	}
	return nil
}

// Save сохраняет изображение, присваивая id при необходимости.
func (a *Assets) Save(ctx context.Context, asset domain.UploadedAsset) (domain.UploadedAsset, error) {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if asset.UploadedAt.IsZero() {
		asset.UploadedAt = time.Now().UTC()
	}
	if asset.Size == 0 {
		asset.Size = int64(len(asset.DataURL))
	}
	ctx, cancel := a.connCtx(ctx)
	defer cancel()
	_, err := a.pool.Exec(ctx, `
		INSERT INTO uploaded_images (id, name, mime, size, data_url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		asset.ID, asset.Name, asset.Mime, asset.Size, asset.DataURL, asset.UploadedAt)
	if err != nil {
		return domain.UploadedAsset{}, fmt.Errorf("сохранение изображения: %w", err)
	}
	return asset, nil
}

// ListAll возвращает все изображения c полезной нагрузкой.
func (a *Assets) ListAll(ctx context.Context) ([]domain.UploadedAsset, error) {
	ctx, cancel := a.connCtx(ctx)
	defer cancel()
	rows, err := a.pool.Query(ctx, `
		SELECT id, name, mime, size, data_url, uploaded_at
		FROM uploaded_images
		ORDER BY uploaded_at`)
	if err != nil {
		return nil, fmt.Errorf("список изображений: %w", err)
	}
	defer rows.Close()

	var assets []domain.UploadedAsset
	for rows.Next() {
		var asset domain.UploadedAsset
		if err := rows.Scan(&asset.ID, &asset.Name, &asset.Mime, &asset.Size, &asset.DataURL, &asset.UploadedAt); err != nil {
			return nil, fmt.Errorf("чтение изображения: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход изображений: %w", err)
	}
	return assets, nil
}

// Delete удаляет изображение по id.
func (a *Assets) Delete(ctx context.Context, id string) error {
	ctx, cancel := a.connCtx(ctx)
	defer cancel()
	tag, err := a.pool.Exec(ctx, `DELETE FROM uploaded_images WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAssetNotFound
		}
		return fmt.Errorf("удаление изображения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

// Clear удаляет все изображения.
func (a *Assets) Clear(ctx context.Context) error {
	ctx, cancel := a.connCtx(ctx)
	defer cancel()
	if _, err := a.pool.Exec(ctx, `TRUNCATE uploaded_images`); err != nil {
		return fmt.Errorf("очистка изображений: %w", err)
	}
	return nil
}
