package ports

import (
	"context"

	"video-sharing-server/internal/model"
)

// MediaStorage : шлюз загрузки медиафайлов.
// UploadFile либо возвращает заполненный результат, либо ошибку — никогда nil молча.
type MediaStorage interface {
	UploadFile(ctx context.Context, localPath, key string) (*model.UploadedAsset, error)
	DeleteObject(ctx context.Context, key string) error
	ThumbnailURL(publicID string) string
}
