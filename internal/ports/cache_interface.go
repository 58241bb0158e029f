package ports

import (
	"context"

	"video-sharing-server/internal/model"
)

// CacheRepository : Redis слой
type CacheRepository interface {
	SetVideo(ctx context.Context, video *model.Video) error
	GetVideo(ctx context.Context, uuid string) (*model.Video, error)
	DeleteVideo(ctx context.Context, uuid string) error
}
