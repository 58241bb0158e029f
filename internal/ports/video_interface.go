package ports

import (
	"context"

	"video-sharing-server/internal/model"
)

// VideoRepository : SQL слой
type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByUUID(ctx context.Context, uuid string) (*model.Video, error)
	List(ctx context.Context, filter *model.VideoListFilter) ([]*model.Video, int64, error)
	Update(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, uuid string) error
	IncrementViews(ctx context.Context, uuid string) error
}

type VideoService interface {
	ListVideos(ctx context.Context, filter *model.VideoListFilter) (*model.VideoListResult, error)
	PublishVideo(ctx context.Context, ownerUUID, title, description, fileName, localPath string) (*model.Video, error)
	GetVideoByUUID(ctx context.Context, videoUUID, viewerUUID string) (*model.Video, error)
	UpdateVideo(ctx context.Context, videoUUID, userUUID, title, description, thumbnailLocalPath string) (*model.Video, error)
	DeleteVideo(ctx context.Context, videoUUID, userUUID string) error
}
