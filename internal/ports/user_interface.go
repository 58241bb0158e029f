package ports

import (
	"context"

	"video-sharing-server/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateAccount(ctx context.Context, uuid, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, uuid, avatarURL string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, uuid, coverImageURL string) (*model.User, error)
	UpdatePassword(ctx context.Context, uuid, newPasswordHash string) error
	SetRefreshToken(ctx context.Context, uuid string, token *string) error
	GetChannelProfile(ctx context.Context, username, viewerUUID string) (*model.ChannelProfile, error)
	ListWatchHistory(ctx context.Context, userUUID string) ([]*model.WatchHistoryEntry, error)
	AppendWatchHistory(ctx context.Context, userUUID, videoUUID string) error
}

type UserService interface {
	UpdateAccount(ctx context.Context, userUUID, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userUUID, localPath string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userUUID, localPath string) (*model.User, error)
	GetChannelProfile(ctx context.Context, username, viewerUUID string) (*model.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userUUID string) ([]*model.WatchHistoryEntry, error)
}
