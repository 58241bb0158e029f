package ports

import (
	"context"

	"video-sharing-server/internal/model"
)

type SessionService interface {
	Register(ctx context.Context, input *model.RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, email, password string) (*model.User, *model.TokensPair, error)
	Logout(ctx context.Context, userUUID string) error
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	ChangePassword(ctx context.Context, userUUID, oldPassword, newPassword string) error
}
