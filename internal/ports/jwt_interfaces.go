package ports

import (
	"video-sharing-server/internal/security"
)

type JWTServiceInterface interface {
	GenerateAccessToken(userUUID string) (string, error)
	GenerateRefreshToken(userUUID string) (string, error)
	ValidateAccessToken(tokenStr string) (*security.Claims, error)
	ValidateRefreshToken(tokenStr string) (*security.Claims, error)
}
