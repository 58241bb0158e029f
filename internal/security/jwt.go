package security

import (
	"context"
	"fmt"
	"time"

	"video-sharing-server/config"
	"video-sharing-server/internal/model"
	"video-sharing-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserUUID string `json:"user_uuid"`
	jwt.RegisteredClaims
}

// JWTService подписывает и проверяет два класса токенов.
// Секреты и TTL загружаются один раз при старте процесса; их ротация
// инвалидирует все выданные токены соответствующего класса.
type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// GenerateAccessToken : короткоживущий токен, нигде не хранится
func (service *JWTService) GenerateAccessToken(userUUID string) (string, error) {
	return service.generateToken(userUUID, service.AccessSecretKey, service.AccessTokenTTL)
}

// GenerateRefreshToken : долгоживущий токен, сохраняется в единственном слоте пользователя
func (service *JWTService) GenerateRefreshToken(userUUID string) (string, error) {
	return service.generateToken(userUUID, service.RefreshSecretKey, service.RefreshTokenTTL)
}

func (service *JWTService) generateToken(userUUID string, secretKey string, ttl string) (string, error) {
	timeDuration, err := time.ParseDuration(ttl)
	if err != nil {
		return "", util.LogError("ошибка парсинга TTL токена", err)
	}

	claims := Claims{
		UserUUID: userUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "video-sharing-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := jwtToken.SignedString([]byte(secretKey))
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}

	return signed, nil
}

func (service *JWTService) ValidateAccessToken(jwtTokenStr string) (*Claims, error) {
	return validateJWT(jwtTokenStr, []byte(service.AccessSecretKey))
}

func (service *JWTService) ValidateRefreshToken(jwtTokenStr string) (*Claims, error) {
	return validateJWT(jwtTokenStr, []byte(service.RefreshSecretKey))
}

func validateJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil || jwtToken.Valid == false {
		return nil, util.LogError("невалидный токен", err)
	}

	return claims, nil
}

// GetUserFromContext возвращает пользователя, прикреплённого Auth Guard-ом.
// Ошибка означает анонимный запрос — хендлеры, требующие личность, проверяют это сами.
func GetUserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(UserContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return user, nil
}
