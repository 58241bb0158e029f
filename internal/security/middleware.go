package security

import (
	"context"
	"log"
	"net/http"
	"strings"

	"video-sharing-server/internal/repository"
	"video-sharing-server/internal/util"
)

// AuthMiddleware проверяет access токен и прикрепляет пользователя к контексту.
// Запрос без токена проходит дальше анонимно — так logout остаётся идемпотентным,
// а хендлеры, требующие личность, проверяют её наличие сами.
func AuthMiddleware(jwtService *JWTService, userRepository *repository.UserRepository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, userRepository, next))
	}
}

func handleAuthentication(jwtService *JWTService, userRepository *repository.UserRepository, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		token := extractToken(request)
		if token == "" {
			next.ServeHTTP(writer, request)
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			log.Printf("невалидный access токен: %v", err)
			util.HandleError(writer, "невалидный access токен", http.StatusUnauthorized)
			return
		}

		user, err := userRepository.FindByUUID(request.Context(), claims.UserUUID)
		if err != nil {
			log.Printf("пользователь из токена не найден: %v", err)
			util.HandleError(writer, "невалидный access токен", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, user.Sanitize()))
		next.ServeHTTP(writer, req)
	}
}

func extractToken(request *http.Request) string {
	if cookie, err := request.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authorizationHeader := request.Header.Get("Authorization")
	if strings.HasPrefix(authorizationHeader, "Bearer ") {
		return strings.TrimPrefix(authorizationHeader, "Bearer ")
	}

	return ""
}
