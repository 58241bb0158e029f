package requestresponse

import "video-sharing-server/internal/model"

// LoginRequest : тело запроса на аутентификацию (username или email)
type LoginRequest struct {
	Username string `json:"username" example:"annlee"`
	Email    string `json:"email" example:"ann@x.com"`
	Password string `json:"password" example:"pw1"`
}

// LoginData : данные успешной аутентификации
type LoginData struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// RefreshTokenRequest : запрос на обновление пары токенов (токен также читается из cookie)
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzUxMiJ9..."`
}

// ChangePasswordRequest : тело запроса на смену пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" example:"pw1"`
	NewPassword string `json:"newPassword" example:"pw2"`
}

// UpdateAccountRequest : тело запроса на обновление данных аккаунта
type UpdateAccountRequest struct {
	FullName string `json:"fullName" example:"Ann Lee"`
	Email    string `json:"email" example:"ann@x.com"`
}
