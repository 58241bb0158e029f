package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"video-sharing-server/internal/model"
	"video-sharing-server/internal/model/requestresponse"
	"video-sharing-server/internal/ports"
	"video-sharing-server/internal/security"
	"video-sharing-server/internal/util"
)

type SessionHandler struct {
	ports.SessionService
}

func NewSessionHandler(sessionService ports.SessionService) *SessionHandler {
	return &SessionHandler{sessionService}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя; аватар обязателен, обложка опциональна
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param fullName formData string true "Полное имя"
// @Param email formData string true "Email"
// @Param username formData string true "Имя пользователя"
// @Param password formData string true "Пароль"
// @Param avatar formData file true "Аватар"
// @Param coverImage formData file false "Обложка"
// @Success 201 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/v1/users/register [post]
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	avatarPath, _, err := formFileToTemp(r, "avatar")
	if err != nil {
		util.HandleError(w, "ошибка сохранения файла", http.StatusInternalServerError)
		return
	}
	defer removeTempFiles(avatarPath)

	coverPath, _, err := formFileToTemp(r, "coverImage")
	if err != nil {
		util.HandleError(w, "ошибка сохранения файла", http.StatusInternalServerError)
		return
	}
	defer removeTempFiles(coverPath)

	input := &model.RegisterInput{
		FullName:            r.FormValue("fullName"),
		Email:               r.FormValue("email"),
		Username:            r.FormValue("username"),
		Password:            r.FormValue("password"),
		AvatarLocalPath:     avatarPath,
		CoverImageLocalPath: coverPath,
	}

	user, err := h.SessionService.Register(ctx, input)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusCreated, user, "пользователь успешно зарегистрирован")
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Выдаёт пару токенов по username/email и паролю, ставит http-only cookie
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/v1/users/login [post]
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	user, tokens, err := h.SessionService.Login(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	setAuthCookies(w, tokens)

	util.WriteData(w, http.StatusOK, requestresponse.LoginData{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "пользователь успешно вошёл")
}

// Logout godoc
// @Summary Завершение сессии
// @Description Очищает refresh токен и cookie; всегда успешен, даже без личности
// @Tags Users
// @Produce json
// @Success 200 {object} requestresponse.ApiResponse
// @Router /api/v1/users/logout [post]
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userUUID := ""
	if user, err := security.GetUserFromContext(r.Context()); err == nil {
		userUUID = user.UUID
	}

	if err := h.SessionService.Logout(r.Context(), userUUID); err != nil {
		util.RespondError(w, err)
		return
	}

	clearAuthCookies(w)
	util.WriteData(w, http.StatusOK, struct{}{}, "пользователь вышел")
}

// RefreshToken godoc
// @Summary Обновление пары токенов
// @Description Принимает refresh токен из cookie либо тела запроса
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest false "Тело запроса"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/v1/users/refresh-token [post]
func (h *SessionHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	incoming := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		incoming = cookie.Value
	}

	if incoming == "" {
		var req requestresponse.RefreshTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
			return
		}
		incoming = req.RefreshToken
	}

	tokens, err := h.SessionService.Refresh(r.Context(), incoming)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	setAuthCookies(w, tokens)
	util.WriteData(w, http.StatusOK, tokens, "токены успешно обновлены")
}

// ChangePassword godoc
// @Summary Смена пароля
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.ChangePasswordRequest true "Тело запроса"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/v1/users/change-password [patch]
func (h *SessionHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if err := h.SessionService.ChangePassword(r.Context(), user.UUID, req.OldPassword, req.NewPassword); err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, struct{}{}, "пароль успешно изменён")
}

// setAuthCookies : токены недоступны клиентскому скрипту
func setAuthCookies(w http.ResponseWriter, tokens *model.TokensPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}
