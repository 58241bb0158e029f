package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"video-sharing-server/internal/model"
	"video-sharing-server/internal/model/requestresponse"
	"video-sharing-server/internal/ports"
	"video-sharing-server/internal/security"
	"video-sharing-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// CurrentUser godoc
// @Summary Текущий пользователь
// @Tags Users
// @Produce json
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/current-user [get]
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	util.WriteData(w, http.StatusOK, user, "текущий пользователь получен")
}

// UpdateAccount godoc
// @Summary Обновление данных аккаунта
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.UpdateAccountRequest true "Тело запроса"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/update-accounts [patch]
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	updated, err := h.UserService.UpdateAccount(r.Context(), user.UUID, req.FullName, req.Email)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, updated, "данные аккаунта обновлены")
}

// UpdateAvatar godoc
// @Summary Обновление аватара
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Аватар"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/avatar [patch]
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.UserService.UpdateAvatar)
}

// UpdateCoverImage godoc
// @Summary Обновление обложки
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param coverImage formData file true "Обложка"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/coverImage [patch]
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.UserService.UpdateCoverImage)
}

func (h *UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userUUID, localPath string) (*model.User, error),
) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	localPath, _, err := formFileToTemp(r, field)
	if err != nil {
		util.HandleError(w, "ошибка сохранения файла", http.StatusInternalServerError)
		return
	}
	defer removeTempFiles(localPath)

	updated, err := update(ctx, user.UUID, localPath)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, updated, "изображение успешно обновлено")
}

// ChannelProfile godoc
// @Summary Профиль канала
// @Description Возвращает канал со счётчиками подписчиков и подписок
// @Tags Users
// @Produce json
// @Param username path string true "Имя пользователя канала"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/c/{username} [get]
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")

	profile, err := h.UserService.GetChannelProfile(r.Context(), username, user.UUID)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, profile, "профиль канала получен")
}

// WatchHistory godoc
// @Summary История просмотров
// @Tags Users
// @Produce json
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/history [get]
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	history, err := h.UserService.GetWatchHistory(r.Context(), user.UUID)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, history, "история просмотров получена")
}
