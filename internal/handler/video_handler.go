package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"video-sharing-server/internal/model"
	"video-sharing-server/internal/model/requestresponse"
	"video-sharing-server/internal/ports"
	"video-sharing-server/internal/security"
	"video-sharing-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type VideoHandler struct {
	ports.VideoService
}

func NewVideoHandler(videoService ports.VideoService) *VideoHandler {
	return &VideoHandler{videoService}
}

// ListVideos godoc
// @Summary Список видео
// @Description Пагинация, поиск по названию, фильтр по владельцу, сортировка
// @Tags Videos
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(10)
// @Param query query string false "Подстрока названия"
// @Param sortBy query string false "Поле сортировки" default(created_at)
// @Param sortType query string false "asc либо desc" default(desc)
// @Param userId query string false "UUID владельца"
// @Success 200 {object} requestresponse.ApiResponse
// @Router /api/v1/videos [get]
func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := &model.VideoListFilter{
		Query:     query.Get("query"),
		OwnerUUID: query.Get("userId"),
		SortBy:    query.Get("sortBy"),
		SortType:  query.Get("sortType"),
		Page:      parseIntParam(query.Get("page"), 1),
		Limit:     parseIntParam(query.Get("limit"), 10),
	}

	result, err := h.VideoService.ListVideos(r.Context(), filter)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, result, "список видео получен")
}

// PublishVideo godoc
// @Summary Публикация видео
// @Tags Videos
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Название"
// @Param description formData string true "Описание"
// @Param videoFile formData file true "Видеофайл"
// @Success 201 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/videos/publish [post]
func (h *VideoHandler) PublishVideo(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	localPath, fileName, err := formFileToTemp(r, "videoFile")
	if err != nil {
		util.HandleError(w, "ошибка сохранения файла", http.StatusInternalServerError)
		return
	}
	defer removeTempFiles(localPath)

	video, err := h.VideoService.PublishVideo(ctx, user.UUID, r.FormValue("title"), r.FormValue("description"), fileName, localPath)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusCreated, video, "видео успешно опубликовано")
}

// GetVideo godoc
// @Summary Получение видео по идентификатору
// @Tags Videos
// @Produce json
// @Param videoId path string true "UUID видео"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/v1/videos/{videoId} [get]
func (h *VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")

	// анонимный просмотр допустим, но не попадает в историю
	viewerUUID := ""
	if user, err := security.GetUserFromContext(r.Context()); err == nil {
		viewerUUID = user.UUID
	}

	video, err := h.VideoService.GetVideoByUUID(r.Context(), videoID, viewerUUID)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, video, "видео получено")
}

// UpdateVideo godoc
// @Summary Частичное обновление видео
// @Description Принимает JSON либо multipart с новой миниатюрой
// @Tags Videos
// @Accept multipart/form-data
// @Produce json
// @Param videoId path string true "UUID видео"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/videos/update/{videoId} [put]
func (h *VideoHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	videoID := chi.URLParam(r, "videoId")

	var title, description, thumbnailPath string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
			return
		}
		title = r.FormValue("title")
		description = r.FormValue("description")
		thumbnailPath, _, err = formFileToTemp(r, "thumbnail")
		if err != nil {
			util.HandleError(w, "ошибка сохранения файла", http.StatusInternalServerError)
			return
		}
	} else {
		var req requestresponse.UpdateVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
			return
		}
		title = req.Title
		description = req.Description
	}
	defer removeTempFiles(thumbnailPath)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	video, err := h.VideoService.UpdateVideo(ctx, videoID, user.UUID, title, description, thumbnailPath)
	if err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, video, "видео успешно обновлено")
}

// DeleteVideo godoc
// @Summary Удаление видео
// @Tags Videos
// @Produce json
// @Param videoId path string true "UUID видео"
// @Success 200 {object} requestresponse.ApiResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/videos/delete/{videoId} [delete]
func (h *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	videoID := chi.URLParam(r, "videoId")

	if err := h.VideoService.DeleteVideo(r.Context(), videoID, user.UUID); err != nil {
		util.RespondError(w, err)
		return
	}

	util.WriteData(w, http.StatusOK, struct{}{}, "видео успешно удалено")
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
