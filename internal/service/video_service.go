package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"video-sharing-server/internal/model"
	"video-sharing-server/internal/ports"

	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// VideoService : каталог видео — CRUD, листинг, загрузки через шлюз
type VideoService struct {
	videoRepository ports.VideoRepository
	cacheRepository ports.CacheRepository
	userRepository  ports.UserRepository
	storage         ports.MediaStorage
}

func NewVideoService(
	videoRepository ports.VideoRepository,
	cacheRepository ports.CacheRepository,
	userRepository ports.UserRepository,
	storage ports.MediaStorage,
) *VideoService {
	return &VideoService{
		videoRepository: videoRepository,
		cacheRepository: cacheRepository,
		userRepository:  userRepository,
		storage:         storage,
	}
}

func (s *VideoService) ListVideos(ctx context.Context, filter *model.VideoListFilter) (*model.VideoListResult, error) {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	videos, total, err := s.videoRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("[VideoService] не удалось получить список видео: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &model.VideoListResult{
		TotalVideos: total,
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		Videos:      videos,
	}, nil
}

func (s *VideoService) PublishVideo(ctx context.Context, ownerUUID, title, description, fileName, localPath string) (*model.Video, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" || description == "" {
		return nil, model.NewValidationError("title и description обязательны")
	}
	if localPath == "" {
		return nil, model.NewValidationError("видеофайл обязателен")
	}

	videoUUID := uuid.New().String()
	storageKey := fmt.Sprintf("videos/%s%s", videoUUID, filepath.Ext(localPath))

	asset, err := s.storage.UploadFile(ctx, localPath, storageKey)
	if err != nil {
		log.Printf("[VideoService] загрузка видео не удалась: %v", err)
		return nil, model.NewUploadError("не удалось загрузить видео")
	}

	video := &model.Video{
		UUID:         videoUUID,
		OwnerUUID:    ownerUUID,
		Title:        title,
		Description:  description,
		VideoFile:    fileName,
		VideoURL:     asset.URL,
		ThumbnailURL: s.storage.ThumbnailURL(asset.PublicID),
		StorageKey:   storageKey,
	}

	if err := s.videoRepository.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("[VideoService] не удалось сохранить видео: %w", err)
	}

	log.Printf("[VideoService] видео %s успешно опубликовано", video.UUID)
	return video, nil
}

// GetVideoByUUID : cache-aside чтение; авторизованный просмотр попадает
// в историю и увеличивает счётчик (best effort).
func (s *VideoService) GetVideoByUUID(ctx context.Context, videoUUID, viewerUUID string) (*model.Video, error) {
	if err := validateUUID(videoUUID); err != nil {
		return nil, err
	}

	video, err := s.cacheRepository.GetVideo(ctx, videoUUID)
	if err != nil {
		log.Printf("[VideoService] ошибка чтения кэша: %v", err)
	}

	if video == nil {
		video, err = s.videoRepository.GetByUUID(ctx, videoUUID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, model.NewNotFoundError("видео не найдено")
			}
			return nil, fmt.Errorf("[VideoService] не удалось получить видео: %w", err)
		}

		if err := s.cacheRepository.SetVideo(ctx, video); err != nil {
			log.Printf("[VideoService] ошибка кэширования видео: %v", err)
		}
	}

	if viewerUUID != "" {
		if err := s.userRepository.AppendWatchHistory(ctx, viewerUUID, video.UUID); err != nil {
			log.Printf("[VideoService] не удалось записать историю просмотра: %v", err)
		}
		if err := s.videoRepository.IncrementViews(ctx, video.UUID); err != nil {
			log.Printf("[VideoService] не удалось увеличить счётчик просмотров: %v", err)
		} else {
			// счётчик в ответе и в кэше не отстаёт от БД
			video.Views++
			if err := s.cacheRepository.SetVideo(ctx, video); err != nil {
				log.Printf("[VideoService] ошибка обновления кэша после просмотра: %v", err)
			}
		}
	}

	return video, nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, videoUUID, userUUID, title, description, thumbnailLocalPath string) (*model.Video, error) {
	if err := validateUUID(videoUUID); err != nil {
		return nil, err
	}

	video, err := s.videoRepository.GetByUUID(ctx, videoUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("видео не найдено")
		}
		return nil, fmt.Errorf("[VideoService] не удалось получить видео: %w", err)
	}

	if video.OwnerUUID != userUUID {
		return nil, model.NewApiError(http.StatusForbidden, "только владелец может изменить видео")
	}

	if thumbnailLocalPath != "" {
		key := fmt.Sprintf("thumbnails/%s%s", videoUUID, filepath.Ext(thumbnailLocalPath))
		asset, err := s.storage.UploadFile(ctx, thumbnailLocalPath, key)
		if err != nil {
			return nil, model.NewUploadError("не удалось загрузить миниатюру")
		}
		video.ThumbnailURL = asset.URL
	}

	if title = strings.TrimSpace(title); title != "" {
		video.Title = title
	}
	if description = strings.TrimSpace(description); description != "" {
		video.Description = description
	}

	if err := s.videoRepository.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("[VideoService] не удалось обновить видео: %w", err)
	}

	if err := s.cacheRepository.DeleteVideo(ctx, videoUUID); err != nil {
		log.Printf("[VideoService] ошибка удаления видео из кэша: %v", err)
	}

	return video, nil
}

func (s *VideoService) DeleteVideo(ctx context.Context, videoUUID, userUUID string) error {
	if err := validateUUID(videoUUID); err != nil {
		return err
	}

	video, err := s.videoRepository.GetByUUID(ctx, videoUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFoundError("видео не найдено")
		}
		return fmt.Errorf("[VideoService] не удалось получить видео: %w", err)
	}

	if video.OwnerUUID != userUUID {
		return model.NewApiError(http.StatusForbidden, "только владелец может удалить видео")
	}

	if err := s.videoRepository.Delete(ctx, videoUUID); err != nil {
		return fmt.Errorf("[VideoService] не удалось удалить видео: %w", err)
	}

	if err := s.cacheRepository.DeleteVideo(ctx, videoUUID); err != nil {
		log.Printf("[VideoService] ошибка удаления видео из кэша: %v", err)
	}

	if err := s.storage.DeleteObject(ctx, video.StorageKey); err != nil {
		log.Printf("[VideoService] не удалось удалить файл из хранилища: %v", err)
	}

	log.Printf("[VideoService] видео %s успешно удалено", videoUUID)
	return nil
}

// validateUUID отклоняет некорректный идентификатор до любого обращения к хранилищу
func validateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError("некорректный идентификатор видео")
	}
	return nil
}
