package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"video-sharing-server/internal/model"
	"video-sharing-server/internal/ports"
)

// UserService : операции над профилем и каналом
type UserService struct {
	userRepository ports.UserRepository
	storage        ports.MediaStorage
}

func NewUserService(userRepository ports.UserRepository, storage ports.MediaStorage) *UserService {
	return &UserService{
		userRepository: userRepository,
		storage:        storage,
	}
}

func (s *UserService) UpdateAccount(ctx context.Context, userUUID, fullName, email string) (*model.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return nil, model.NewValidationError("fullName и email обязательны")
	}

	user, err := s.userRepository.UpdateAccount(ctx, userUUID, fullName, email)
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось обновить аккаунт: %w", err)
	}

	return user.Sanitize(), nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userUUID, localPath string) (*model.User, error) {
	if localPath == "" {
		return nil, model.NewValidationError("файл аватара отсутствует")
	}

	asset, err := s.storage.UploadFile(ctx, localPath, assetKey(userUUID, "avatar", localPath))
	if err != nil {
		return nil, model.NewUploadError("не удалось загрузить аватар")
	}

	user, err := s.userRepository.UpdateAvatar(ctx, userUUID, asset.URL)
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось обновить аватар: %w", err)
	}

	return user.Sanitize(), nil
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userUUID, localPath string) (*model.User, error) {
	if localPath == "" {
		return nil, model.NewValidationError("файл обложки отсутствует")
	}

	asset, err := s.storage.UploadFile(ctx, localPath, assetKey(userUUID, "cover", localPath))
	if err != nil {
		return nil, model.NewUploadError("не удалось загрузить обложку")
	}

	user, err := s.userRepository.UpdateCoverImage(ctx, userUUID, asset.URL)
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось обновить обложку: %w", err)
	}

	return user.Sanitize(), nil
}

func (s *UserService) GetChannelProfile(ctx context.Context, username, viewerUUID string) (*model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, model.NewValidationError("username обязателен")
	}

	profile, err := s.userRepository.GetChannelProfile(ctx, username, viewerUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("канал не существует")
		}
		return nil, fmt.Errorf("[UserService] не удалось получить профиль канала: %w", err)
	}

	return profile, nil
}

func (s *UserService) GetWatchHistory(ctx context.Context, userUUID string) ([]*model.WatchHistoryEntry, error) {
	history, err := s.userRepository.ListWatchHistory(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось получить историю просмотров: %w", err)
	}
	return history, nil
}
