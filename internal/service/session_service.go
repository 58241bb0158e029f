package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"video-sharing-server/internal/model"
	"video-sharing-server/internal/ports"
	"video-sharing-server/internal/security"
	"video-sharing-server/internal/util"

	"github.com/google/uuid"
)

// SessionService оркестрирует жизненный цикл сессии: регистрацию, логин,
// logout, ротацию refresh токена и смену пароля.
type SessionService struct {
	userRepository ports.UserRepository
	jwtService     ports.JWTServiceInterface
	storage        ports.MediaStorage
}

func NewSessionService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
	storage ports.MediaStorage,
) *SessionService {
	return &SessionService{
		userRepository: userRepository,
		jwtService:     jwtService,
		storage:        storage,
	}
}

func (s *SessionService) Register(ctx context.Context, input *model.RegisterInput) (*model.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	username := strings.ToLower(strings.TrimSpace(input.Username))

	// пароль проверяется на пустоту после trim, но хэшируется как введён:
	// пробелы по краям — часть пароля, иначе логин с ним невозможен
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(input.Password) == "" {
		return nil, model.NewValidationError("все поля обязательны")
	}

	exists, err := s.userRepository.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("[SessionService] ошибка проверки уникальности: %w", err)
	}
	if exists {
		return nil, model.NewConflictError("пользователь с таким username или email уже существует")
	}

	if input.AvatarLocalPath == "" {
		return nil, model.NewValidationError("файл аватара обязателен")
	}

	userUUID := uuid.New().String()

	avatar, err := s.storage.UploadFile(ctx, input.AvatarLocalPath, assetKey(userUUID, "avatar", input.AvatarLocalPath))
	if err != nil {
		log.Printf("[SessionService] загрузка аватара не удалась: %v", err)
		return nil, model.NewUploadError("не удалось загрузить аватар")
	}

	// необязательная обложка: ошибка загрузки не валит регистрацию
	coverImageURL := ""
	if input.CoverImageLocalPath != "" {
		cover, err := s.storage.UploadFile(ctx, input.CoverImageLocalPath, assetKey(userUUID, "cover", input.CoverImageLocalPath))
		if err != nil {
			log.Printf("[SessionService] загрузка обложки не удалась, продолжаем без неё: %v", err)
		} else {
			coverImageURL = cover.URL
		}
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("[SessionService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:          userUUID,
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     avatar.URL,
		CoverImageURL: coverImageURL,
		PasswordHash:  passwordHash,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("[SessionService] ошибка создания пользователя: %w", err)
	}

	return created.Sanitize(), nil
}

func (s *SessionService) Login(ctx context.Context, username, email, password string) (*model.User, *model.TokensPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(email)

	if username == "" && email == "" {
		return nil, nil, model.NewValidationError("требуется username или email")
	}

	user, err := s.userRepository.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, model.NewNotFoundError("пользователь не найден")
		}
		return nil, nil, fmt.Errorf("[SessionService] ошибка поиска пользователя: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, model.NewUnauthorizedError("неверный пароль")
	}

	tokens, err := s.issueTokens(ctx, user.UUID)
	if err != nil {
		return nil, nil, err
	}

	return user.Sanitize(), tokens, nil
}

// Logout очищает слот refresh токена. Пустой userUUID означает анонимный
// запрос — logout всё равно успешен с точки зрения клиента.
func (s *SessionService) Logout(ctx context.Context, userUUID string) error {
	if userUUID == "" {
		return nil
	}

	if err := s.userRepository.SetRefreshToken(ctx, userUUID, nil); err != nil {
		return fmt.Errorf("[SessionService] не удалось очистить refresh токен: %w", err)
	}

	return nil
}

// Refresh проверяет входящий refresh токен и выдаёт новую пару.
// Входящий токен обязан совпадать с сохранённым: токен, вытесненный ротацией
// или logout-ом, отклоняется даже при валидной подписи.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	if refreshToken == "" {
		return nil, model.NewUnauthorizedError("требуется refresh токен")
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.NewUnauthorizedError(err.Error())
	}

	user, err := s.userRepository.FindByUUID(ctx, claims.UserUUID)
	if err != nil {
		return nil, model.NewUnauthorizedError("невалидный refresh токен")
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, model.NewUnauthorizedError("refresh токен просрочен или уже использован")
	}

	return s.issueTokens(ctx, user.UUID)
}

func (s *SessionService) ChangePassword(ctx context.Context, userUUID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return model.NewValidationError("новый пароль обязателен")
	}

	user, err := s.userRepository.FindByUUID(ctx, userUUID)
	if err != nil {
		return fmt.Errorf("[SessionService] пользователь не найден: %w", err)
	}

	if !security.CheckPassword(oldPassword, user.PasswordHash) {
		return model.NewValidationError("неверный старый пароль")
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("[SessionService] не удалось создать хэш пароля: %w", err)
	}

	if err := s.userRepository.UpdatePassword(ctx, userUUID, passwordHash); err != nil {
		return fmt.Errorf("[SessionService] не удалось обновить пароль: %w", err)
	}

	return nil
}

// issueTokens выдаёт пару и перезаписывает единственный слот refresh токена,
// инвалидируя предыдущий.
func (s *SessionService) issueTokens(ctx context.Context, userUUID string) (*model.TokensPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(userUUID)
	if err != nil {
		return nil, util.LogError("[SessionService] ошибка генерации access токена", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(userUUID)
	if err != nil {
		return nil, util.LogError("[SessionService] ошибка генерации refresh токена", err)
	}

	if err := s.userRepository.SetRefreshToken(ctx, userUUID, &refreshToken); err != nil {
		return nil, fmt.Errorf("[SessionService] не удалось сохранить refresh токен: %w", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// assetKey : ключ объекта в хранилище для файлов профиля
func assetKey(userUUID, kind, localPath string) string {
	return fmt.Sprintf("users/%s/%s-%s%s", userUUID, kind, uuid.New().String()[:8], filepath.Ext(localPath))
}
