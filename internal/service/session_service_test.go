package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"video-sharing-server/internal/model"
	"video-sharing-server/internal/security"
	"video-sharing-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	args := m.Called(ctx, username, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateAccount(ctx context.Context, uuid, fullName, email string) (*model.User, error) {
	args := m.Called(ctx, uuid, fullName, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, uuid, avatarURL string) (*model.User, error) {
	args := m.Called(ctx, uuid, avatarURL)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateCoverImage(ctx context.Context, uuid, coverImageURL string) (*model.User, error) {
	args := m.Called(ctx, uuid, coverImageURL)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, uuid, newPasswordHash string) error {
	args := m.Called(ctx, uuid, newPasswordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, uuid string, token *string) error {
	args := m.Called(ctx, uuid, token)
	return args.Error(0)
}

func (m *MockUserRepository) GetChannelProfile(ctx context.Context, username, viewerUUID string) (*model.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerUUID)
	if p, ok := args.Get(0).(*model.ChannelProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ListWatchHistory(ctx context.Context, userUUID string) ([]*model.WatchHistoryEntry, error) {
	args := m.Called(ctx, userUUID)
	if entries, ok := args.Get(0).([]*model.WatchHistoryEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) AppendWatchHistory(ctx context.Context, userUUID, videoUUID string) error {
	args := m.Called(ctx, userUUID, videoUUID)
	return args.Error(0)
}

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(userUUID string) (string, error) {
	args := m.Called(userUUID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) GenerateRefreshToken(userUUID string) (string, error) {
	args := m.Called(userUUID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateAccessToken(tokenStr string) (*security.Claims, error) {
	args := m.Called(tokenStr)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(tokenStr string) (*security.Claims, error) {
	args := m.Called(tokenStr)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMediaStorage
type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) UploadFile(ctx context.Context, localPath, key string) (*model.UploadedAsset, error) {
	args := m.Called(ctx, localPath, key)
	if asset, ok := args.Get(0).(*model.UploadedAsset); ok {
		return asset, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMediaStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockMediaStorage) ThumbnailURL(publicID string) string {
	args := m.Called(publicID)
	return args.String(0)
}

// ===== HELPERS =====

func newTestSessionService() (*service.SessionService, *MockUserRepository, *MockJWTService, *MockMediaStorage) {
	mockUserRepo := new(MockUserRepository)
	mockJWTService := new(MockJWTService)
	mockStorage := new(MockMediaStorage)

	svc := service.NewSessionService(mockUserRepo, mockJWTService, mockStorage)

	return svc, mockUserRepo, mockJWTService, mockStorage
}

func validRegisterInput() *model.RegisterInput {
	return &model.RegisterInput{
		FullName:        "Ann Lee",
		Email:           "ann@example.com",
		Username:        "AnnLee",
		Password:        "pw12345",
		AvatarLocalPath: "/tmp/uploads/avatar.png",
	}
}

// ===== TESTS: Register =====

// 1. Пустые обязательные поля
func TestRegister_MissingFields(t *testing.T) {
	svc, _, _, _ := newTestSessionService()

	cases := []struct {
		name  string
		input *model.RegisterInput
	}{
		{"empty fullName", &model.RegisterInput{Email: "a@b.c", Username: "u", Password: "p"}},
		{"empty email", &model.RegisterInput{FullName: "A", Username: "u", Password: "p"}},
		{"empty username", &model.RegisterInput{FullName: "A", Email: "a@b.c", Password: "p"}},
		{"empty password", &model.RegisterInput{FullName: "A", Email: "a@b.c", Username: "u"}},
		{"whitespace only", &model.RegisterInput{FullName: "   ", Email: "a@b.c", Username: "u", Password: "p"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)

			var apiErr *model.ApiError
			assert.ErrorAs(t, err, &apiErr)
			assert.Equal(t, 400, apiErr.StatusCode)
		})
	}
}

// 2. Дубликат username/email
func TestRegister_Conflict(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestSessionService()
	ctx := context.Background()

	mockUserRepo.On("ExistsByUsernameOrEmail", ctx, "annlee", "ann@example.com").
		Return(true, nil)

	_, err := svc.Register(ctx, validRegisterInput())

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
	mockUserRepo.AssertExpectations(t)
}

// 3. Аватар обязателен
func TestRegister_AvatarRequired(t *testing.T) {
	svc, mockUserRepo, _, mockStorage := newTestSessionService()
	ctx := context.Background()

	input := validRegisterInput()
	input.AvatarLocalPath = ""

	mockUserRepo.On("ExistsByUsernameOrEmail", ctx, "annlee", "ann@example.com").
		Return(false, nil)

	_, err := svc.Register(ctx, input)

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	mockStorage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

// 4. Ошибка загрузки аватара
func TestRegister_AvatarUploadError(t *testing.T) {
	svc, mockUserRepo, _, mockStorage := newTestSessionService()
	ctx := context.Background()

	mockUserRepo.On("ExistsByUsernameOrEmail", ctx, "annlee", "ann@example.com").
		Return(false, nil)
	mockStorage.On("UploadFile", ctx, "/tmp/uploads/avatar.png", mock.Anything).
		Return(nil, errors.New("s3 down"))

	_, err := svc.Register(ctx, validRegisterInput())

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	mockUserRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

// 5. Ошибка загрузки обложки не валит регистрацию
func TestRegister_CoverUploadErrorTolerated(t *testing.T) {
	svc, mockUserRepo, _, mockStorage := newTestSessionService()
	ctx := context.Background()

	input := validRegisterInput()
	input.CoverImageLocalPath = "/tmp/uploads/cover.png"

	mockUserRepo.On("ExistsByUsernameOrEmail", ctx, "annlee", "ann@example.com").
		Return(false, nil)
	mockStorage.On("UploadFile", ctx, "/tmp/uploads/avatar.png", mock.Anything).
		Return(&model.UploadedAsset{URL: "http://cdn/avatar.png", PublicID: "users/u1/avatar"}, nil)
	mockStorage.On("UploadFile", ctx, "/tmp/uploads/cover.png", mock.Anything).
		Return(nil, errors.New("s3 down"))
	mockUserRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.CoverImageURL == "" && u.AvatarURL == "http://cdn/avatar.png"
	})).Return(&model.User{UUID: "u1", Username: "annlee", AvatarURL: "http://cdn/avatar.png"}, nil)

	user, err := svc.Register(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, "annlee", user.Username)
	mockUserRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

// 6. Успешная регистрация: username в нижнем регистре, хэш вместо пароля
func TestRegister_Success(t *testing.T) {
	svc, mockUserRepo, _, mockStorage := newTestSessionService()
	ctx := context.Background()

	mockUserRepo.On("ExistsByUsernameOrEmail", ctx, "annlee", "ann@example.com").
		Return(false, nil)
	mockStorage.On("UploadFile", ctx, "/tmp/uploads/avatar.png", mock.Anything).
		Return(&model.UploadedAsset{URL: "http://cdn/avatar.png", PublicID: "users/u1/avatar"}, nil)
	mockUserRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "annlee" &&
			u.PasswordHash != "" &&
			u.PasswordHash != "pw12345" &&
			security.CheckPassword("pw12345", u.PasswordHash)
	})).Return(&model.User{UUID: "u1", Username: "annlee", Email: "ann@example.com"}, nil)

	user, err := svc.Register(ctx, validRegisterInput())

	assert.NoError(t, err)
	assert.Equal(t, "u1", user.UUID)
	assert.Empty(t, user.PasswordHash)
	mockUserRepo.AssertExpectations(t)
}

// 7. Пробелы по краям пароля не отбрасываются: логин тем же паролем обязан пройти
func TestRegister_PasswordEdgesPreserved(t *testing.T) {
	svc, mockUserRepo, _, mockStorage := newTestSessionService()
	ctx := context.Background()

	input := validRegisterInput()
	input.Password = "pw12345 "

	var storedHash string
	mockUserRepo.On("ExistsByUsernameOrEmail", ctx, "annlee", "ann@example.com").
		Return(false, nil)
	mockStorage.On("UploadFile", ctx, "/tmp/uploads/avatar.png", mock.Anything).
		Return(&model.UploadedAsset{URL: "http://cdn/avatar.png", PublicID: "users/u1/avatar"}, nil)
	mockUserRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
		storedHash = u.PasswordHash
		return true
	})).Return(&model.User{UUID: "u1", Username: "annlee"}, nil)

	_, err := svc.Register(ctx, input)

	assert.NoError(t, err)
	assert.True(t, security.CheckPassword("pw12345 ", storedHash),
		"пароль, введённый при регистрации, должен подходить при логине")
	assert.False(t, security.CheckPassword("pw12345", storedHash))
}

// ===== TESTS: Login =====

// 1. Без username и email
func TestLogin_NoIdentifier(t *testing.T) {
	svc, _, _, _ := newTestSessionService()

	_, _, err := svc.Login(context.Background(), "", "", "pw")

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}

// 2. Пользователь не найден
func TestLogin_UserNotFound(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestSessionService()
	ctx := context.Background()

	mockUserRepo.On("FindByUsernameOrEmail", ctx, "ghost", "").
		Return(nil, sql.ErrNoRows)

	_, _, err := svc.Login(ctx, "ghost", "", "pw")

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	mockUserRepo.AssertExpectations(t)
}

// 3. Неверный пароль
func TestLogin_WrongPassword(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestSessionService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", Username: "annlee", PasswordHash: hash}

	mockUserRepo.On("FindByUsernameOrEmail", ctx, "annlee", "").
		Return(user, nil)

	_, _, err := svc.Login(ctx, "annlee", "", "badpass")

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	mockUserRepo.AssertExpectations(t)
}

// 4. Успешный логин: пара токенов выдана, refresh сохранён в слот
func TestLogin_Success(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestSessionService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", Username: "annlee", PasswordHash: hash}
	refresh := "refresh-1"

	mockUserRepo.On("FindByUsernameOrEmail", ctx, "annlee", "").
		Return(user, nil)
	mockJWTService.On("GenerateAccessToken", "u1").Return("access-1", nil)
	mockJWTService.On("GenerateRefreshToken", "u1").Return("refresh-1", nil)
	mockUserRepo.On("SetRefreshToken", ctx, "u1", &refresh).Return(nil)

	sanitized, tokens, err := svc.Login(ctx, "annlee", "", "goodpass")

	assert.NoError(t, err)
	assert.Equal(t, "access-1", tokens.AccessToken)
	assert.Equal(t, "refresh-1", tokens.RefreshToken)
	assert.Empty(t, sanitized.PasswordHash)
	mockUserRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
}

// 5. Повторный логин перезаписывает слот refresh токена
func TestLogin_SecondLoginOverwritesSlot(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestSessionService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", Username: "annlee", PasswordHash: hash}

	mockUserRepo.On("FindByUsernameOrEmail", ctx, "annlee", "").Return(user, nil)
	mockJWTService.On("GenerateAccessToken", "u1").Return("access", nil).Twice()
	mockJWTService.On("GenerateRefreshToken", "u1").Return("refresh-a", nil).Once()
	mockJWTService.On("GenerateRefreshToken", "u1").Return("refresh-b", nil).Once()
	mockUserRepo.On("SetRefreshToken", ctx, "u1", mock.Anything).Return(nil)

	_, first, err := svc.Login(ctx, "annlee", "", "goodpass")
	assert.NoError(t, err)
	_, second, err := svc.Login(ctx, "annlee", "", "goodpass")
	assert.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	mockUserRepo.AssertNumberOfCalls(t, "SetRefreshToken", 2)
}

// ===== TESTS: Logout =====

// 1. Анонимный logout — no-op без ошибки
func TestLogout_Anonymous(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestSessionService()

	err := svc.Logout(context.Background(), "")

	assert.NoError(t, err)
	mockUserRepo.AssertNotCalled(t, "SetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

// 2. Logout очищает слот
func TestLogout_ClearsSlot(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestSessionService()
	ctx := context.Background()

	mockUserRepo.On("SetRefreshToken", ctx, "u1", (*string)(nil)).Return(nil)

	err := svc.Logout(ctx, "u1")

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}

// ===== TESTS: Refresh =====

// 1. Пустой токен
func TestRefresh_EmptyToken(t *testing.T) {
	svc, _, _, _ := newTestSessionService()

	_, err := svc.Refresh(context.Background(), "")

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

// 2. Невалидная подпись
func TestRefresh_InvalidToken(t *testing.T) {
	svc, _, mockJWTService, _ := newTestSessionService()

	mockJWTService.On("ValidateRefreshToken", "badtoken").
		Return(nil, errors.New("подпись не совпадает"))

	_, err := svc.Refresh(context.Background(), "badtoken")

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	mockJWTService.AssertExpectations(t)
}

// 3. Токен не совпадает с сохранённым — вытеснен ротацией или logout-ом
func TestRefresh_StoredTokenMismatch(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestSessionService()
	ctx := context.Background()

	stored := "refresh-current"
	claims := &security.Claims{UserUUID: "u1"}

	mockJWTService.On("ValidateRefreshToken", "refresh-stale").Return(claims, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").
		Return(&model.User{UUID: "u1", RefreshToken: &stored}, nil)

	_, err := svc.Refresh(ctx, "refresh-stale")

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	mockUserRepo.AssertNotCalled(t, "SetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

// 4. Слот пуст после logout
func TestRefresh_EmptySlot(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestSessionService()
	ctx := context.Background()

	claims := &security.Claims{UserUUID: "u1"}

	mockJWTService.On("ValidateRefreshToken", "refresh-1").Return(claims, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").
		Return(&model.User{UUID: "u1", RefreshToken: nil}, nil)

	_, err := svc.Refresh(ctx, "refresh-1")

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

// 5. Успешная ротация: выдана новая пара, слот перезаписан
func TestRefresh_Success(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestSessionService()
	ctx := context.Background()

	stored := "refresh-1"
	newRefresh := "refresh-2"
	claims := &security.Claims{UserUUID: "u1"}

	mockJWTService.On("ValidateRefreshToken", "refresh-1").Return(claims, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").
		Return(&model.User{UUID: "u1", RefreshToken: &stored}, nil)
	mockJWTService.On("GenerateAccessToken", "u1").Return("access-2", nil)
	mockJWTService.On("GenerateRefreshToken", "u1").Return("refresh-2", nil)
	mockUserRepo.On("SetRefreshToken", ctx, "u1", &newRefresh).Return(nil)

	tokens, err := svc.Refresh(ctx, "refresh-1")

	assert.NoError(t, err)
	assert.Equal(t, "access-2", tokens.AccessToken)
	assert.Equal(t, "refresh-2", tokens.RefreshToken)
	mockUserRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
}

// ===== TESTS: ChangePassword =====

// 1. Неверный старый пароль
func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestSessionService()
	ctx := context.Background()

	hash, _ := security.HashPassword("oldpass")
	mockUserRepo.On("FindByUUID", ctx, "u1").
		Return(&model.User{UUID: "u1", PasswordHash: hash}, nil)

	err := svc.ChangePassword(ctx, "u1", "wrongpass", "newpass")

	var apiErr *model.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	mockUserRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

// 2. Успешная смена пароля
func TestChangePassword_Success(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestSessionService()
	ctx := context.Background()

	hash, _ := security.HashPassword("oldpass")
	mockUserRepo.On("FindByUUID", ctx, "u1").
		Return(&model.User{UUID: "u1", PasswordHash: hash}, nil)
	mockUserRepo.On("UpdatePassword", ctx, "u1", mock.MatchedBy(func(newHash string) bool {
		return security.CheckPassword("newpass", newHash)
	})).Return(nil)

	err := svc.ChangePassword(ctx, "u1", "oldpass", "newpass")

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}
