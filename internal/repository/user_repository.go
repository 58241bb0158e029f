package repository

import (
	"context"

	"video-sharing-server/config"
	"video-sharing-server/internal/model"
	"video-sharing-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, username, email, full_name, avatar_url, cover_image_url, password_hash)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING uuid, username, email, full_name, avatar_url, cover_image_url, password_hash, refresh_token, created_at, updated_at
	`

	createdUser := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query,
		user.UUID,
		user.Username,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.CoverImageURL,
		user.PasswordHash,
	).StructScan(createdUser)

	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	query := `SELECT * FROM users WHERE uuid = $1`
	var user model.User
	err := sqlx.GetContext(ctx, r.DB, &user, query, uuid)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByUsernameOrEmail : ищет пользователя по username либо email
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE username = $1 OR email = $2 LIMIT 1`
	var user model.User
	err := sqlx.GetContext(ctx, r.DB, &user, query, username, email)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по username/email", err)
	}
	return &user, nil
}

// ExistsByUsernameOrEmail : проверка уникальности при регистрации
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	err := sqlx.GetContext(ctx, r.DB, &exists, query, username, email)
	if err != nil {
		return false, util.LogError("[UserRepo] ошибка проверки существования пользователя", err)
	}
	return exists, nil
}

// UpdateAccount : обновляет fullName и email
func (r *UserRepository) UpdateAccount(ctx context.Context, uuid, fullName, email string) (*model.User, error) {
	query := `
		UPDATE users
		SET full_name = $2, email = $3, updated_at = NOW()
		WHERE uuid = $1
		RETURNING *
	`
	var user model.User
	err := r.DB.QueryRowxContext(ctx, query, uuid, fullName, email).StructScan(&user)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось обновить данные аккаунта", err)
	}
	return &user, nil
}

// UpdateAvatar : меняет URL аватара
func (r *UserRepository) UpdateAvatar(ctx context.Context, uuid, avatarURL string) (*model.User, error) {
	return r.updateImage(ctx, `UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE uuid = $1 RETURNING *`, uuid, avatarURL)
}

// UpdateCoverImage : меняет URL обложки
func (r *UserRepository) UpdateCoverImage(ctx context.Context, uuid, coverImageURL string) (*model.User, error) {
	return r.updateImage(ctx, `UPDATE users SET cover_image_url = $2, updated_at = NOW() WHERE uuid = $1 RETURNING *`, uuid, coverImageURL)
}

func (r *UserRepository) updateImage(ctx context.Context, query, uuid, url string) (*model.User, error) {
	var user model.User
	err := r.DB.QueryRowxContext(ctx, query, uuid, url).StructScan(&user)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось обновить изображение", err)
	}
	return &user, nil
}

// UpdatePassword : меняет хэш пароля пользователя
func (r *UserRepository) UpdatePassword(ctx context.Context, uuid, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE uuid = $1`
	_, err := r.DB.ExecContext(ctx, query, uuid, newPasswordHash)
	if err != nil {
		return util.LogError("[UserRepo] не удалось обновить пароль", err)
	}
	return nil
}

// SetRefreshToken : перезаписывает единственный слот refresh токена.
// nil очищает слот (logout); конкурирующие логины работают по принципу last write wins.
func (r *UserRepository) SetRefreshToken(ctx context.Context, uuid string, token *string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE uuid = $1`
	_, err := r.DB.ExecContext(ctx, query, uuid, token)
	if err != nil {
		return util.LogError("[UserRepo] не удалось сохранить refresh токен", err)
	}
	return nil
}

// GetChannelProfile : профиль канала со счётчиками подписок
func (r *UserRepository) GetChannelProfile(ctx context.Context, username, viewerUUID string) (*model.ChannelProfile, error) {
	query := `
		SELECT u.uuid, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_uuid = u.uuid)    AS subscribers_count,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_uuid = u.uuid) AS subscribed_to_count,
		       EXISTS (
		           SELECT 1 FROM subscriptions s
		           WHERE s.channel_uuid = u.uuid AND s.subscriber_uuid = $2
		       ) AS is_subscribed
		FROM users u
		WHERE u.username = $1
	`

	var profile model.ChannelProfile
	err := sqlx.GetContext(ctx, r.DB, &profile, query, username, viewerUUID)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось получить профиль канала", err)
	}
	return &profile, nil
}

// ListWatchHistory : история просмотров, свежие сверху, вместе с владельцем видео
func (r *UserRepository) ListWatchHistory(ctx context.Context, userUUID string) ([]*model.WatchHistoryEntry, error) {
	query := `
		SELECT v.uuid AS video_uuid, v.title, v.thumbnail_url, v.video_url, v.duration_seconds,
		       h.watched_at,
		       o.uuid AS owner_uuid, o.username AS owner_username,
		       o.full_name AS owner_full_name, o.avatar_url AS owner_avatar
		FROM watch_history h
		JOIN videos v ON v.uuid = h.video_uuid
		JOIN users o ON o.uuid = v.owner_uuid
		WHERE h.user_uuid = $1
		ORDER BY h.watched_at DESC
	`

	entries := []*model.WatchHistoryEntry{}
	if err := sqlx.SelectContext(ctx, r.DB, &entries, query, userUUID); err != nil {
		return nil, util.LogError("[UserRepo] не удалось получить историю просмотров", err)
	}

	for _, entry := range entries {
		entry.Owner.Username = entry.OwnerUsername
		entry.Owner.FullName = entry.OwnerFullName
		entry.Owner.Avatar = entry.OwnerAvatar
	}

	return entries, nil
}

// AppendWatchHistory : повторный просмотр поднимает запись наверх истории
func (r *UserRepository) AppendWatchHistory(ctx context.Context, userUUID, videoUUID string) error {
	query := `
		INSERT INTO watch_history (user_uuid, video_uuid, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_uuid, video_uuid) DO UPDATE
		SET watched_at = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, userUUID, videoUUID)
	if err != nil {
		return util.LogError("[UserRepo] не удалось записать историю просмотра", err)
	}
	return nil
}
