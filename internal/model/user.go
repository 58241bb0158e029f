package model

import "time"

type User struct {
	UUID          string    `db:"uuid" json:"uuid"`
	Username      string    `db:"username" json:"username"`
	Email         string    `db:"email" json:"email"`
	FullName      string    `db:"full_name" json:"fullName"`
	AvatarURL     string    `db:"avatar_url" json:"avatar"`
	CoverImageURL string    `db:"cover_image_url" json:"coverImage"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	RefreshToken  *string   `db:"refresh_token" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Sanitize отдаёт копию пользователя без секретных полей
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.PasswordHash = ""
	sanitized.RefreshToken = nil
	return &sanitized
}

// RegisterInput : данные регистрации.
// Пути указывают на временные файлы, сохранённые хендлером из multipart-формы.
type RegisterInput struct {
	FullName            string
	Email               string
	Username            string
	Password            string
	AvatarLocalPath     string
	CoverImageLocalPath string
}

// ChannelProfile : агрегированный профиль канала
type ChannelProfile struct {
	UUID             string `db:"uuid" json:"uuid"`
	Username         string `db:"username" json:"username"`
	Email            string `db:"email" json:"email"`
	FullName         string `db:"full_name" json:"fullName"`
	AvatarURL        string `db:"avatar_url" json:"avatar"`
	CoverImageURL    string `db:"cover_image_url" json:"coverImage"`
	SubscribersCount int    `db:"subscribers_count" json:"subscribersCount"`
	SubscribedTo     int    `db:"subscribed_to_count" json:"channelsSubscribedToCount"`
	IsSubscribed     bool   `db:"is_subscribed" json:"isSubscribed"`
}

// WatchHistoryEntry : просмотренное видео вместе с данными владельца
type WatchHistoryEntry struct {
	VideoUUID     string    `db:"video_uuid" json:"uuid"`
	Title         string    `db:"title" json:"title"`
	ThumbnailURL  string    `db:"thumbnail_url" json:"thumbnail"`
	VideoURL      string    `db:"video_url" json:"videoUrl"`
	Duration      float64   `db:"duration_seconds" json:"duration"`
	WatchedAt     time.Time `db:"watched_at" json:"watchedAt"`
	OwnerUUID     string    `db:"owner_uuid" json:"-"`
	OwnerUsername string    `db:"owner_username" json:"-"`
	OwnerFullName string    `db:"owner_full_name" json:"-"`
	OwnerAvatar   string    `db:"owner_avatar" json:"-"`
	Owner         struct {
		Username string `json:"username"`
		FullName string `json:"fullName"`
		Avatar   string `json:"avatar"`
	} `json:"owner"`
}
