package model

import "time"

type Video struct {
	UUID         string    `db:"uuid" json:"uuid"`
	OwnerUUID    string    `db:"owner_uuid" json:"owner"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	VideoFile    string    `db:"video_file" json:"videoFile"`
	VideoURL     string    `db:"video_url" json:"videoUrl"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail"`
	StorageKey   string    `db:"storage_key" json:"-"`
	Duration     float64   `db:"duration_seconds" json:"duration"`
	Views        int64     `db:"views" json:"views"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// VideoListFilter : параметры листинга видео
type VideoListFilter struct {
	Query     string
	OwnerUUID string
	SortBy    string
	SortType  string
	Page      int
	Limit     int
}

// VideoListResult : страница выдачи вместе со счётчиками
type VideoListResult struct {
	TotalVideos int64    `json:"totalVideos"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
	Videos      []*Video `json:"videos"`
}

// UploadedAsset : результат успешной загрузки файла в хранилище.
// Контракт шлюза: либо заполненный результат, либо ошибка — nil без ошибки не бывает.
type UploadedAsset struct {
	URL      string
	PublicID string
	Size     int64
}
