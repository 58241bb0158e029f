package repository

import (
	"context"
	"fmt"

	"video-sharing-server/config"
	"video-sharing-server/internal/model"
	"video-sharing-server/internal/util"

	"github.com/jmoiron/sqlx"
)

// sortColumns : единственные допустимые поля сортировки листинга.
// Значение sortBy приходит от клиента и в SQL попадает только через эту таблицу.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"title":      "title",
	"duration":   "duration_seconds",
	"views":      "views",
}

type VideoRepository struct {
	*config.Database
}

func NewVideoRepository(database *config.Database) *VideoRepository {
	return &VideoRepository{database}
}

// Create : сохраняет новое видео
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	query := `
		INSERT INTO videos (uuid, owner_uuid, title, description, video_file, video_url, thumbnail_url, storage_key, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		video.UUID,
		video.OwnerUUID,
		video.Title,
		video.Description,
		video.VideoFile,
		video.VideoURL,
		video.ThumbnailURL,
		video.StorageKey,
		video.Duration,
	)
	if err != nil {
		return util.LogError("[VideoRepo] ошибка вставки данных в БД", err)
	}
	return nil
}

// GetByUUID : ищет видео по UUID
func (r *VideoRepository) GetByUUID(ctx context.Context, uuid string) (*model.Video, error) {
	query := `SELECT * FROM videos WHERE uuid = $1`
	var video model.Video
	err := sqlx.GetContext(ctx, r.DB, &video, query, uuid)
	if err != nil {
		return nil, util.LogError("[VideoRepo] не удалось найти видео в БД", err)
	}
	return &video, nil
}

// List : страница выдачи с фильтром по названию и владельцу.
// skip = (page-1)*limit; страницы за пределами выдачи возвращают пустой список.
func (r *VideoRepository) List(ctx context.Context, filter *model.VideoListFilter) ([]*model.Video, int64, error) {
	where := `WHERE ($1 = '' OR title ILIKE '%' || $1 || '%') AND ($2 = '' OR owner_uuid = $2)`

	var total int64
	countQuery := `SELECT COUNT(*) FROM videos ` + where
	if err := sqlx.GetContext(ctx, r.DB, &total, countQuery, filter.Query, filter.OwnerUUID); err != nil {
		return nil, 0, util.LogError("[VideoRepo] не удалось посчитать количество видео", err)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.SortType == "asc" {
		direction = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit
	listQuery := fmt.Sprintf(`SELECT * FROM videos %s ORDER BY %s %s LIMIT $3 OFFSET $4`, where, column, direction)

	videos := []*model.Video{}
	err := sqlx.SelectContext(ctx, r.DB, &videos, listQuery, filter.Query, filter.OwnerUUID, filter.Limit, offset)
	if err != nil {
		return nil, 0, util.LogError("[VideoRepo] не удалось получить список видео", err)
	}

	return videos, total, nil
}

// Update : перезаписывает изменяемые поля видео
func (r *VideoRepository) Update(ctx context.Context, video *model.Video) error {
	query := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail_url = $4, updated_at = NOW()
		WHERE uuid = $1
	`
	_, err := r.DB.ExecContext(ctx, query, video.UUID, video.Title, video.Description, video.ThumbnailURL)
	if err != nil {
		return util.LogError("[VideoRepo] не удалось обновить видео", err)
	}
	return nil
}

// Delete : жёсткое удаление по UUID
func (r *VideoRepository) Delete(ctx context.Context, uuid string) error {
	query := `DELETE FROM videos WHERE uuid = $1`
	result, err := r.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[VideoRepo] не удалось удалить видео", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[VideoRepo] не удалось проверить удаление видео", err)
	}
	if rowsAffected == 0 {
		return util.LogError("[VideoRepo] видео для удаления не найдено", fmt.Errorf("uuid %s", uuid))
	}

	return nil
}

// IncrementViews : счётчик просмотров, атомарно на стороне БД
func (r *VideoRepository) IncrementViews(ctx context.Context, uuid string) error {
	query := `UPDATE videos SET views = views + 1 WHERE uuid = $1`
	_, err := r.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[VideoRepo] не удалось увеличить счётчик просмотров", err)
	}
	return nil
}
