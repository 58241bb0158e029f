package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"video-sharing-server/config"
	"video-sharing-server/internal/model"
	"video-sharing-server/internal/util"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetVideo(ctx context.Context, video *model.Video) error {
	data, err := json.Marshal(video)
	if err != nil {
		return util.LogError("ошибка сериализации видео", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(video.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetVideo(ctx context.Context, uuid string) (*model.Video, error) {
	val, err := r.client.Client.Get(ctx, r.key(uuid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения видео из Redis", err)
	}

	var video model.Video
	if err := json.Unmarshal([]byte(val), &video); err != nil {
		return nil, util.LogError("ошибка десериализации видео из кэша", err)
	}
	return &video, nil
}

func (r *CacheRepository) DeleteVideo(ctx context.Context, uuid string) error {
	if err := r.client.Client.Del(ctx, r.key(uuid)).Err(); err != nil {
		return util.LogError("ошибка удаления видео из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(uuid string) string {
	return fmt.Sprintf("video:%s", uuid)
}
