package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	messageCacheSize = 100
	messageCacheTTL  = 10 * time.Minute
)

type MessageRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewMessageRepository(db *gorm.DB, rdb *redis.Client) *MessageRepository {
	return &MessageRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *MessageRepository) cacheKey(courseID uint) string {
	return fmt.Sprintf("course:%d:messages", courseID)
}

func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.DB.Create(message).Error; err != nil {
		return err
	}

	// 写入缓存，失败只记日志不影响主流程
	if r.Redis != nil {
		data, err := json.Marshal(message)
		if err == nil {
			key := r.cacheKey(message.CourseID)
			pipe := r.Redis.Pipeline()
			pipe.LPush(r.ctx, key, data)
			pipe.LTrim(r.ctx, key, 0, messageCacheSize-1)
			pipe.Expire(r.ctx, key, messageCacheTTL)
			if _, err := pipe.Exec(r.ctx); err != nil {
				logger.Log.Warn("message cache update failed", zap.Error(err))
			}
		}
	}
	return nil
}

// FindByCourse 课程聊天记录，最近的消息优先走 Redis 缓存
func (r *MessageRepository) FindByCourse(courseID uint, offset, limit int) ([]model.Message, error) {
	if r.Redis != nil && offset == 0 && limit <= messageCacheSize {
		if messages, ok := r.readCache(courseID, limit); ok {
			return messages, nil
		}
	}

	var messages []model.Message
	err := r.DB.Where("course_id = ?", courseID).
		Order("timestamp DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil && offset == 0 {
		r.fillCache(courseID, messages)
	}
	return messages, nil
}

func (r *MessageRepository) readCache(courseID uint, limit int) ([]model.Message, bool) {
	raw, err := r.Redis.LRange(r.ctx, r.cacheKey(courseID), 0, int64(limit-1)).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	messages := make([]model.Message, 0, len(raw))
	for _, item := range raw {
		var m model.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, false
		}
		messages = append(messages, m)
	}
	return messages, true
}

func (r *MessageRepository) fillCache(courseID uint, messages []model.Message) {
	key := r.cacheKey(courseID)
	pipe := r.Redis.Pipeline()
	pipe.Del(r.ctx, key)
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return
		}
		pipe.RPush(r.ctx, key, data)
	}
	pipe.Expire(r.ctx, key, messageCacheTTL)
	if _, err := pipe.Exec(r.ctx); err != nil {
		logger.Log.Warn("message cache fill failed", zap.Error(err))
	}
}
