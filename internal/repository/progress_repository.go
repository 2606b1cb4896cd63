package repository

import (
	"context"
	"crypto_edu_backend/internal/model"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const progressCacheTTL = 5 * time.Minute

// ProgressCache holds serialized progress lists keyed per user. The Redis
// adapter below backs it in production.
type ProgressCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisProgressCache struct {
	rdb *redis.Client
}

func NewRedisProgressCache(rdb *redis.Client) ProgressCache {
	return &redisProgressCache{rdb: rdb}
}

func (c *redisProgressCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.rdb.Get(ctx, key).Bytes()
}

func (c *redisProgressCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisProgressCache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// ProgressRepository persists ledger rows and keeps a per-user cache of the
// full progress list. The cache is advisory only: it is deleted on every
// write and rebuilt from the database on the next read, mirroring the
// client's refetch-after-write rule. A nil cache disables caching.
type ProgressRepository struct {
	DB    *gorm.DB
	Cache ProgressCache
}

func NewProgressRepository(db *gorm.DB, cache ProgressCache) *ProgressRepository {
	return &ProgressRepository{DB: db, Cache: cache}
}

func progressCacheKey(userID uint) string {
	return fmt.Sprintf("progress:%d", userID)
}

// Find returns the ledger row for one (user, module, section) triple using
// the given transaction handle.
func (r *ProgressRepository) Find(tx *gorm.DB, userID, moduleID uint, sectionID string) (*model.SectionProgress, error) {
	var progress model.SectionProgress
	err := tx.Where("user_id = ? AND module_id = ? AND section_id = ?", userID, moduleID, sectionID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Save upserts one ledger row inside the given transaction.
func (r *ProgressRepository) Save(tx *gorm.DB, progress *model.SectionProgress) error {
	return tx.Save(progress).Error
}

// ListByUser returns the user's full progress list, serving from Redis when
// a cached copy exists.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID uint) ([]model.SectionProgress, error) {
	key := progressCacheKey(userID)

	if r.Cache != nil {
		if cached, err := r.Cache.Get(ctx, key); err == nil {
			var list []model.SectionProgress
			if err := json.Unmarshal(cached, &list); err == nil {
				return list, nil
			}
		}
	}

	var list []model.SectionProgress
	if err := r.DB.Where("user_id = ?", userID).
		Order("module_id, section_id").
		Find(&list).Error; err != nil {
		return nil, err
	}

	if r.Cache != nil {
		if data, err := json.Marshal(list); err == nil {
			r.Cache.Set(ctx, key, data, progressCacheTTL)
		}
	}

	return list, nil
}

// InvalidateCache drops the cached progress list after any write.
func (r *ProgressRepository) InvalidateCache(ctx context.Context, userID uint) {
	if r.Cache != nil {
		r.Cache.Del(ctx, progressCacheKey(userID))
	}
}

func (r *ProgressRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SectionProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) SumTimeSpent(userID uint) (int64, error) {
	var total *int64
	err := r.DB.Model(&model.SectionProgress{}).
		Where("user_id = ?", userID).
		Select("SUM(time_spent)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (r *ProgressRepository) AverageQuizScore(userID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.SectionProgress{}).
		Where("user_id = ? AND score IS NOT NULL", userID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
