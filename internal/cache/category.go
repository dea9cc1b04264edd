package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"go.uber.org/zap"
)

// Redis key for the cached category list
const categoriesKey = "trivia:categories"

// CategoryRepository is a read-through redis cache in front of another
// domain.CategoryRepository. Redis failures fall back to the wrapped store.
type CategoryRepository struct {
	next   domain.CategoryRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCategoryRepository wraps next with a cache entry living for ttl
func NewCategoryRepository(next domain.CategoryRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

// List returns the cached categories, loading them on a miss
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := r.get(ctx)
	if err == nil {
		return categories, nil
	}
	if !errors.Is(err, redis.Nil) {
		r.logger.Warn("category cache read failed", zap.Error(err))
	}

	categories, err = r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.store(ctx, categories); err != nil {
		r.logger.Warn("category cache write failed", zap.Error(err))
	}
	return categories, nil
}

// GetByID looks the category up in the cached list, then in the wrapped store
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return r.next.GetByID(ctx, id)
}

// Invalidate drops the cached category list
func (r *CategoryRepository) Invalidate(ctx context.Context) error {
	if err := r.redis.Del(ctx, categoriesKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) get(ctx context.Context) ([]domain.Category, error) {
	data, err := r.redis.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		return nil, err
	}

	var categories []domain.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) store(ctx context.Context, categories []domain.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	return r.redis.Set(ctx, categoriesKey, data, r.ttl).Err()
}
