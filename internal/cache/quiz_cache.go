// Package cache provides a Redis read-through cache in front of the quiz store
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/flashquiz/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches a quiz from the backing store
type QuizLoader interface {
	GetByID(ctx context.Context, id int) (*models.Quiz, error)
}

// QuizCache stores whole quizzes as JSON under quiz:{id}.
// Redis failures are logged and fall through to the loader.
type QuizCache struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group
}

// NewQuizCache creates a quiz cache. A ttl <= 0 stores entries without expiry.
func NewQuizCache(client *redis.Client, loader QuizLoader, ttl time.Duration, logger *zap.Logger) *QuizCache {
	return &QuizCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
	}
}

// GetByID returns the quiz from Redis, loading and storing it on a miss.
// Concurrent misses for one id share a single load. The returned quiz may be
// shared with other callers and must not be modified.
func (c *QuizCache) GetByID(ctx context.Context, id int) (*models.Quiz, error) {
	if quiz, ok := c.lookup(ctx, id); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(strconv.Itoa(id), func() (any, error) {
		// another caller may have filled the entry while we waited
		if quiz, ok := c.lookup(ctx, id); ok {
			return quiz, nil
		}

		// a cancelled first caller must not fail the others sharing this load
		quiz, err := c.loader.GetByID(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}

		c.store(ctx, quiz)
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.Quiz), nil
}

// Invalidate drops the cached entry of a quiz
func (c *QuizCache) Invalidate(ctx context.Context, id int) error {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate quiz %d: %w", id, err)
	}
	return nil
}

func (c *QuizCache) lookup(ctx context.Context, id int) (*models.Quiz, bool) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("quiz cache read failed", zap.Int("quizId", id), zap.Error(err))
		return nil, false
	}

	quiz := &models.Quiz{}
	if err := json.Unmarshal(raw, quiz); err != nil {
		c.logger.Warn("dropping undecodable quiz cache entry", zap.Int("quizId", id), zap.Error(err))
		_ = c.client.Del(ctx, key(id)).Err()
		return nil, false
	}

	return quiz, true
}

func (c *QuizCache) store(ctx context.Context, quiz *models.Quiz) {
	raw, err := json.Marshal(quiz)
	if err != nil {
		c.logger.Warn("failed to encode quiz for cache", zap.Int("quizId", quiz.ID), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key(quiz.ID), raw, c.ttlWithJitter()).Err(); err != nil {
		c.logger.Warn("quiz cache write failed", zap.Int("quizId", quiz.ID), zap.Error(err))
	}
}

// ttlWithJitter spreads expiries by up to 10% so hot quizzes do not expire together
func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int64N(jitterMax+1))
}

func key(id int) string {
	return "quiz:" + strconv.Itoa(id)
}
