package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mosiqa/backend/internal/logger"
	"github.com/mosiqa/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CoverCache keeps cover image rows in Redis keyed by asset id. Asset rows
// are immutable, so a cached entry only has to be dropped on delete.
// Every operation is best effort: a Redis failure degrades to a DB read.
type CoverCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCoverCache(client *redis.Client, ttl time.Duration) *CoverCache {
	return &CoverCache{client: client, ttl: ttl}
}

type cachedCover struct {
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
	Data      []byte `json:"data"`
}

func coverCacheKey(id uuid.UUID) string {
	return "cover_cache:" + id.String()
}

func (c *CoverCache) Get(ctx context.Context, id uuid.UUID) (*models.CoverImage, bool) {
	raw, err := c.client.Get(ctx, coverCacheKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("cover cache read failed", zap.String("id", id.String()), zap.Error(err))
		return nil, false
	}

	var entry cachedCover
	if err := json.Unmarshal(raw, &entry); err != nil {
		logger.Warn("cover cache entry corrupt, dropping", zap.String("id", id.String()), zap.Error(err))
		c.client.Del(ctx, coverCacheKey(id))
		return nil, false
	}

	return &models.CoverImage{
		ID:        id,
		Name:      entry.Name,
		MimeType:  entry.MimeType,
		SizeBytes: entry.SizeBytes,
		Data:      entry.Data,
	}, true
}

func (c *CoverCache) Set(ctx context.Context, image *models.CoverImage) {
	raw, err := json.Marshal(cachedCover{
		Name:      image.Name,
		MimeType:  image.MimeType,
		SizeBytes: image.SizeBytes,
		Data:      image.Data,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, coverCacheKey(image.ID), raw, c.ttl).Err(); err != nil {
		logger.Warn("cover cache write failed", zap.String("id", image.ID.String()), zap.Error(err))
	}
}

// Invalidate drops the entry so a deleted cover id can never be served.
func (c *CoverCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, coverCacheKey(id)).Err(); err != nil {
		logger.Warn("cover cache invalidate failed", zap.String("id", id.String()), zap.Error(err))
	}
}
