package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

const characterImagesCacheKey = "character_emotion_images"

// redisImageProvider serves the character emotion image catalog through a
// Redis cache in front of the content repository. Redis failures degrade to
// a direct database read, never to a request failure.
type redisImageProvider struct {
	client  *redis.Client
	db      interfaces.DBTX
	content interfaces.ContentRepository
	ttl     time.Duration
	logger  *zap.Logger
}

var _ interfaces.CharacterImageProvider = (*redisImageProvider)(nil)

// NewRedisImageProvider creates a cached character image provider.
func NewRedisImageProvider(
	client *redis.Client,
	db interfaces.DBTX,
	content interfaces.ContentRepository,
	ttl time.Duration,
	logger *zap.Logger,
) interfaces.CharacterImageProvider {
	return &redisImageProvider{
		client:  client,
		db:      db,
		content: content,
		ttl:     ttl,
		logger:  logger.Named("RedisImageProvider"),
	}
}

func (p *redisImageProvider) GetCharacterImages(ctx context.Context) (models.CharacterImageLookup, error) {
	if p.client != nil {
		cached, err := p.client.Get(ctx, characterImagesCacheKey).Result()
		if err == nil {
			var lookup models.CharacterImageLookup
			if unmarshalErr := json.Unmarshal([]byte(cached), &lookup); unmarshalErr == nil {
				return lookup, nil
			}
			p.logger.Warn("Corrupted character image cache entry, rebuilding",
				zap.String("key", characterImagesCacheKey))
		} else if err != redis.Nil {
			p.logger.Warn("Failed to read character image cache", zap.Error(err))
		}
	}

	lookup, err := p.buildLookup(ctx)
	if err != nil {
		return nil, err
	}

	if p.client != nil {
		payload, marshalErr := json.Marshal(lookup)
		if marshalErr == nil {
			if setErr := p.client.Set(ctx, characterImagesCacheKey, payload, p.ttl).Err(); setErr != nil {
				p.logger.Warn("Failed to write character image cache", zap.Error(setErr))
			}
		}
	}

	return lookup, nil
}

func (p *redisImageProvider) buildLookup(ctx context.Context) (models.CharacterImageLookup, error) {
	rows, err := p.content.ListCharacterEmotionImages(ctx, p.db)
	if err != nil {
		return nil, fmt.Errorf("failed to build character image lookup: %w", err)
	}

	lookup := make(models.CharacterImageLookup)
	for _, row := range rows {
		images, ok := lookup[row.CharacterCode]
		if !ok {
			images = make(map[string]string)
			lookup[row.CharacterCode] = images
		}
		emotion := row.Emotion
		if emotion == "" {
			emotion = "default"
		}
		images[emotion] = row.ImageURL
	}
	return lookup, nil
}
