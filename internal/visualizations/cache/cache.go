// Package cache provides a Redis-backed read-through cache for generated
// visualization responses, keyed by a hash of the built prompt. A nil cache
// is valid and disables caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
)

const (
	keyPrefix  = "viz:prompt:" // viz:prompt:{sha256(prompt)}
	defaultTTL = 24 * time.Hour
)

var ErrMiss = errors.New("cache miss")

type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client) *ResponseCache {
	return &ResponseCache{client: client, ttl: defaultTTL}
}

func key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached response for the prompt, or ErrMiss.
func (c *ResponseCache) Get(ctx context.Context, prompt string) (*domain.VisualizationResponse, error) {
	if c == nil || c.client == nil {
		return nil, ErrMiss
	}

	data, err := c.client.Get(ctx, key(prompt)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var resp domain.VisualizationResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, fmt.Errorf("cache unmarshal: %w", err)
	}
	return &resp, nil
}

// Set stores the response under the prompt's key with a TTL.
func (c *ResponseCache) Set(ctx context.Context, prompt string, resp domain.VisualizationResponse) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, key(prompt), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
