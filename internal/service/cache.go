package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/internal/types"
)

const latestRecipeTTL = 24 * time.Hour

// RecipeCache keeps the most recent generated recipe per user in Redis.
type RecipeCache struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewRecipeCache creates a recipe cache over an established client.
func NewRecipeCache(redisClient *redis.Client, logger *zap.Logger) *RecipeCache {
	return &RecipeCache{redis: redisClient, logger: logger}
}

func latestRecipeKey(userID string) string {
	return fmt.Sprintf("recipe:latest:%s", userID)
}

// SaveLatest stores the user's most recent generation for a day.
func (c *RecipeCache) SaveLatest(ctx context.Context, userID string, resp types.RecipeResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode latest recipe: %w", err)
	}

	if err := c.redis.Set(ctx, latestRecipeKey(userID), data, latestRecipeTTL).Err(); err != nil {
		return fmt.Errorf("cache latest recipe for %s: %w", userID, err)
	}
	return nil
}

// GetLatest returns the user's most recent generation, or
// ErrNoLatestRecipe when nothing is cached.
func (c *RecipeCache) GetLatest(ctx context.Context, userID string) (*types.RecipeResponse, error) {
	data, err := c.redis.Get(ctx, latestRecipeKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoLatestRecipe
	}
	if err != nil {
		return nil, fmt.Errorf("read latest recipe for %s: %w", userID, err)
	}

	var resp types.RecipeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode latest recipe for %s: %w", userID, err)
	}
	return &resp, nil
}
