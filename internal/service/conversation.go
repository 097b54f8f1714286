package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platewise/recipe-ai/backend/internal/models"
	"github.com/platewise/recipe-ai/backend/internal/types"
)

const (
	defaultHistoryLimit = 10
	recentSummaryCount  = 5
	popularRecipeCount  = 5
	summaryCacheTTL     = 5 * time.Minute
)

// ConversationService keeps the append-only log of generation events.
// The Redis client is optional; without it summaries are computed on
// every request.
type ConversationService struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

// NewConversationService creates a conversation service. redisClient
// may be nil.
func NewConversationService(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *ConversationService {
	return &ConversationService{db: db, redis: redisClient, logger: logger}
}

// Append stores one generation event and returns its conversation id.
func (s *ConversationService) Append(ctx context.Context, userID string, recipe types.GeneratedRecipe) (string, error) {
	data, err := json.Marshal(recipe)
	if err != nil {
		return "", fmt.Errorf("encode recipe: %w", err)
	}
	var recipeData map[string]interface{}
	if err := json.Unmarshal(data, &recipeData); err != nil {
		return "", fmt.Errorf("decode recipe snapshot: %w", err)
	}

	conversation := models.Conversation{
		ConversationID: uuid.New().String(),
		UserID:         userID,
		RecipeData:     recipeData,
		Timestamp:      time.Now().UTC(),
		Type:           "recipe_generation",
	}
	if err := s.db.WithContext(ctx).Create(&conversation).Error; err != nil {
		return "", fmt.Errorf("append conversation for %s: %w", userID, err)
	}

	s.invalidateSummary(ctx, userID)

	s.logger.Info("appended conversation record",
		zap.String("user_id", userID),
		zap.String("conversation_id", conversation.ConversationID))
	return conversation.ConversationID, nil
}

// GetByID loads one stored generation event.
func (s *ConversationService) GetByID(ctx context.Context, conversationID string) (*types.ConversationHistoryResponse, error) {
	var conversation models.Conversation
	err := s.db.WithContext(ctx).Where("conversation_id = ?", conversationID).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up conversation %s: %w", conversationID, err)
	}

	resp := toHistoryResponse(conversation)
	return &resp, nil
}

// History returns a user's most recent generation events, newest first.
func (s *ConversationService) History(ctx context.Context, userID string, limit int) ([]types.ConversationHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	// id breaks timestamp ties so repeated reads stay identical.
	var conversations []models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc, id desc").
		Limit(limit).
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", userID, err)
	}

	history := make([]types.ConversationHistoryResponse, 0, len(conversations))
	for _, c := range conversations {
		history = append(history, toHistoryResponse(c))
	}
	return history, nil
}

// Summary aggregates a user's history: total count, the five most
// recent events, and the five most requested recipe names.
func (s *ConversationService) Summary(ctx context.Context, userID string) (*types.ConversationSummaryResponse, error) {
	if cached := s.cachedSummary(ctx, userID); cached != nil {
		return cached, nil
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count conversations for %s: %w", userID, err)
	}

	recent, err := s.History(ctx, userID, recentSummaryCount)
	if err != nil {
		return nil, err
	}

	var conversations []models.Conversation
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("load conversations for %s: %w", userID, err)
	}

	summary := &types.ConversationSummaryResponse{
		UserID:              userID,
		TotalConversations:  int(total),
		RecentConversations: recent,
		PopularRecipeTypes:  popularRecipes(conversations),
	}

	s.cacheSummary(ctx, userID, summary)
	return summary, nil
}

func toHistoryResponse(c models.Conversation) types.ConversationHistoryResponse {
	data := c.RecipeData
	if data == nil {
		data = map[string]interface{}{}
	}
	return types.ConversationHistoryResponse{
		ConversationID: c.ConversationID,
		UserID:         c.UserID,
		RecipeData:     data,
		Timestamp:      c.Timestamp,
		Type:           c.Type,
	}
}

// popularRecipes counts recipe names across all events and keeps the
// top five, ties broken alphabetically for stable output.
func popularRecipes(conversations []models.Conversation) []types.RecipeTypeCount {
	counts := make(map[string]int)
	for _, c := range conversations {
		if name, ok := c.RecipeData["recipe_name"].(string); ok && name != "" {
			counts[name]++
		}
	}

	popular := make([]types.RecipeTypeCount, 0, len(counts))
	for name, count := range counts {
		popular = append(popular, types.RecipeTypeCount{RecipeName: name, Count: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].RecipeName < popular[j].RecipeName
	})

	if len(popular) > popularRecipeCount {
		popular = popular[:popularRecipeCount]
	}
	return popular
}

func summaryCacheKey(userID string) string {
	return fmt.Sprintf("conversation:summary:%s", userID)
}

func (s *ConversationService) cachedSummary(ctx context.Context, userID string) *types.ConversationSummaryResponse {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, summaryCacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		s.logger.Warn("summary cache read failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}

	var summary types.ConversationSummaryResponse
	if err := json.Unmarshal(data, &summary); err != nil {
		s.logger.Warn("summary cache entry corrupt", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return &summary
}

func (s *ConversationService) cacheSummary(ctx context.Context, userID string, summary *types.ConversationSummaryResponse) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, summaryCacheKey(userID), data, summaryCacheTTL).Err(); err != nil {
		s.logger.Warn("summary cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *ConversationService) invalidateSummary(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, summaryCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("summary cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
