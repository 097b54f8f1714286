package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/internal/types"
	"github.com/platewise/recipe-ai/backend/internal/vectorstore"
)

const defaultSearchTopK = 2

// RecipeGenerator runs the full pipeline: profile lookup, similarity
// retrieval, synthesis, image rendering, then persistence. Retrieval,
// image and vector-write failures degrade the response; only the
// conversation append is fatal.
type RecipeGenerator struct {
	profiles      ProfileStore
	conversations ConversationStore
	ai            RecipeSynthesizer
	images        ImageGenerator
	recipes       RecipeIndex
	cache         LatestRecipeCache
	logger        *zap.Logger
}

// NewRecipeGenerator wires the pipeline. images and cache may be nil.
func NewRecipeGenerator(
	profiles ProfileStore,
	conversations ConversationStore,
	ai RecipeSynthesizer,
	images ImageGenerator,
	recipes RecipeIndex,
	cache LatestRecipeCache,
	logger *zap.Logger,
) *RecipeGenerator {
	return &RecipeGenerator{
		profiles:      profiles,
		conversations: conversations,
		ai:            ai,
		images:        images,
		recipes:       recipes,
		cache:         cache,
		logger:        logger,
	}
}

// GenerateForUser produces, stores and returns a new recipe for the
// user.
func (g *RecipeGenerator) GenerateForUser(ctx context.Context, userID string) (*types.RecipeResponse, error) {
	profile, err := g.profiles.GetByStudentID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profile.FavoriteFoods) == 0 {
		return nil, ErrNoFavoriteFoods
	}

	matches, err := g.recipes.SearchSimilar(ctx, profile.FavoriteFoods[0], defaultSearchTopK)
	if err != nil {
		g.logger.Warn("similarity retrieval failed, generating without inspiration",
			zap.String("user_id", userID), zap.Error(err))
		matches = nil
	}

	recipe := g.ai.GenerateRecipe(ctx, profile, matches)

	if g.images != nil && recipe.ImagePrompt != "" {
		imageURL, err := g.images.GenerateImageFromPrompt(ctx, recipe.ImagePrompt)
		if err != nil {
			g.logger.Warn("image generation failed",
				zap.String("user_id", userID), zap.Error(err))
		} else {
			recipe.ImageURL = imageURL
		}
	}

	conversationID, err := g.conversations.Append(ctx, userID, recipe)
	if err != nil {
		return nil, fmt.Errorf("persist conversation: %w", err)
	}

	g.indexRecipe(ctx, userID, conversationID, recipe)

	resp := &types.RecipeResponse{
		GeneratedRecipe: recipe,
		ConversationID:  conversationID,
	}

	if g.cache != nil {
		if err := g.cache.SaveLatest(ctx, userID, *resp); err != nil {
			g.logger.Warn("latest-recipe cache write failed",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	return resp, nil
}

// indexRecipe writes the generated recipe into the vector index. A
// failure only costs future retrieval quality.
func (g *RecipeGenerator) indexRecipe(ctx context.Context, userID, conversationID string, recipe types.GeneratedRecipe) {
	name := recipe.RecipeName
	if name == "" {
		name = "Generated Recipe"
	}
	difficulty := recipe.Difficulty
	if difficulty == "" {
		difficulty = "Medium"
	}
	cookingTime := recipe.CookingTime
	if cookingTime == "" {
		cookingTime = "30 minutes"
	}

	doc := vectorstore.RecipeDocument{
		Name:             name,
		Ingredients:      recipe.Ingredients,
		Instructions:     recipe.Instructions,
		Cuisine:          "AI Generated",
		Difficulty:       difficulty,
		CookingTime:      cookingTime,
		Servings:         int(recipe.Servings),
		DietaryTags:      recipe.DietaryTags,
		GeneratedForUser: userID,
		GeneratedAt:      recipe.GeneratedAt.Format(time.RFC3339),
		ConversationID:   conversationID,
	}

	if _, err := g.recipes.StoreRecipe(ctx, "generated_"+userID, doc); err != nil {
		g.logger.Warn("vector index write failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}
