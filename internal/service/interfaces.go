package service

import (
	"context"

	"github.com/platewise/recipe-ai/backend/internal/models"
	"github.com/platewise/recipe-ai/backend/internal/types"
	"github.com/platewise/recipe-ai/backend/internal/vectorstore"
)

// ProfileStore manages stored dietary profiles.
type ProfileStore interface {
	Upsert(ctx context.Context, req types.UpsertUserRequest) (*models.UserProfile, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.UserProfile, error)
	List(ctx context.Context) ([]models.UserProfile, error)
}

// ConversationStore records and reads back generation events.
type ConversationStore interface {
	Append(ctx context.Context, userID string, recipe types.GeneratedRecipe) (string, error)
	GetByID(ctx context.Context, conversationID string) (*types.ConversationHistoryResponse, error)
	History(ctx context.Context, userID string, limit int) ([]types.ConversationHistoryResponse, error)
	Summary(ctx context.Context, userID string) (*types.ConversationSummaryResponse, error)
}

// RecipeSynthesizer produces recipes from user context. GenerateRecipe
// always returns a usable recipe; synthesis failures degrade to a
// fallback rather than surfacing an error.
type RecipeSynthesizer interface {
	GenerateRecipe(ctx context.Context, profile *models.UserProfile, matches []types.SimilarityMatch) types.GeneratedRecipe
	ExtractRecipes(ctx context.Context, text string) ([]types.ExternalRecipe, error)
}

// ImageGenerator renders a recipe illustration and returns its URL.
type ImageGenerator interface {
	GenerateImageFromPrompt(ctx context.Context, prompt string) (string, error)
}

// RecipeIndex is the vector-search surface the services depend on.
type RecipeIndex interface {
	StoreRecipe(ctx context.Context, baseID string, doc vectorstore.RecipeDocument) (string, error)
	SearchSimilar(ctx context.Context, query string, topK int) ([]types.SimilarityMatch, error)
	DeleteByName(ctx context.Context, name string) (int, error)
}

// LatestRecipeCache keeps the most recent generation per user.
type LatestRecipeCache interface {
	SaveLatest(ctx context.Context, userID string, resp types.RecipeResponse) error
	GetLatest(ctx context.Context, userID string) (*types.RecipeResponse, error)
}

// Generator runs the full recipe generation pipeline for one user.
type Generator interface {
	GenerateForUser(ctx context.Context, userID string) (*types.RecipeResponse, error)
}
