package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/internal/pdf"
	"github.com/platewise/recipe-ai/backend/internal/service"
	"github.com/platewise/recipe-ai/backend/internal/types"
	"github.com/platewise/recipe-ai/backend/internal/vectorstore"
)

const (
	defaultSearchLimit  = 5
	defaultHistoryLimit = 10
	listRecipesLimit    = 100
)

// RecipeHandler exposes generation, search, history and upload
// endpoints.
type RecipeHandler struct {
	generator     service.Generator
	profiles      service.ProfileStore
	conversations service.ConversationStore
	recipes       service.RecipeIndex
	synthesizer   service.RecipeSynthesizer
	cache         service.LatestRecipeCache
	logger        *zap.Logger
}

// NewRecipeHandler creates a recipe handler. cache may be nil.
func NewRecipeHandler(
	generator service.Generator,
	profiles service.ProfileStore,
	conversations service.ConversationStore,
	recipes service.RecipeIndex,
	synthesizer service.RecipeSynthesizer,
	cache service.LatestRecipeCache,
	logger *zap.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		generator:     generator,
		profiles:      profiles,
		conversations: conversations,
		recipes:       recipes,
		synthesizer:   synthesizer,
		cache:         cache,
		logger:        logger,
	}
}

// RegisterRoutes mounts the handler's endpoints.
func (h *RecipeHandler) RegisterRoutes(r *gin.RouterGroup) {
	recipe := r.Group("/recipe")
	{
		recipe.GET("/search", h.SearchRecipes)
		recipe.GET("/recipes", h.ListRecipes)
		recipe.GET("/conversation/:id", h.GetConversation)
		recipe.POST("/upload-pdf-recipes", h.UploadPDFRecipes)
		recipe.GET("/:user_id", h.GenerateRecipe)
		recipe.GET("/:user_id/history", h.History)
		recipe.GET("/:user_id/latest", h.Latest)
		recipe.GET("/:user_id/summary", h.Summary)
	}
}

// GenerateRecipe runs the full generation pipeline for a user.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	userID := c.Param("user_id")

	resp, err := h.generator.GenerateForUser(c.Request.Context(), userID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrNoFavoriteFoods):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("recipe generation failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate recipe"})
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// SearchRecipes runs a similarity search over the stored recipes.
// Provider failures produce an empty result set rather than an error.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	topK := defaultSearchLimit
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top_k must be an integer"})
			return
		}
		topK = parsed
	}

	results, err := h.recipes.SearchSimilar(c.Request.Context(), query, topK)
	if err != nil {
		h.logger.Warn("recipe search degraded to empty results",
			zap.String("query", query), zap.Error(err))
		results = []types.SimilarityMatch{}
	}
	if results == nil {
		results = []types.SimilarityMatch{}
	}

	c.JSON(http.StatusOK, types.SearchResponse{
		Query:      query,
		Results:    results,
		TotalFound: len(results),
	})
}

// ListRecipes returns a broad sample of the stored recipes.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	results, err := h.recipes.SearchSimilar(c.Request.Context(), "recipe", listRecipesLimit)
	if err != nil {
		h.logger.Warn("recipe listing degraded to empty results", zap.Error(err))
		results = []types.SimilarityMatch{}
	}
	if results == nil {
		results = []types.SimilarityMatch{}
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": results,
		"total":   len(results),
	})
}

// History returns a user's recent generation events.
func (h *RecipeHandler) History(c *gin.Context) {
	userID := c.Param("user_id")
	if !h.userExists(c, userID) {
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	history, err := h.conversations.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to load history", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	if history == nil {
		history = []types.ConversationHistoryResponse{}
	}

	c.JSON(http.StatusOK, history)
}

// Latest returns the user's most recently generated recipe from cache.
func (h *RecipeHandler) Latest(c *gin.Context) {
	userID := c.Param("user_id")
	if !h.userExists(c, userID) {
		return
	}

	if h.cache == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recent recipe found"})
		return
	}

	resp, err := h.cache.GetLatest(c.Request.Context(), userID)
	if errors.Is(err, service.ErrNoLatestRecipe) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recent recipe found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load latest recipe", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load latest recipe"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Summary returns the aggregated view of a user's history.
func (h *RecipeHandler) Summary(c *gin.Context) {
	userID := c.Param("user_id")
	if !h.userExists(c, userID) {
		return
	}

	summary, err := h.conversations.Summary(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to build summary", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetConversation returns one stored generation event by id.
func (h *RecipeHandler) GetConversation(c *gin.Context) {
	conversationID := c.Param("id")

	conversation, err := h.conversations.GetByID(c.Request.Context(), conversationID)
	if errors.Is(err, service.ErrConversationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load conversation", zap.String("conversation_id", conversationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}

	c.JSON(http.StatusOK, conversation)
}

// UploadPDFRecipes extracts recipes from an uploaded PDF and stores
// each one in the vector index.
func (h *RecipeHandler) UploadPDFRecipes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files are supported"})
		return
	}

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		h.logger.Error("failed to create temp file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process upload"})
		return
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		h.logger.Error("failed to save upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process upload"})
		return
	}

	text, err := pdf.ExtractText(tmpPath)
	if err != nil {
		h.logger.Error("failed to extract PDF text", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read PDF content"})
		return
	}

	recipes, err := h.synthesizer.ExtractRecipes(c.Request.Context(), text)
	if err != nil {
		h.logger.Error("failed to extract recipes from PDF", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract recipes"})
		return
	}

	statuses := make([]types.UploadedRecipeStatus, 0, len(recipes))
	uploaded := 0
	for i, recipe := range recipes {
		doc := vectorstore.RecipeDocument{
			Name:         recipe.Name,
			Ingredients:  recipe.Ingredients,
			Instructions: recipe.Instructions,
			Cuisine:      recipe.Cuisine,
			Difficulty:   recipe.Difficulty,
			CookingTime:  recipe.CookingTime,
			Servings:     int(recipe.Servings),
			Description:  recipe.Description,
		}

		id, err := h.recipes.StoreRecipe(c.Request.Context(), fmt.Sprintf("recipe_pdf_%d", i), doc)
		if err != nil {
			h.logger.Warn("failed to store uploaded recipe",
				zap.String("name", recipe.Name), zap.Error(err))
			statuses = append(statuses, types.UploadedRecipeStatus{Name: recipe.Name, Status: "failed"})
			continue
		}
		uploaded++
		statuses = append(statuses, types.UploadedRecipeStatus{ID: id, Name: recipe.Name, Status: "uploaded"})
	}

	c.JSON(http.StatusOK, types.UploadRecipesResponse{
		Message:         fmt.Sprintf("Processed %d recipes from %s", len(recipes), fileHeader.Filename),
		UploadedRecipes: statuses,
		TotalUploaded:   uploaded,
	})
}

// userExists writes the error response itself when the user is missing
// or the lookup fails.
func (h *RecipeHandler) userExists(c *gin.Context, userID string) bool {
	_, err := h.profiles.GetByStudentID(c.Request.Context(), userID)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return false
	}
	if err != nil {
		h.logger.Error("failed to verify user", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify user"})
		return false
	}
	return true
}
