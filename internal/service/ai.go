package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/internal/models"
	"github.com/platewise/recipe-ai/backend/internal/types"
)

const (
	defaultChatModel = "gpt-4o"

	// Matches below this score are too loose to use as inspiration.
	inspirationThreshold = 0.8
)

const recipeSystemPrompt = `You are a professional chef and recipe creator. Generate a recipe as a single JSON object with exactly these fields:
- "recipe_name": string
- "ingredients": list of strings, each with quantity
- "instructions": list of strings, numbered steps
- "cooking_time": string such as "30 minutes"
- "difficulty": "Easy", "Medium" or "Hard"
- "servings": integer
- "serving_size": string such as "1 cup"
- "dietary_tags": list of strings
- "nutritional_facts": object with exactly the keys "calories" (number), "protein", "carbohydrates", "fat", "fiber", "sugar" and "sodium" (strings with units)
- "image_prompt": short visual description of the plated dish

Respond with only the JSON object, no surrounding text or markdown.`

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	jsonBlockPattern  = regexp.MustCompile(`(?s)(\[.*\]|\{.*\})`)
)

// chatCompleter is the slice of the OpenAI client the service uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AIService synthesizes recipes through a chat completion model.
type AIService struct {
	chat   chatCompleter
	model  string
	logger *zap.Logger
}

// NewAIService creates an AI service against the OpenAI API.
func NewAIService(apiKey, model string, logger *zap.Logger) *AIService {
	return newAIService(openai.NewClient(apiKey), model, logger)
}

func newAIService(chat chatCompleter, model string, logger *zap.Logger) *AIService {
	if model == "" {
		model = defaultChatModel
	}
	return &AIService{chat: chat, model: model, logger: logger}
}

// GenerateRecipe synthesizes a recipe for the profile, optionally
// inspired by similar stored recipes. It never fails: provider or
// parsing problems degrade to a fallback recipe built from the profile.
func (s *AIService) GenerateRecipe(ctx context.Context, profile *models.UserProfile, matches []types.SimilarityMatch) types.GeneratedRecipe {
	recipe, err := s.generate(ctx, profile, matches)
	if err != nil {
		s.logger.Warn("recipe synthesis degraded to fallback",
			zap.String("student_id", profile.StudentID), zap.Error(err))
		recipe = fallbackRecipe(profile)
	}

	recipe.UserID = profile.StudentID
	recipe.GeneratedAt = time.Now().UTC()
	return recipe
}

func (s *AIService) generate(ctx context.Context, profile *models.UserProfile, matches []types.SimilarityMatch) (types.GeneratedRecipe, error) {
	resp, err := s.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: recipeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildContext(profile, matches)},
		},
		Temperature: 0.8,
		MaxTokens:   1500,
	})
	if err != nil {
		return types.GeneratedRecipe{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return types.GeneratedRecipe{}, fmt.Errorf("empty completion response")
	}

	recipe := s.parseRecipeResponse(resp.Choices[0].Message.Content)
	return completeRecipe(recipe), nil
}

// buildContext renders the user prompt: the profile plus at most one
// sufficiently similar stored recipe as inspiration.
func buildContext(profile *models.UserProfile, matches []types.SimilarityMatch) string {
	favorite := "Not specified"
	if len(profile.FavoriteFoods) > 0 {
		favorite = profile.FavoriteFoods[0]
	}

	preferences := "None"
	if len(profile.DietaryPreferences) > 0 {
		preferences = strings.Join(profile.DietaryPreferences, ", ")
	}

	inspiration := "No highly relevant recipes found for inspiration."
	for _, m := range matches {
		if m.Score >= inspirationThreshold {
			cuisine := "Unknown"
			if v, ok := m.Metadata["cuisine"].(string); ok && v != "" {
				cuisine = v
			}
			inspiration = fmt.Sprintf("1. %s - %s", m.Name, cuisine)
			break
		}
	}

	return fmt.Sprintf(
		"Create a recipe for a user with these preferences:\nFavorite food: %s\nDietary preferences: %s\n\nSimilar recipes for inspiration:\n%s",
		favorite, preferences, inspiration)
}

// parseRecipeResponse pulls the JSON object out of the completion text.
// A first failure retries after collapsing whitespace; only then does
// the static default recipe take over.
func (s *AIService) parseRecipeResponse(content string) types.GeneratedRecipe {
	raw := jsonObjectPattern.FindString(content)
	if raw == "" {
		s.logger.Warn("completion contained no JSON object")
		return defaultRecipe()
	}

	var recipe types.GeneratedRecipe
	if err := json.Unmarshal([]byte(raw), &recipe); err == nil {
		return recipe
	}

	repaired := strings.ReplaceAll(raw, "\n", " ")
	repaired = strings.ReplaceAll(repaired, "  ", " ")
	if err := json.Unmarshal([]byte(repaired), &recipe); err != nil {
		s.logger.Warn("completion JSON unparseable, using default recipe", zap.Error(err))
		return defaultRecipe()
	}
	return recipe
}

// completeRecipe backfills any field the model left out so the response
// contract always holds.
func completeRecipe(recipe types.GeneratedRecipe) types.GeneratedRecipe {
	if recipe.RecipeName == "" {
		recipe.RecipeName = "Generated Recipe"
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	if recipe.Instructions == nil {
		recipe.Instructions = []string{}
	}
	if recipe.CookingTime == "" {
		recipe.CookingTime = "30 minutes"
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = "Medium"
	}
	if recipe.Servings == 0 {
		recipe.Servings = 4
	}
	if recipe.ServingSize == "" {
		recipe.ServingSize = "1 serving"
	}
	if recipe.DietaryTags == nil {
		recipe.DietaryTags = []string{}
	}
	if recipe.NutritionalFacts.IsZero() {
		recipe.NutritionalFacts = types.NutritionalFacts{
			Calories:      300,
			Protein:       "10g",
			Carbohydrates: "40g",
			Fat:           "10g",
			Fiber:         "5g",
			Sugar:         "3g",
			Sodium:        "300mg",
		}
	}
	if recipe.ImagePrompt == "" {
		recipe.ImagePrompt = fmt.Sprintf("A delicious %s served on a plate with garnishes", recipe.RecipeName)
	}
	return recipe
}

// defaultRecipe is the static stand-in for unparseable completions.
func defaultRecipe() types.GeneratedRecipe {
	return types.GeneratedRecipe{
		RecipeName: "Simple Pasta",
		Ingredients: []string{
			"200g pasta",
			"2 tbsp olive oil",
			"2 cloves garlic, minced",
			"1 tsp mixed herbs",
			"Salt to taste",
		},
		Instructions: []string{
			"Boil the pasta in salted water until al dente.",
			"Warm the olive oil and soften the garlic.",
			"Toss the drained pasta with the garlic oil and herbs.",
			"Season with salt and serve.",
		},
		CookingTime: "20 minutes",
		Difficulty:  "Easy",
		Servings:    2,
		ServingSize: "1 cup",
		DietaryTags: []string{"vegetarian"},
		NutritionalFacts: types.NutritionalFacts{
			Calories:      320,
			Protein:       "8g",
			Carbohydrates: "55g",
			Fat:           "8g",
			Fiber:         "3g",
			Sugar:         "2g",
			Sodium:        "250mg",
		},
		ImagePrompt: "A delicious Simple Pasta served on a plate with garnishes",
	}
}

// fallbackRecipe covers provider outages with a recipe built from the
// profile alone.
func fallbackRecipe(profile *models.UserProfile) types.GeneratedRecipe {
	favorite := "Recipe"
	if len(profile.FavoriteFoods) > 0 {
		favorite = profile.FavoriteFoods[0]
	}

	tags := []string{}
	if len(profile.DietaryPreferences) > 0 {
		tags = append(tags, profile.DietaryPreferences...)
	}

	name := fmt.Sprintf("Simple %s", favorite)
	return types.GeneratedRecipe{
		RecipeName: name,
		Ingredients: []string{
			fmt.Sprintf("Main ingredients for %s", favorite),
			"Seasonings to taste",
			"Cooking oil or butter",
		},
		Instructions: []string{
			fmt.Sprintf("Prepare the %s ingredients.", favorite),
			"Cook over medium heat until done.",
			"Season, plate and serve.",
		},
		CookingTime: "30 minutes",
		Difficulty:  "Medium",
		Servings:    4,
		ServingSize: "1 serving",
		DietaryTags: tags,
		NutritionalFacts: types.NutritionalFacts{
			Calories:      350,
			Protein:       "12g",
			Carbohydrates: "45g",
			Fat:           "12g",
			Fiber:         "6g",
			Sugar:         "4g",
			Sodium:        "350mg",
		},
		ImagePrompt: fmt.Sprintf("A delicious %s served on a plate with garnishes", name),
	}
}

const extractSystemPrompt = `You extract recipes from raw document text. Respond with a JSON array of recipe objects, each with the fields "name", "ingredients" (list of strings), "instructions" (list of strings), "cuisine", "difficulty", "cooking_time", "servings" (integer) and "description". If the text contains a single recipe a single JSON object is also acceptable. Respond with only JSON.`

// ExtractRecipes parses recipes out of extracted document text. Unlike
// recipe synthesis, failures here surface to the caller.
func (s *AIService) ExtractRecipes(ctx context.Context, text string) ([]types.ExternalRecipe, error) {
	resp, err := s.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.1,
		MaxTokens:   3000,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	return parseExtractedRecipes(resp.Choices[0].Message.Content)
}

func parseExtractedRecipes(content string) ([]types.ExternalRecipe, error) {
	raw := jsonBlockPattern.FindString(content)
	if raw == "" {
		return nil, fmt.Errorf("completion contained no JSON")
	}

	var recipes []types.ExternalRecipe
	if err := json.Unmarshal([]byte(raw), &recipes); err == nil {
		return recipes, nil
	}

	repaired := strings.ReplaceAll(raw, "\n", " ")
	repaired = strings.ReplaceAll(repaired, "  ", " ")
	if err := json.Unmarshal([]byte(repaired), &recipes); err == nil {
		return recipes, nil
	}

	var single types.ExternalRecipe
	if err := json.Unmarshal([]byte(repaired), &single); err != nil {
		return nil, fmt.Errorf("decode extracted recipes: %w", err)
	}
	return []types.ExternalRecipe{single}, nil
}
