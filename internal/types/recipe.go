package types

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ServingsCount tolerates the servings field arriving as a number,
// a numeric string, or a string like "4 servings". Anything else
// decodes as zero; callers backfill zero with a sensible default, so
// one odd field never rejects an otherwise valid recipe.
type ServingsCount int

func (s *ServingsCount) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = ServingsCount(int(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if fields := strings.Fields(str); len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				*s = ServingsCount(n)
				return nil
			}
		}
	}

	*s = 0
	return nil
}

// FlexString accepts either a JSON string or a JSON number and always
// marshals back as a string. Generation models are not consistent about
// quoting values like "15g". Other shapes decode as the empty string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = FlexString(str)
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexString(strconv.FormatFloat(num, 'f', -1, 64))
		return nil
	}

	*f = ""
	return nil
}

// FlexFloat accepts either a JSON number or a numeric string, ignoring a
// trailing unit ("350 kcal" parses as 350). Non-numeric values decode
// as zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexFloat(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if fields := strings.Fields(str); len(fields) > 0 {
			if n, err := strconv.ParseFloat(fields[0], 64); err == nil {
				*f = FlexFloat(n)
				return nil
			}
		}
	}

	*f = 0
	return nil
}

// NutritionalFacts holds the fixed seven-key macro breakdown attached to
// every generated recipe. Calories is numeric; the rest keep their unit
// suffix ("15g", "400mg").
type NutritionalFacts struct {
	Calories      FlexFloat  `json:"calories"`
	Protein       FlexString `json:"protein"`
	Carbohydrates FlexString `json:"carbohydrates"`
	Fat           FlexString `json:"fat"`
	Fiber         FlexString `json:"fiber"`
	Sugar         FlexString `json:"sugar"`
	Sodium        FlexString `json:"sodium"`
}

// IsZero reports whether no field has been populated.
func (n NutritionalFacts) IsZero() bool {
	return n == NutritionalFacts{}
}

// GeneratedRecipe is the structure the generation model is asked to
// produce, plus the metadata attached after synthesis.
type GeneratedRecipe struct {
	RecipeName       string           `json:"recipe_name"`
	Ingredients      []string         `json:"ingredients"`
	Instructions     []string         `json:"instructions"`
	CookingTime      string           `json:"cooking_time"`
	Difficulty       string           `json:"difficulty"`
	Servings         ServingsCount    `json:"servings"`
	ServingSize      string           `json:"serving_size"`
	DietaryTags      []string         `json:"dietary_tags"`
	NutritionalFacts NutritionalFacts `json:"nutritional_facts"`
	ImagePrompt      string           `json:"image_prompt"`
	ImageURL         string           `json:"image_url"`
	UserID           string           `json:"user_id"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// RecipeResponse is the full recipe-generation payload returned to the
// client, including the identifier of the stored conversation record.
type RecipeResponse struct {
	GeneratedRecipe
	ConversationID string `json:"conversation_id"`
}

// SimilarityMatch is one ranked result from the vector index.
type SimilarityMatch struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata"`
}

// SearchResponse is the payload of the recipe search endpoint.
type SearchResponse struct {
	Query      string            `json:"query"`
	Results    []SimilarityMatch `json:"results"`
	TotalFound int               `json:"total_found"`
}

// ExternalRecipe is a recipe parsed from an uploaded document or seeded
// into the index, as opposed to one synthesized for a user.
type ExternalRecipe struct {
	ID           string        `json:"id,omitempty"`
	Name         string        `json:"name"`
	Ingredients  []string      `json:"ingredients"`
	Instructions []string      `json:"instructions"`
	Cuisine      string        `json:"cuisine"`
	Difficulty   string        `json:"difficulty"`
	CookingTime  string        `json:"cooking_time"`
	Servings     ServingsCount `json:"servings"`
	Description  string        `json:"description"`
}
