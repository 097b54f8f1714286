package types

import "time"

// UserProfileResponse is the wire representation of a stored profile.
type UserProfileResponse struct {
	StudentID          string    `json:"student_id"`
	Name               string    `json:"name"`
	FavoriteFoods      []string  `json:"favorite_foods"`
	DietaryPreferences []string  `json:"dietary_preferences"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UsersListResponse wraps the full profile listing.
type UsersListResponse struct {
	Users      []UserProfileResponse `json:"users"`
	TotalCount int                   `json:"total_count"`
}

// ConversationHistoryResponse is one stored generation event.
type ConversationHistoryResponse struct {
	ConversationID string                 `json:"conversation_id"`
	UserID         string                 `json:"user_id"`
	RecipeData     map[string]interface{} `json:"recipe_data"`
	Timestamp      time.Time              `json:"timestamp"`
	Type           string                 `json:"type"`
}

// RecipeTypeCount is one entry of the popular-recipe breakdown.
type RecipeTypeCount struct {
	RecipeName string `json:"recipe_name"`
	Count      int    `json:"count"`
}

// ConversationSummaryResponse aggregates a user's generation history.
type ConversationSummaryResponse struct {
	UserID              string                        `json:"user_id"`
	TotalConversations  int                           `json:"total_conversations"`
	RecentConversations []ConversationHistoryResponse `json:"recent_conversations"`
	PopularRecipeTypes  []RecipeTypeCount             `json:"popular_recipe_types"`
}

// UploadedRecipeStatus reports the outcome for a single recipe parsed
// from an uploaded document.
type UploadedRecipeStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// UploadRecipesResponse is the payload of the PDF upload endpoint.
type UploadRecipesResponse struct {
	Message         string                 `json:"message"`
	UploadedRecipes []UploadedRecipeStatus `json:"uploaded_recipes"`
	TotalUploaded   int                    `json:"total_uploaded"`
}
