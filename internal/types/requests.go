package types

// UpsertUserRequest creates or updates a user profile, keyed by the
// external student id. The singular favorite_food field is accepted for
// backward compatibility and folded into favorite_foods.
type UpsertUserRequest struct {
	StudentID          string   `json:"student_id" binding:"required"`
	Name               string   `json:"name" binding:"required"`
	FavoriteFood       string   `json:"favorite_food"`
	FavoriteFoods      []string `json:"favorite_foods"`
	DietaryPreferences []string `json:"dietary_preferences"`
}
