package service

import "errors"

var (
	// ErrUserNotFound means no profile exists for the requested id.
	ErrUserNotFound = errors.New("user not found")

	// ErrConversationNotFound means no stored generation event matches
	// the requested conversation id.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrNoFavoriteFoods means the profile cannot seed a generation.
	ErrNoFavoriteFoods = errors.New("user must have at least one favorite food specified")

	// ErrNoLatestRecipe means the cache holds nothing for the user.
	ErrNoLatestRecipe = errors.New("no recent recipe found")
)
