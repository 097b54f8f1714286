package models

import "time"

// Conversation is one append-only record of a recipe generation event.
// Records are never updated after creation.
type Conversation struct {
	ID             uint      `gorm:"primarykey" json:"-"`
	ConversationID string    `gorm:"size:64;not null;uniqueIndex" json:"conversation_id"`
	UserID         string    `gorm:"size:64;not null;index" json:"user_id"`
	RecipeData     JSONBMap  `gorm:"type:jsonb;not null;default:'{}'" json:"recipe_data"`
	Timestamp      time.Time `gorm:"index" json:"timestamp"`
	Type           string    `gorm:"size:50;not null" json:"type"`
}
