package models

import "time"

// UserProfile is a stored dietary profile, keyed by the external
// student id. FavoriteFood is the legacy singular column kept only so
// old rows can be migrated into FavoriteFoods on read.
type UserProfile struct {
	ID                 uint             `gorm:"primarykey" json:"-"`
	StudentID          string           `gorm:"size:64;not null;uniqueIndex" json:"student_id"`
	Name               string           `gorm:"size:255;not null" json:"name"`
	FavoriteFood       string           `gorm:"size:255" json:"-"`
	FavoriteFoods      JSONBStringArray `gorm:"type:jsonb;default:'[]'" json:"favorite_foods"`
	DietaryPreferences JSONBStringArray `gorm:"type:jsonb;default:'[]'" json:"dietary_preferences"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}
