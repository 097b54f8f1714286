package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platewise/recipe-ai/backend/internal/models"
	"github.com/platewise/recipe-ai/backend/internal/types"
)

// ProfileService stores dietary profiles in the document store.
type ProfileService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProfileService creates a profile service.
func NewProfileService(db *gorm.DB, logger *zap.Logger) *ProfileService {
	return &ProfileService{db: db, logger: logger}
}

// Upsert creates a profile for the student id or updates the existing
// one. A legacy singular favorite_food is folded into favorite_foods.
func (s *ProfileService) Upsert(ctx context.Context, req types.UpsertUserRequest) (*models.UserProfile, error) {
	favorites := req.FavoriteFoods
	if len(favorites) == 0 && req.FavoriteFood != "" {
		favorites = []string{req.FavoriteFood}
	}
	if favorites == nil {
		favorites = []string{}
	}
	preferences := req.DietaryPreferences
	if preferences == nil {
		preferences = []string{}
	}

	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("student_id = ?", req.StudentID).First(&profile).Error
	switch {
	case err == nil:
		profile.Name = req.Name
		profile.FavoriteFoods = favorites
		profile.DietaryPreferences = preferences
		profile.FavoriteFood = ""
		if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
			return nil, fmt.Errorf("update profile %s: %w", req.StudentID, err)
		}
		s.logger.Info("updated user profile", zap.String("student_id", req.StudentID))
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.UserProfile{
			StudentID:          req.StudentID,
			Name:               req.Name,
			FavoriteFoods:      favorites,
			DietaryPreferences: preferences,
		}
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("create profile %s: %w", req.StudentID, err)
		}
		s.logger.Info("created user profile", zap.String("student_id", req.StudentID))
	default:
		return nil, fmt.Errorf("look up profile %s: %w", req.StudentID, err)
	}

	return &profile, nil
}

// GetByStudentID loads a profile, migrating legacy rows on the way out.
func (s *ProfileService) GetByStudentID(ctx context.Context, studentID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("student_id = ?", studentID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up profile %s: %w", studentID, err)
	}

	s.migrateLegacy(ctx, &profile)
	return &profile, nil
}

// List returns all stored profiles, legacy rows migrated.
func (s *ProfileService) List(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := s.db.WithContext(ctx).Order("student_id").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	for i := range profiles {
		s.migrateLegacy(ctx, &profiles[i])
	}
	return profiles, nil
}

// migrateLegacy folds the singular favorite_food column into
// favorite_foods. The write back is best effort; a failure only means
// the row migrates again on the next read.
func (s *ProfileService) migrateLegacy(ctx context.Context, profile *models.UserProfile) {
	if len(profile.FavoriteFoods) == 0 && profile.FavoriteFood != "" {
		profile.FavoriteFoods = []string{profile.FavoriteFood}
		profile.FavoriteFood = ""
		if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
			s.logger.Warn("failed to persist legacy profile migration",
				zap.String("student_id", profile.StudentID), zap.Error(err))
		}
	}
	if profile.FavoriteFoods == nil {
		profile.FavoriteFoods = []string{}
	}
	if profile.DietaryPreferences == nil {
		profile.DietaryPreferences = []string{}
	}
}
