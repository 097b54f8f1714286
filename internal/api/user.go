package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/internal/models"
	"github.com/platewise/recipe-ai/backend/internal/service"
	"github.com/platewise/recipe-ai/backend/internal/types"
)

// UserHandler exposes the user profile endpoints.
type UserHandler struct {
	profiles service.ProfileStore
	logger   *zap.Logger
}

// NewUserHandler creates a user handler.
func NewUserHandler(profiles service.ProfileStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, logger: logger}
}

// RegisterRoutes mounts the handler under /user.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/user")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.UpsertUser)
		users.GET("/:id", h.GetUser)
	}
}

// ListUsers returns every stored profile.
func (h *UserHandler) ListUsers(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list profiles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	users := make([]types.UserProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, toProfileResponse(p))
	}
	c.JSON(http.StatusOK, types.UsersListResponse{Users: users, TotalCount: len(users)})
}

// GetUser returns one profile by student id.
func (h *UserHandler) GetUser(c *gin.Context) {
	studentID := c.Param("id")

	profile, err := h.profiles.GetByStudentID(c.Request.Context(), studentID)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load profile", zap.String("student_id", studentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(*profile))
}

// UpsertUser creates or updates a profile.
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req types.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to upsert profile", zap.String("student_id", req.StudentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save user"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(*profile))
}

func toProfileResponse(p models.UserProfile) types.UserProfileResponse {
	favorites := []string(p.FavoriteFoods)
	if favorites == nil {
		favorites = []string{}
	}
	preferences := []string(p.DietaryPreferences)
	if preferences == nil {
		preferences = []string{}
	}
	return types.UserProfileResponse{
		StudentID:          p.StudentID,
		Name:               p.Name,
		FavoriteFoods:      favorites,
		DietaryPreferences: preferences,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
