package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/internal/models"
	"github.com/platewise/recipe-ai/backend/internal/service"
	"github.com/platewise/recipe-ai/backend/internal/types"
)

type stubProfiles struct {
	profiles  map[string]*models.UserProfile
	listErr   error
	upsertErr error
}

func newStubProfiles(profiles ...*models.UserProfile) *stubProfiles {
	s := &stubProfiles{profiles: map[string]*models.UserProfile{}}
	for _, p := range profiles {
		s.profiles[p.StudentID] = p
	}
	return s
}

func (s *stubProfiles) Upsert(_ context.Context, req types.UpsertUserRequest) (*models.UserProfile, error) {
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	favorites := req.FavoriteFoods
	if len(favorites) == 0 && req.FavoriteFood != "" {
		favorites = []string{req.FavoriteFood}
	}
	profile := &models.UserProfile{
		StudentID:          req.StudentID,
		Name:               req.Name,
		FavoriteFoods:      favorites,
		DietaryPreferences: req.DietaryPreferences,
	}
	s.profiles[req.StudentID] = profile
	return profile, nil
}

func (s *stubProfiles) GetByStudentID(_ context.Context, studentID string) (*models.UserProfile, error) {
	profile, ok := s.profiles[studentID]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return profile, nil
}

func (s *stubProfiles) List(context.Context) ([]models.UserProfile, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.UserProfile
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func newUserRouter(profiles service.ProfileStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewUserHandler(profiles, zap.NewNop()).RegisterRoutes(r.Group(""))
	return r
}

func TestUpsertAndGetUser(t *testing.T) {
	r := newUserRouter(newStubProfiles())

	body, _ := json.Marshal(types.UpsertUserRequest{
		StudentID:     "u1",
		Name:          "Sam",
		FavoriteFoods: []string{"ramen"},
	})
	req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/u1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.UserProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.StudentID)
	assert.Equal(t, []string{"ramen"}, resp.FavoriteFoods)
}

func TestUpsertUserValidation(t *testing.T) {
	r := newUserRouter(newStubProfiles())

	req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader([]byte(`{"name":"Sam"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	r := newUserRouter(newStubProfiles())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsers(t *testing.T) {
	r := newUserRouter(newStubProfiles(
		&models.UserProfile{StudentID: "u1", Name: "Sam", FavoriteFoods: models.JSONBStringArray{"ramen"}},
		&models.UserProfile{StudentID: "u2", Name: "Alex"},
	))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.UsersListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalCount)
	assert.Len(t, resp.Users, 2)
}

func TestListUsersError(t *testing.T) {
	profiles := newStubProfiles()
	profiles.listErr = fmt.Errorf("db down")
	r := newUserRouter(profiles)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
