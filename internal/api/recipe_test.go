package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/internal/models"
	"github.com/platewise/recipe-ai/backend/internal/service"
	"github.com/platewise/recipe-ai/backend/internal/types"
	"github.com/platewise/recipe-ai/backend/internal/vectorstore"
)

type stubGenerator struct {
	resp *types.RecipeResponse
	err  error
}

func (s *stubGenerator) GenerateForUser(context.Context, string) (*types.RecipeResponse, error) {
	return s.resp, s.err
}

type stubConversations struct {
	history    []types.ConversationHistoryResponse
	historyErr error
	summary    *types.ConversationSummaryResponse
	byID       map[string]*types.ConversationHistoryResponse
	gotLimit   int
}

func (s *stubConversations) Append(context.Context, string, types.GeneratedRecipe) (string, error) {
	return "conv-1", nil
}

func (s *stubConversations) GetByID(_ context.Context, id string) (*types.ConversationHistoryResponse, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, service.ErrConversationNotFound
}

func (s *stubConversations) History(_ context.Context, _ string, limit int) ([]types.ConversationHistoryResponse, error) {
	s.gotLimit = limit
	return s.history, s.historyErr
}

func (s *stubConversations) Summary(context.Context, string) (*types.ConversationSummaryResponse, error) {
	return s.summary, nil
}

type stubIndex struct {
	results   []types.SimilarityMatch
	searchErr error
	gotQuery  string
	gotTopK   int
	stored    []vectorstore.RecipeDocument
	storeErr  error
}

func (s *stubIndex) StoreRecipe(_ context.Context, _ string, doc vectorstore.RecipeDocument) (string, error) {
	if s.storeErr != nil {
		return "", s.storeErr
	}
	s.stored = append(s.stored, doc)
	return fmt.Sprintf("id-%d", len(s.stored)), nil
}

func (s *stubIndex) SearchSimilar(_ context.Context, query string, topK int) ([]types.SimilarityMatch, error) {
	s.gotQuery = query
	s.gotTopK = topK
	return s.results, s.searchErr
}

func (s *stubIndex) DeleteByName(context.Context, string) (int, error) {
	return 0, nil
}

type stubSynthesizer struct {
	extracted  []types.ExternalRecipe
	extractErr error
}

func (s *stubSynthesizer) GenerateRecipe(context.Context, *models.UserProfile, []types.SimilarityMatch) types.GeneratedRecipe {
	return types.GeneratedRecipe{}
}

func (s *stubSynthesizer) ExtractRecipes(context.Context, string) ([]types.ExternalRecipe, error) {
	return s.extracted, s.extractErr
}

type stubCache struct {
	resp *types.RecipeResponse
	err  error
}

func (s *stubCache) SaveLatest(context.Context, string, types.RecipeResponse) error {
	return nil
}

func (s *stubCache) GetLatest(context.Context, string) (*types.RecipeResponse, error) {
	return s.resp, s.err
}

type recipeFixture struct {
	generator     *stubGenerator
	profiles      *stubProfiles
	conversations *stubConversations
	index         *stubIndex
	synthesizer   *stubSynthesizer
	cache         *stubCache
	router        *gin.Engine
}

func newRecipeFixture() *recipeFixture {
	gin.SetMode(gin.TestMode)

	f := &recipeFixture{
		generator: &stubGenerator{},
		profiles: newStubProfiles(&models.UserProfile{
			StudentID:     "u1",
			Name:          "Sam",
			FavoriteFoods: models.JSONBStringArray{"ramen"},
		}),
		conversations: &stubConversations{},
		index:         &stubIndex{},
		synthesizer:   &stubSynthesizer{},
		cache:         &stubCache{},
	}

	handler := NewRecipeHandler(
		f.generator, f.profiles, f.conversations, f.index, f.synthesizer, f.cache, zap.NewNop())

	f.router = gin.New()
	handler.RegisterRoutes(f.router.Group(""))
	return f
}

func (f *recipeFixture) do(method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGenerateRecipeEndpoint(t *testing.T) {
	f := newRecipeFixture()
	f.generator.resp = &types.RecipeResponse{
		GeneratedRecipe: types.GeneratedRecipe{RecipeName: "Veggie Ramen", UserID: "u1"},
		ConversationID:  "conv-1",
	}

	w := f.do(http.MethodGet, "/recipe/u1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Veggie Ramen", resp.RecipeName)
	assert.Equal(t, "conv-1", resp.ConversationID)
}

func TestGenerateRecipeEndpointErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "user not found", err: service.ErrUserNotFound, code: http.StatusNotFound},
		{name: "no favorites", err: service.ErrNoFavoriteFoods, code: http.StatusBadRequest},
		{name: "persistence failure", err: fmt.Errorf("db down"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecipeFixture()
			f.generator.err = tt.err

			w := f.do(http.MethodGet, "/recipe/u1", nil, "")
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestSearchRecipesEndpoint(t *testing.T) {
	f := newRecipeFixture()
	f.index.results = []types.SimilarityMatch{
		{ID: "r1", Score: 0.9, Name: "Pasta", Metadata: map[string]interface{}{}},
	}

	w := f.do(http.MethodGet, "/recipe/search?query=pasta&top_k=3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pasta", resp.Query)
	assert.Equal(t, 1, resp.TotalFound)
	assert.Equal(t, 3, f.index.gotTopK)
}

func TestSearchRecipesMissingQuery(t *testing.T) {
	f := newRecipeFixture()
	w := f.do(http.MethodGet, "/recipe/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRecipesBadTopK(t *testing.T) {
	f := newRecipeFixture()
	w := f.do(http.MethodGet, "/recipe/search?query=pasta&top_k=many", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRecipesProviderFailureReturnsEmpty(t *testing.T) {
	f := newRecipeFixture()
	f.index.searchErr = fmt.Errorf("index down")

	w := f.do(http.MethodGet, "/recipe/search?query=pasta", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.TotalFound)
	assert.NotNil(t, resp.Results)
}

func TestListRecipesEndpoint(t *testing.T) {
	f := newRecipeFixture()
	f.index.results = []types.SimilarityMatch{
		{ID: "r1", Score: 0.9, Name: "Pasta", Metadata: map[string]interface{}{}},
	}

	w := f.do(http.MethodGet, "/recipe/recipes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, f.index.gotTopK)
	assert.Equal(t, "recipe", f.index.gotQuery)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["total"])
	assert.Contains(t, resp, "recipes")
}

func TestHistoryEndpoint(t *testing.T) {
	f := newRecipeFixture()
	f.conversations.history = []types.ConversationHistoryResponse{
		{ConversationID: "conv-1", UserID: "u1", Timestamp: time.Now().UTC(), Type: "recipe_generation"},
	}

	w := f.do(http.MethodGet, "/recipe/u1/history?limit=3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, f.conversations.gotLimit)

	var resp []types.ConversationHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "conv-1", resp[0].ConversationID)
	assert.Equal(t, "u1", resp[0].UserID)
}

func TestHistoryEndpointEmpty(t *testing.T) {
	f := newRecipeFixture()

	w := f.do(http.MethodGet, "/recipe/u1/history", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestHistoryEndpointUnknownUser(t *testing.T) {
	f := newRecipeFixture()
	w := f.do(http.MethodGet, "/recipe/missing/history", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLatestEndpoint(t *testing.T) {
	f := newRecipeFixture()
	f.cache.resp = &types.RecipeResponse{
		GeneratedRecipe: types.GeneratedRecipe{RecipeName: "Veggie Ramen"},
		ConversationID:  "conv-1",
	}

	w := f.do(http.MethodGet, "/recipe/u1/latest", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Veggie Ramen", resp.RecipeName)
}

func TestLatestEndpointEmptyCache(t *testing.T) {
	f := newRecipeFixture()
	f.cache.err = service.ErrNoLatestRecipe

	w := f.do(http.MethodGet, "/recipe/u1/latest", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	f := newRecipeFixture()
	f.conversations.summary = &types.ConversationSummaryResponse{
		UserID:             "u1",
		TotalConversations: 4,
		PopularRecipeTypes: []types.RecipeTypeCount{{RecipeName: "Pasta", Count: 3}},
	}

	w := f.do(http.MethodGet, "/recipe/u1/summary", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ConversationSummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.TotalConversations)
}

func TestGetConversationEndpoint(t *testing.T) {
	f := newRecipeFixture()
	f.conversations.byID = map[string]*types.ConversationHistoryResponse{
		"conv-1": {ConversationID: "conv-1", UserID: "u1", Type: "recipe_generation"},
	}

	w := f.do(http.MethodGet, "/recipe/conversation/conv-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/recipe/conversation/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	f := newRecipeFixture()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "recipes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a pdf"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := f.do(http.MethodPost, "/recipe/upload-pdf-recipes", body, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRequiresFile(t *testing.T) {
	f := newRecipeFixture()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	w := f.do(http.MethodPost, "/recipe/upload-pdf-recipes", body, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
