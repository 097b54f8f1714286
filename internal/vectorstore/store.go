package vectorstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/internal/types"
)

// recipeIndex is the consumer interface over the index data plane.
type recipeIndex interface {
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, vector []float32, topK int) ([]QueryMatch, error)
	Delete(ctx context.Context, ids []string) error
}

// RecipeDocument is the scalar-safe projection of a recipe stored as
// index metadata. Every field must be a string, a number, or a string
// list; the index rejects nested objects.
type RecipeDocument struct {
	Name             string
	Ingredients      []string
	Instructions     []string
	Cuisine          string
	Difficulty       string
	CookingTime      string
	Servings         int
	Description      string
	DietaryTags      []string
	UserID           string
	GeneratedForUser string
	GeneratedAt      string
	ConversationID   string
}

func (d RecipeDocument) metadata() map[string]interface{} {
	meta := map[string]interface{}{
		"name":         d.Name,
		"ingredients":  emptyIfNil(d.Ingredients),
		"instructions": emptyIfNil(d.Instructions),
		"difficulty":   d.Difficulty,
		"cooking_time": d.CookingTime,
	}
	if d.Cuisine != "" {
		meta["cuisine"] = d.Cuisine
	}
	if d.Servings > 0 {
		meta["servings"] = d.Servings
	}
	if d.Description != "" {
		meta["description"] = d.Description
	}
	if len(d.DietaryTags) > 0 {
		meta["dietary_tags"] = d.DietaryTags
	}
	if d.UserID != "" {
		meta["user_id"] = d.UserID
	}
	if d.GeneratedForUser != "" {
		meta["generated_for_user"] = d.GeneratedForUser
	}
	if d.GeneratedAt != "" {
		meta["generated_at"] = d.GeneratedAt
	}
	if d.ConversationID != "" {
		meta["conversation_id"] = d.ConversationID
	}
	return meta
}

// text returns the embedded surrogate: name plus ingredients plus
// instructions.
func (d RecipeDocument) text() string {
	parts := []string{d.Name}
	parts = append(parts, d.Ingredients...)
	parts = append(parts, d.Instructions...)
	return strings.Join(parts, " ")
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Store embeds recipes and keeps them in the vector index.
type Store struct {
	index    recipeIndex
	embedder Embedder
	logger   *zap.Logger
}

// NewStore creates a recipe store over an index and an embedder.
func NewStore(index recipeIndex, embedder Embedder, logger *zap.Logger) *Store {
	return &Store{
		index:    index,
		embedder: embedder,
		logger:   logger,
	}
}

// StoreRecipe embeds the recipe's text surrogate and upserts it under a
// freshly minted id derived from baseID. It returns the stored id.
func (s *Store) StoreRecipe(ctx context.Context, baseID string, doc RecipeDocument) (string, error) {
	vector, err := s.embedder.Embed(ctx, doc.text())
	if err != nil {
		return "", fmt.Errorf("embed recipe %s: %w", baseID, err)
	}

	id := uniqueID(baseID)
	meta := doc.metadata()
	if err := validateMetadata(meta); err != nil {
		return "", fmt.Errorf("invalid metadata for recipe %s: %w", baseID, err)
	}

	record := Record{ID: id, Values: vector, Metadata: meta}
	if err := s.index.Upsert(ctx, []Record{record}); err != nil {
		return "", fmt.Errorf("upsert recipe %s: %w", id, err)
	}

	s.logger.Info("stored recipe in vector index", zap.String("id", id))
	return id, nil
}

// SearchSimilar returns up to topK recipes semantically close to the
// query, highest score first. A non-positive topK yields an empty list
// without touching the index.
func (s *Store) SearchSimilar(ctx context.Context, query string, topK int) ([]types.SimilarityMatch, error) {
	if topK <= 0 {
		return []types.SimilarityMatch{}, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	results := make([]types.SimilarityMatch, 0, len(matches))
	for _, m := range matches {
		name := "Unknown"
		if v, ok := m.Metadata["name"].(string); ok && v != "" {
			name = v
		}
		results = append(results, types.SimilarityMatch{
			ID:       m.ID,
			Score:    m.Score,
			Name:     name,
			Metadata: m.Metadata,
		})
	}
	return results, nil
}

// DeleteByName removes every record whose metadata name matches
// case-insensitively. The index has no metadata filter on queries, so
// candidates come from a wide similarity search on the name itself.
func (s *Store) DeleteByName(ctx context.Context, name string) (int, error) {
	matches, err := s.SearchSimilar(ctx, name, 100)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, m := range matches {
		if strings.EqualFold(m.Name, name) {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.index.Delete(ctx, ids); err != nil {
		return 0, fmt.Errorf("delete recipes named %q: %w", name, err)
	}

	s.logger.Info("deleted recipes from vector index",
		zap.String("name", name), zap.Int("count", len(ids)))
	return len(ids), nil
}

// uniqueID combines the caller's id with a timestamp and a random
// suffix so repeated writes never collide.
func uniqueID(base string) string {
	return fmt.Sprintf("%s_%d_%s", base, time.Now().Unix(), uuid.New().String()[:8])
}

// validateMetadata rejects values the index cannot store: everything
// must be a scalar or a list of strings.
func validateMetadata(meta map[string]interface{}) error {
	for key, value := range meta {
		switch v := value.(type) {
		case string, bool, int, int32, int64, float32, float64:
		case []string:
		default:
			return fmt.Errorf("metadata field %q has unsupported type %T", key, v)
		}
	}
	return nil
}
