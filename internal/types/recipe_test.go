package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServingsCountUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ServingsCount
	}{
		{name: "number", input: `4`, want: 4},
		{name: "float", input: `4.0`, want: 4},
		{name: "numeric string", input: `"6"`, want: 6},
		{name: "string with suffix", input: `"4 servings"`, want: 4},
		{name: "empty string degrades to zero", input: `""`, want: 0},
		{name: "non-numeric string degrades to zero", input: `"many"`, want: 0},
		{name: "object degrades to zero", input: `{}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ServingsCount(9)
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestFlexStringUnmarshal(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(`"15g"`), &f))
		assert.Equal(t, FlexString("15g"), f)
	})

	t.Run("number", func(t *testing.T) {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(`15`), &f))
		assert.Equal(t, FlexString("15"), f)
	})

	t.Run("array degrades to empty", func(t *testing.T) {
		f := FlexString("stale")
		require.NoError(t, json.Unmarshal([]byte(`[1]`), &f))
		assert.Equal(t, FlexString(""), f)
	})
}

func TestFlexFloatUnmarshal(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		var f FlexFloat
		require.NoError(t, json.Unmarshal([]byte(`350`), &f))
		assert.Equal(t, FlexFloat(350), f)
	})

	t.Run("string with unit", func(t *testing.T) {
		var f FlexFloat
		require.NoError(t, json.Unmarshal([]byte(`"350 kcal"`), &f))
		assert.Equal(t, FlexFloat(350), f)
	})

	t.Run("non-numeric string degrades to zero", func(t *testing.T) {
		f := FlexFloat(7)
		require.NoError(t, json.Unmarshal([]byte(`"lots"`), &f))
		assert.Equal(t, FlexFloat(0), f)
	})
}

func TestGeneratedRecipeUnmarshal(t *testing.T) {
	payload := `{
		"recipe_name": "Miso Ramen",
		"ingredients": ["noodles", "miso paste", "stock"],
		"instructions": ["Simmer the stock.", "Add the miso.", "Serve over noodles."],
		"cooking_time": "35 minutes",
		"difficulty": "Medium",
		"servings": "2 servings",
		"serving_size": "1 bowl",
		"dietary_tags": ["vegetarian"],
		"nutritional_facts": {
			"calories": "480 kcal",
			"protein": 18,
			"carbohydrates": "60g",
			"fat": "14g",
			"fiber": "4g",
			"sugar": "6g",
			"sodium": "900mg"
		},
		"image_prompt": "A steaming bowl of miso ramen"
	}`

	var recipe GeneratedRecipe
	require.NoError(t, json.Unmarshal([]byte(payload), &recipe))

	assert.Equal(t, "Miso Ramen", recipe.RecipeName)
	assert.Equal(t, ServingsCount(2), recipe.Servings)
	assert.Equal(t, FlexFloat(480), recipe.NutritionalFacts.Calories)
	assert.Equal(t, FlexString("18"), recipe.NutritionalFacts.Protein)
	assert.Len(t, recipe.Ingredients, 3)
	assert.False(t, recipe.NutritionalFacts.IsZero())
}

func TestNutritionalFactsIsZero(t *testing.T) {
	assert.True(t, NutritionalFacts{}.IsZero())
	assert.False(t, NutritionalFacts{Calories: 1}.IsZero())
}
