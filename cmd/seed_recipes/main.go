package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/config"
	"github.com/platewise/recipe-ai/backend/internal/logger"
	"github.com/platewise/recipe-ai/backend/internal/vectorstore"
)

// starterRecipes are the sample documents loaded into a fresh index.
var starterRecipes = []vectorstore.RecipeDocument{
	{
		Name: "Spaghetti Carbonara",
		Ingredients: []string{
			"400g spaghetti",
			"200g pancetta",
			"4 large eggs",
			"100g Pecorino Romano, grated",
			"Black pepper",
		},
		Instructions: []string{
			"Cook the spaghetti in salted boiling water until al dente.",
			"Crisp the pancetta in a large pan.",
			"Whisk the eggs with the cheese and plenty of pepper.",
			"Toss the hot pasta with the pancetta off the heat, then stir in the egg mixture.",
			"Serve immediately with extra cheese.",
		},
		Cuisine:     "Italian",
		Difficulty:  "Medium",
		CookingTime: "25 minutes",
		Servings:    4,
		Description: "Classic Roman pasta with eggs, cured pork and Pecorino.",
	},
	{
		Name: "Chicken Tikka Masala",
		Ingredients: []string{
			"600g chicken thighs, cubed",
			"200g yogurt",
			"2 tbsp tikka spice mix",
			"400g canned tomatoes",
			"200ml cream",
			"1 onion, diced",
			"3 cloves garlic",
		},
		Instructions: []string{
			"Marinate the chicken in yogurt and spices for at least an hour.",
			"Grill the chicken until charred at the edges.",
			"Simmer the onion, garlic and tomatoes into a sauce.",
			"Add the chicken and cream and simmer 10 minutes.",
			"Serve with rice or naan.",
		},
		Cuisine:     "Indian",
		Difficulty:  "Medium",
		CookingTime: "50 minutes",
		Servings:    4,
		Description: "Grilled marinated chicken in a spiced tomato cream sauce.",
	},
	{
		Name: "Caesar Salad",
		Ingredients: []string{
			"2 romaine hearts, chopped",
			"50g Parmesan, shaved",
			"Croutons",
			"2 anchovy fillets",
			"1 egg yolk",
			"1 clove garlic",
			"Olive oil and lemon juice",
		},
		Instructions: []string{
			"Whisk the yolk, anchovies, garlic, lemon juice and oil into a dressing.",
			"Toss the romaine with the dressing.",
			"Top with croutons and shaved Parmesan.",
		},
		Cuisine:     "American",
		Difficulty:  "Easy",
		CookingTime: "15 minutes",
		Servings:    2,
		Description: "Crisp romaine with anchovy dressing, croutons and Parmesan.",
	},
}

func main() {
	replace := flag.Bool("replace", false, "delete existing copies of each starter recipe before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	embedder := vectorstore.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingDimension)
	index := vectorstore.NewIndex(vectorstore.IndexConfig{
		Host:   cfg.PineconeIndexHost,
		APIKey: cfg.PineconeAPIKey,
	})
	store := vectorstore.NewStore(index, embedder, zlog)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, recipe := range starterRecipes {
		if *replace {
			removed, err := store.DeleteByName(ctx, recipe.Name)
			if err != nil {
				zlog.Fatal("failed to delete existing recipe",
					zap.String("name", recipe.Name), zap.Error(err))
			}
			if removed > 0 {
				zlog.Info("removed existing copies",
					zap.String("name", recipe.Name), zap.Int("count", removed))
			}
		}

		id, err := store.StoreRecipe(ctx, "seed", recipe)
		if err != nil {
			zlog.Fatal("failed to seed recipe",
				zap.String("name", recipe.Name), zap.Error(err))
		}
		zlog.Info("seeded recipe", zap.String("name", recipe.Name), zap.String("id", id))
	}

	zlog.Info("seeding complete", zap.Int("count", len(starterRecipes)))
}
