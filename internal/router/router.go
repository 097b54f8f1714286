package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/recipe-ai/backend/internal/api"
	"github.com/platewise/recipe-ai/backend/internal/middleware"
)

// SetupRouter builds the HTTP routing tree.
func SetupRouter(userHandler *api.UserHandler, recipeHandler *api.RecipeHandler, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Recipe AI API",
			"version": "1.0.0",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	root := r.Group("")
	userHandler.RegisterRoutes(root)
	recipeHandler.RegisterRoutes(root)

	return r
}
