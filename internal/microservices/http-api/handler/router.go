package handler

import (
	"log/slog"
	"net/http"

	"recipehub/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers is everything the API mounts.
type Handlers struct {
	Auth              *AuthHandler
	Users             *UserHandler
	Measures          *NamedHandler
	Categories        *NamedHandler
	Ingredients       *IngredientHandler
	Recipes           *RecipeHandler
	RecipeIngredients *RecipeIngredientHandler
	Scores            *ScoreHandler
}

type RouterConfig struct {
	Handlers    Handlers
	Tokens      middleware.TokenValidator
	Limiter     *middleware.RateLimiter
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter builds the gin engine. Catalog reads are public; every write
// needs a bearer token and is rate limited per caller.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limit := func(c *gin.Context) { c.Next() }
	if cfg.Limiter != nil {
		limit = cfg.Limiter.Middleware()
	}
	requireAuth := middleware.AuthMiddleware(cfg.Tokens)

	api := r.Group("/api")

	// ===============
	// || Public    ||
	// ===============
	cfg.Handlers.Auth.RegisterRoutes(api.Group("/auth", limit))

	// optional auth runs first so the limiter can key on the user
	catalog := api.Group("", middleware.OptionalAuth(cfg.Tokens), limit)
	cfg.Handlers.Measures.RegisterRoutes(catalog.Group("/measures"), requireAuth)
	cfg.Handlers.Categories.RegisterRoutes(catalog.Group("/recipe-categories"), requireAuth)
	cfg.Handlers.Ingredients.RegisterRoutes(catalog.Group("/ingredients"), requireAuth)
	cfg.Handlers.Recipes.RegisterRoutes(catalog.Group("/recipes"), requireAuth)
	cfg.Handlers.RecipeIngredients.RegisterRoutes(catalog.Group("/recipe-ingredients"), requireAuth)
	cfg.Handlers.Scores.RegisterRoutes(catalog.Group("/scores"), requireAuth)

	// ===============
	// || Protected ||
	// ===============
	cfg.Handlers.Users.RegisterRoutes(api.Group("/users", requireAuth, limit))

	return r
}
