package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testRouter(measures *MockNamedService, limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{
		Handlers: Handlers{
			Auth:              NewAuthHandler(new(MockAuthService), time.Minute),
			Users:             NewUserHandler(new(MockUserService)),
			Measures:          NewNamedHandler(measures),
			Categories:        NewNamedHandler(new(MockNamedService)),
			Ingredients:       NewIngredientHandler(nil),
			Recipes:           NewRecipeHandler(new(MockRecipeService)),
			RecipeIngredients: NewRecipeIngredientHandler(nil),
			Scores:            NewScoreHandler(new(MockScoreService)),
		},
		Tokens:  testTokens,
		Limiter: limiter,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRouter_Health(t *testing.T) {
	w := doJSON(t, testRouter(new(MockNamedService), nil), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_CatalogReadsArePublic(t *testing.T) {
	measures := new(MockNamedService)
	measures.On("List", mock.Anything, 1, 20).Return(dto.NewPaginated[dto.NamedResponse](nil, 0, 1, 20), nil)
	r := testRouter(measures, nil)

	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/api/measures", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodPost, "/api/measures", "", dto.NameRequest{Name: "cup"}).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/api/users", "", nil).Code)
}

func TestRouter_WritesAreRateLimited(t *testing.T) {
	measures := new(MockNamedService)
	measures.On("Create", mock.Anything, mock.Anything, "cup").Return(&dto.NamedResponse{ID: 1, Name: "cup"}, nil)
	r := testRouter(measures, middleware.NewRateLimiter(0.001, 1))

	first := doJSON(t, r, http.MethodPost, "/api/measures", staffToken, dto.NameRequest{Name: "cup"})
	second := doJSON(t, r, http.MethodPost, "/api/measures", staffToken, dto.NameRequest{Name: "cup"})

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	measures.AssertNumberOfCalls(t, "Create", 1)
}
