package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/policy"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.RecipeResponse], error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.RecipeResponse]), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, id int64) (*dto.RecipeResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateRecipeRequest) (*dto.RecipeResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockRecipeService) QueryAvailableByIngredients(ctx context.Context, ids []int64) ([]dto.RecipeResponse, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]dto.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) RankByAvailability(ctx context.Context, ids []int64) ([]dto.RankedRecipeResponse, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]dto.RankedRecipeResponse), args.Error(1)
}

func (m *MockRecipeService) QueryMissingIngredients(ctx context.Context, recipeID int64, ids []int64) ([]dto.MissingIngredientResponse, error) {
	args := m.Called(ctx, recipeID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.MissingIngredientResponse), args.Error(1)
}

func (m *MockRecipeService) ListByCookTime(ctx context.Context, cookTime string) ([]dto.RecipeResponse, error) {
	args := m.Called(ctx, cookTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RecipeResponse), args.Error(1)
}

func recipeRouter(svc service.RecipeService) *gin.Engine {
	r := setupRouter()
	rg, requireAuth := catalogGroup(r, "/recipes")
	NewRecipeHandler(svc).RegisterRoutes(rg, requireAuth)
	return r
}

func TestRecipeHandler_Ranked(t *testing.T) {
	svc := new(MockRecipeService)
	ranked := []dto.RankedRecipeResponse{
		{RecipeResponse: dto.RecipeResponse{ID: 1, Name: "A"}, Unlikeness: 0},
		{RecipeResponse: dto.RecipeResponse{ID: 2, Name: "B"}, Unlikeness: 1},
	}
	svc.On("RankByAvailability", mock.Anything, []int64{1, 2}).Return(ranked, nil)

	w := doJSON(t, recipeRouter(svc), http.MethodGet, "/recipes/ranked?ingredient=1&ingredient=2", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]dto.RankedRecipeResponse](t, w)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, 0, got[0].Unlikeness)
	assert.Equal(t, 1, got[1].Unlikeness)
}

func TestRecipeHandler_Available(t *testing.T) {
	svc := new(MockRecipeService)
	svc.On("QueryAvailableByIngredients", mock.Anything, []int64{1, 2, 7}).
		Return([]dto.RecipeResponse{{ID: 1, Name: "A"}}, nil)

	w := doJSON(t, recipeRouter(svc), http.MethodGet, "/recipes/available?ingredient=1,2&ingredient=7", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.RecipeResponse](t, w), 1)
	svc.AssertExpectations(t)
}

func TestRecipeHandler_AvailableRejectsNonNumericIDs(t *testing.T) {
	svc := new(MockRecipeService)

	w := doJSON(t, recipeRouter(svc), http.MethodGet, "/recipes/available?ingredient=salt", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "QueryAvailableByIngredients", mock.Anything, mock.Anything)
}

func TestRecipeHandler_MissingIngredients(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockRecipeService)
		missing := []dto.MissingIngredientResponse{{ID: 9, IngredientID: 3, IngredientName: "salt"}}
		svc.On("QueryMissingIngredients", mock.Anything, int64(2), []int64{1, 2}).Return(missing, nil)

		w := doJSON(t, recipeRouter(svc), http.MethodGet, "/recipes/2/missing-ingredients?ingredient=1&ingredient=2", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		got := decode[[]dto.MissingIngredientResponse](t, w)
		require.Len(t, got, 1)
		assert.Equal(t, "salt", got[0].IngredientName)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		svc := new(MockRecipeService)
		svc.On("QueryMissingIngredients", mock.Anything, int64(99), []int64(nil)).
			Return(nil, fmt.Errorf("%w: recipe not found", service.ErrNotFound))

		w := doJSON(t, recipeRouter(svc), http.MethodGet, "/recipes/99/missing-ingredients", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doJSON(t, recipeRouter(new(MockRecipeService)), http.MethodGet, "/recipes/abc/missing-ingredients", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecipeHandler_ByCookTime(t *testing.T) {
	svc := new(MockRecipeService)
	svc.On("ListByCookTime", mock.Anything, "00:10:00").Return([]dto.RecipeResponse{{ID: 4}}, nil)
	svc.On("ListByCookTime", mock.Anything, "ten").
		Return(nil, fmt.Errorf("%w: bad cook time", service.ErrValidation))
	r := recipeRouter(svc)

	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/recipes/cook-time?cook_time=00:10:00", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/recipes/cook-time?cook_time=ten", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/recipes/cook-time", "", nil).Code)
}

func TestRecipeHandler_CreateNeedsToken(t *testing.T) {
	svc := new(MockRecipeService)
	body := dto.CreateRecipeRequest{Name: "Soup", RecipeCategoryID: 1}

	w := doJSON(t, recipeRouter(svc), http.MethodPost, "/recipes", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc.On("Create", mock.Anything, &policy.Actor{ID: "author-1"}, body).
		Return(&dto.RecipeResponse{ID: 5, AuthorID: "author-1", Name: "Soup"}, nil)

	w = doJSON(t, recipeRouter(svc), http.MethodPost, "/recipes", authorToken, body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "author-1", decode[dto.RecipeResponse](t, w).AuthorID)
}

func TestRecipeHandler_UpdateForbidden(t *testing.T) {
	svc := new(MockRecipeService)
	req := dto.UpdateRecipeRequest{Name: ptr("Stew")}
	svc.On("Update", mock.Anything, mock.Anything, int64(3), req).
		Return(nil, fmt.Errorf("%w: update recipe", service.ErrPermissionDenied))

	w := doJSON(t, recipeRouter(svc), http.MethodPatch, "/recipes/3", authorToken, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecipeHandler_Delete(t *testing.T) {
	svc := new(MockRecipeService)
	svc.On("Delete", mock.Anything, &policy.Actor{ID: "staff-1", IsStaff: true}, int64(3)).Return(nil)

	w := doJSON(t, recipeRouter(svc), http.MethodDelete, "/recipes/3", staffToken, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
