package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipehub/internal/microservices/http-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankedRecipes_SendsIngredientParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recipes/ranked", r.URL.Path)
		assert.Equal(t, []string{"1", "2"}, r.URL.Query()["ingredient"])
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]dto.RankedRecipeResponse{
			{RecipeResponse: dto.RecipeResponse{ID: 1, Name: "A"}, Unlikeness: 0},
			{RecipeResponse: dto.RecipeResponse{ID: 2, Name: "B"}, Unlikeness: 1},
		})
	}))
	defer srv.Close()

	got, err := NewHTTPClient(srv.URL+"/").RankedRecipes(context.Background(), []int64{1, 2})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, 1, got[1].Unlikeness)
}

func TestRecordScore_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req dto.ScoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.RecipeID)
		require.NotNil(t, req.Score)
		assert.Equal(t, 0, *req.Score)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.RecordScoreResponse{Created: true})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("tok")
	got, err := c.RecordScore(context.Background(), 7, 0)

	require.NoError(t, err)
	assert.True(t, got.Created)
}

func TestDo_ReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found: recipe not found"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).GetRecipe(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "recipe not found")
}

func TestListScores_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "7", q.Get("recipe_id"))
		assert.Empty(t, q.Get("user_id"))
		assert.Equal(t, "2", q.Get("page"))
		_ = json.NewEncoder(w).Encode(dto.NewPaginated([]dto.ScoreResponse{{ID: 3, Score: 9}}, 1, 2, 20))
	}))
	defer srv.Close()

	got, err := NewHTTPClient(srv.URL).ListScores(context.Background(), 7, "", 2, 20)

	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.Equal(t, 9, got.Data[0].Score)
}
