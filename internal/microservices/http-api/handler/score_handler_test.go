package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/policy"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockScoreService struct {
	mock.Mock
}

func (m *MockScoreService) RecordScore(ctx context.Context, userID string, recipeID int64, score int) (*dto.RecordScoreResponse, error) {
	args := m.Called(ctx, userID, recipeID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecordScoreResponse), args.Error(1)
}

func (m *MockScoreService) UpdateScore(ctx context.Context, actor *policy.Actor, scoreID int64, score int) (*dto.RecordScoreResponse, error) {
	args := m.Called(ctx, actor, scoreID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecordScoreResponse), args.Error(1)
}

func (m *MockScoreService) DeleteScore(ctx context.Context, actor *policy.Actor, scoreID int64) (*dto.RecordScoreResponse, error) {
	args := m.Called(ctx, actor, scoreID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecordScoreResponse), args.Error(1)
}

func (m *MockScoreService) GetScore(ctx context.Context, id int64) (*dto.ScoreResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ScoreResponse), args.Error(1)
}

func (m *MockScoreService) ListScores(ctx context.Context, filter repository.ScoreFilter, page, pageSize int) (*dto.Paginated[dto.ScoreResponse], error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ScoreResponse]), args.Error(1)
}

func (m *MockScoreService) RemoveAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func scoreRouter(svc service.ScoreService) *gin.Engine {
	r := setupRouter()
	rg, requireAuth := catalogGroup(r, "/scores")
	NewScoreHandler(svc).RegisterRoutes(rg, requireAuth)
	return r
}

func aggregate(recipeID int64, turnout, full int, rating float64) dto.RatingAggregateResponse {
	return dto.RatingAggregateResponse{
		RecipeID:     recipeID,
		VoterTurnout: &turnout,
		FullScore:    &full,
		Rating:       &rating,
	}
}

func TestScoreHandler_Record(t *testing.T) {
	t.Run("first score is created", func(t *testing.T) {
		svc := new(MockScoreService)
		svc.On("RecordScore", mock.Anything, "author-1", int64(7), 8).Return(&dto.RecordScoreResponse{
			Score:     &dto.ScoreResponse{ID: 1, UserID: "author-1", RecipeID: 7, Score: 8},
			Created:   true,
			Aggregate: aggregate(7, 1, 8, 8),
		}, nil)

		w := doJSON(t, scoreRouter(svc), http.MethodPost, "/scores", authorToken, dto.ScoreRequest{RecipeID: 7, Score: ptr(8)})

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decode[dto.RecordScoreResponse](t, w)
		assert.Equal(t, 1, *resp.Aggregate.VoterTurnout)
		assert.Equal(t, 8.0, *resp.Aggregate.Rating)
	})

	t.Run("resubmission replaces", func(t *testing.T) {
		svc := new(MockScoreService)
		svc.On("RecordScore", mock.Anything, "author-1", int64(7), 10).Return(&dto.RecordScoreResponse{
			Score:     &dto.ScoreResponse{ID: 1, UserID: "author-1", RecipeID: 7, Score: 10},
			Aggregate: aggregate(7, 2, 16, 8),
		}, nil)

		w := doJSON(t, scoreRouter(svc), http.MethodPost, "/scores", authorToken, dto.ScoreRequest{RecipeID: 7, Score: ptr(10)})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 16, *decode[dto.RecordScoreResponse](t, w).Aggregate.FullScore)
	})

	t.Run("zero is a valid score", func(t *testing.T) {
		svc := new(MockScoreService)
		svc.On("RecordScore", mock.Anything, "author-1", int64(7), 0).
			Return(&dto.RecordScoreResponse{Created: true, Aggregate: aggregate(7, 1, 0, 0)}, nil)

		w := doJSON(t, scoreRouter(svc), http.MethodPost, "/scores", authorToken, dto.ScoreRequest{RecipeID: 7, Score: ptr(0)})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("out of range", func(t *testing.T) {
		svc := new(MockScoreService)

		w := doJSON(t, scoreRouter(svc), http.MethodPost, "/scores", authorToken, dto.ScoreRequest{RecipeID: 7, Score: ptr(11)})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "RecordScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("conflict asks the client to retry", func(t *testing.T) {
		svc := new(MockScoreService)
		svc.On("RecordScore", mock.Anything, "author-1", int64(7), 5).
			Return(nil, fmt.Errorf("%w: retries exhausted", service.ErrConcurrencyConflict))

		w := doJSON(t, scoreRouter(svc), http.MethodPost, "/scores", authorToken, dto.ScoreRequest{RecipeID: 7, Score: ptr(5)})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
	})

	t.Run("anonymous", func(t *testing.T) {
		w := doJSON(t, scoreRouter(new(MockScoreService)), http.MethodPost, "/scores", "", dto.ScoreRequest{RecipeID: 7, Score: ptr(5)})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestScoreHandler_List(t *testing.T) {
	svc := new(MockScoreService)
	filter := repository.ScoreFilter{RecipeID: 7, UserID: "author-1"}
	svc.On("ListScores", mock.Anything, filter, 2, 100).
		Return(dto.NewPaginated([]dto.ScoreResponse{{ID: 1}}, 21, 2, 100), nil)

	w := doJSON(t, scoreRouter(svc), http.MethodGet, "/scores?recipe_id=7&user_id=author-1&page=2&page_size=500", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(21), decode[dto.Paginated[dto.ScoreResponse]](t, w).Total)

	w = doJSON(t, scoreRouter(svc), http.MethodGet, "/scores?recipe_id=x", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreHandler_Delete(t *testing.T) {
	svc := new(MockScoreService)
	staff := &policy.Actor{ID: "staff-1", IsStaff: true}
	svc.On("DeleteScore", mock.Anything, staff, int64(4)).
		Return(&dto.RecordScoreResponse{Aggregate: dto.RatingAggregateResponse{RecipeID: 7}}, nil)

	w := doJSON(t, scoreRouter(svc), http.MethodDelete, "/scores/4", staffToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.RecordScoreResponse](t, w)
	assert.Nil(t, resp.Score)
	assert.Nil(t, resp.Aggregate.VoterTurnout)
}
