package service

import (
	"testing"

	"recipehub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireAggregate(t *testing.T, agg models.RatingAggregate, turnout, full int, rating float64) {
	t.Helper()
	require.NotNil(t, agg.VoterTurnout)
	require.NotNil(t, agg.FullScore)
	require.NotNil(t, agg.Rating)
	assert.Equal(t, turnout, *agg.VoterTurnout)
	assert.Equal(t, full, *agg.FullScore)
	assert.InDelta(t, rating, *agg.Rating, 1e-9)
}

func TestAggregate_ScoreLifecycle(t *testing.T) {
	agg := models.RatingAggregate{}

	agg = onScoreCreated(agg, 8)
	requireAggregate(t, agg, 1, 8, 8.00)

	agg = onScoreCreated(agg, 6)
	requireAggregate(t, agg, 2, 14, 7.00)

	agg = onScoreUpdated(agg, 8, 10)
	requireAggregate(t, agg, 2, 16, 8.00)

	agg = onScoreDeleted(agg, 10)
	requireAggregate(t, agg, 1, 6, 6.00)

	agg = onScoreDeleted(agg, 6)
	assert.Nil(t, agg.VoterTurnout)
	assert.Nil(t, agg.FullScore)
	assert.Nil(t, agg.Rating)
}

func TestAggregate_RoundsToTwoDecimals(t *testing.T) {
	agg := models.RatingAggregate{}
	for _, v := range []int{1, 0, 1} {
		agg = onScoreCreated(agg, v)
	}
	requireAggregate(t, agg, 3, 2, 0.67)

	agg = onScoreCreated(models.RatingAggregate{}, 0)
	requireAggregate(t, agg, 1, 0, 0)
}

func TestAggregate_SumMatchesSubmissions(t *testing.T) {
	values := []int{3, 9, 10, 0, 7, 7, 2}
	agg := models.RatingAggregate{}
	sum := 0
	for _, v := range values {
		agg = onScoreCreated(agg, v)
		sum += v
	}
	requireAggregate(t, agg, len(values), sum, roundRating(sum, len(values)))
	assert.InDelta(t, 5.43, *agg.Rating, 1e-9)
}

func TestAggregate_UpdateDoesNotTouchInput(t *testing.T) {
	turnout, full, rating := 2, 14, 7.0
	before := models.RatingAggregate{VoterTurnout: &turnout, FullScore: &full, Rating: &rating}

	after := onScoreUpdated(before, 6, 9)
	requireAggregate(t, after, 2, 17, 8.5)
	assert.Equal(t, 14, full, "previous aggregate is left untouched")
}
