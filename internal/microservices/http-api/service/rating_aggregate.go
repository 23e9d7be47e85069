package service

import (
	"math"

	"recipehub/internal/microservices/http-api/models"
)

// applyScoreChange moves a recipe's rating aggregate by the given turnout and
// score deltas. Rating is recomputed from the new sums and rounded to two
// decimals. A turnout at or below zero clears every field.
func applyScoreChange(agg models.RatingAggregate, turnoutDelta, scoreDelta int) models.RatingAggregate {
	turnout := turnoutDelta
	if agg.VoterTurnout != nil {
		turnout += *agg.VoterTurnout
	}
	full := scoreDelta
	if agg.FullScore != nil {
		full += *agg.FullScore
	}
	if turnout <= 0 {
		return models.RatingAggregate{}
	}
	rating := roundRating(full, turnout)
	return models.RatingAggregate{
		VoterTurnout: &turnout,
		FullScore:    &full,
		Rating:       &rating,
	}
}

func onScoreCreated(agg models.RatingAggregate, score int) models.RatingAggregate {
	return applyScoreChange(agg, 1, score)
}

func onScoreUpdated(agg models.RatingAggregate, oldScore, newScore int) models.RatingAggregate {
	return applyScoreChange(agg, 0, newScore-oldScore)
}

func onScoreDeleted(agg models.RatingAggregate, oldScore int) models.RatingAggregate {
	return applyScoreChange(agg, -1, -oldScore)
}

func roundRating(full, turnout int) float64 {
	return math.Round(float64(full)/float64(turnout)*100) / 100
}
