package dto

import (
	"time"

	"recipehub/internal/microservices/http-api/models"
)

// ScoreRequest for creating or updating the caller's score on a recipe.
// Score is a pointer so that 0 passes the required check.
type ScoreRequest struct {
	RecipeID int64 `json:"recipe_id" binding:"required,gt=0"`
	Score    *int  `json:"score" binding:"required,min=0,max=10"`
}

// UpdateScoreRequest for PUT /api/scores/:id
type UpdateScoreRequest struct {
	Score *int `json:"score" binding:"required,min=0,max=10"`
}

type ScoreResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	RecipeID  int64     `json:"recipe_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingAggregateResponse is a recipe's rating state after a score change.
type RatingAggregateResponse struct {
	RecipeID     int64    `json:"recipe_id"`
	VoterTurnout *int     `json:"voter_turnout"`
	FullScore    *int     `json:"full_score"`
	Rating       *float64 `json:"rating"`
}

// RecordScoreResponse is returned by every score write.
type RecordScoreResponse struct {
	Score     *ScoreResponse          `json:"score,omitempty"` // nil after delete
	Created   bool                    `json:"created"`
	Aggregate RatingAggregateResponse `json:"aggregate"`
}

func FromScore(s models.UserScore) ScoreResponse {
	return ScoreResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		RecipeID:  s.RecipeID,
		Score:     s.Score,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func FromAggregate(recipeID int64, agg models.RatingAggregate) RatingAggregateResponse {
	return RatingAggregateResponse{
		RecipeID:     recipeID,
		VoterTurnout: agg.VoterTurnout,
		FullScore:    agg.FullScore,
		Rating:       agg.Rating,
	}
}
