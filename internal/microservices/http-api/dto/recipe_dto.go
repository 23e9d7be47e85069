package dto

import (
	"time"

	"recipehub/internal/microservices/http-api/models"
)

// RecipeLineInput is one nested ingredient line on recipe create.
type RecipeLineInput struct {
	IngredientID int64   `json:"ingredient_id" binding:"required,gt=0"`
	MeasureID    int64   `json:"measure_id" binding:"required,gt=0"`
	Amount       float64 `json:"amount" binding:"required,gte=0.01,lte=9999999.99,cents"`
}

// CreateRecipeRequest used for POST /api/recipes
type CreateRecipeRequest struct {
	Name             string            `json:"name" binding:"required,max=100"`
	RecipeCategoryID int64             `json:"recipe_category_id" binding:"required,gt=0"`
	CookTime         *string           `json:"cook_time,omitempty"` // HH:MM:SS
	Ingredients      []RecipeLineInput `json:"recipe_ingredients,omitempty" binding:"omitempty,dive"`
}

// UpdateRecipeRequest used for PATCH /api/recipes/:id (partial updates allowed)
type UpdateRecipeRequest struct {
	Name             *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	RecipeCategoryID *int64  `json:"recipe_category_id,omitempty" binding:"omitempty,gt=0"`
	CookTime         *string `json:"cook_time,omitempty"`
}

// RecipeResponse is the fixed shape of a single recipe.
type RecipeResponse struct {
	ID                int64                      `json:"id"`
	AuthorID          string                     `json:"author_id"`
	RecipeCategoryID  int64                      `json:"recipe_category_id"`
	Name              string                     `json:"name"`
	CookTime          *string                    `json:"cook_time"`
	VoterTurnout      *int                       `json:"voter_turnout"`
	FullScore         *int                       `json:"full_score"`
	Rating            *float64                   `json:"rating"`
	FoodEnergy        *float64                   `json:"food_energy"`
	AlcoholByVolume   *float64                   `json:"alcohol_by_volume"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
	RecipeIngredients []RecipeIngredientResponse `json:"recipe_ingredients"`
}

// RankedRecipeResponse is a recipe tagged with how many of its ingredients
// are missing from the queried set.
type RankedRecipeResponse struct {
	RecipeResponse
	Unlikeness int `json:"unlikeness"`
}

func FromRecipe(r models.Recipe) RecipeResponse {
	lines := make([]RecipeIngredientResponse, 0, len(r.RecipeIngredients))
	for _, l := range r.RecipeIngredients {
		lines = append(lines, FromRecipeIngredient(l))
	}
	return RecipeResponse{
		ID:                r.ID,
		AuthorID:          r.AuthorID,
		RecipeCategoryID:  r.RecipeCategoryID,
		Name:              r.Name,
		CookTime:          FormatCookTime(r.CookTimeSeconds),
		VoterTurnout:      r.VoterTurnout,
		FullScore:         r.FullScore,
		Rating:            r.Rating,
		FoodEnergy:        r.FoodEnergy,
		AlcoholByVolume:   r.AlcoholByVolume,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		RecipeIngredients: lines,
	}
}

func FromRecipes(list []models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromRecipe(r))
	}
	return out
}
