package dto

import "recipehub/internal/microservices/http-api/models"

// RecipeIngredientRequest used for POST /api/recipe-ingredients
type RecipeIngredientRequest struct {
	RecipeID     int64   `json:"recipe_id" binding:"required,gt=0"`
	IngredientID int64   `json:"ingredient_id" binding:"required,gt=0"`
	MeasureID    int64   `json:"measure_id" binding:"required,gt=0"`
	Amount       float64 `json:"amount" binding:"required,gte=0.01,lte=9999999.99,cents"`
}

// UpdateRecipeIngredientRequest used for PATCH /api/recipe-ingredients/:id
type UpdateRecipeIngredientRequest struct {
	IngredientID *int64   `json:"ingredient_id,omitempty" binding:"omitempty,gt=0"`
	MeasureID    *int64   `json:"measure_id,omitempty" binding:"omitempty,gt=0"`
	Amount       *float64 `json:"amount,omitempty" binding:"omitempty,gte=0.01,lte=9999999.99,cents"`
}

type RecipeIngredientResponse struct {
	ID           int64   `json:"id"`
	AuthorID     string  `json:"author_id"`
	RecipeID     int64   `json:"recipe_id"`
	IngredientID int64   `json:"ingredient_id"`
	MeasureID    int64   `json:"measure_id"`
	Amount       float64 `json:"amount"`
}

// MissingIngredientResponse is one line a recipe needs but the caller lacks.
type MissingIngredientResponse struct {
	ID             int64   `json:"id"`
	IngredientID   int64   `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	MeasureID      int64   `json:"measure_id"`
	MeasureName    string  `json:"measure_name"`
	Amount         float64 `json:"amount"`
}

func (d RecipeIngredientRequest) ToModel() models.RecipeIngredient {
	return models.RecipeIngredient{
		RecipeID:     d.RecipeID,
		IngredientID: d.IngredientID,
		MeasureID:    d.MeasureID,
		Amount:       d.Amount,
	}
}

func (d UpdateRecipeIngredientRequest) ApplyTo(l *models.RecipeIngredient) {
	if d.IngredientID != nil {
		l.IngredientID = *d.IngredientID
	}
	if d.MeasureID != nil {
		l.MeasureID = *d.MeasureID
	}
	if d.Amount != nil {
		l.Amount = *d.Amount
	}
}

func FromRecipeIngredient(l models.RecipeIngredient) RecipeIngredientResponse {
	return RecipeIngredientResponse{
		ID:           l.ID,
		AuthorID:     l.AuthorID,
		RecipeID:     l.RecipeID,
		IngredientID: l.IngredientID,
		MeasureID:    l.MeasureID,
		Amount:       l.Amount,
	}
}

func FromMissingLine(l models.RecipeIngredient) MissingIngredientResponse {
	return MissingIngredientResponse{
		ID:             l.ID,
		IngredientID:   l.IngredientID,
		IngredientName: l.Ingredient.Name,
		MeasureID:      l.MeasureID,
		MeasureName:    l.Measure.Name,
		Amount:         l.Amount,
	}
}
