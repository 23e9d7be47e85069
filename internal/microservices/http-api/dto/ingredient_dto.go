package dto

import "recipehub/internal/microservices/http-api/models"

// IngredientRequest used for POST /api/ingredients and PUT /api/ingredients/:id
type IngredientRequest struct {
	Name            string   `json:"name" binding:"required,max=100"`
	FoodEnergy      *float64 `json:"food_energy,omitempty" binding:"omitempty,gte=0.01,lte=99.99,cents"`
	AlcoholByVolume *float64 `json:"alcohol_by_volume,omitempty" binding:"omitempty,gte=0.01,lte=99.99,cents"`
}

type IngredientResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	FoodEnergy      *float64 `json:"food_energy,omitempty"`
	AlcoholByVolume *float64 `json:"alcohol_by_volume,omitempty"`
}

func (d IngredientRequest) ToModel() models.Ingredient {
	return models.Ingredient{
		Name:            d.Name,
		FoodEnergy:      d.FoodEnergy,
		AlcoholByVolume: d.AlcoholByVolume,
	}
}

func FromIngredient(i models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              i.ID,
		Name:            i.Name,
		FoodEnergy:      i.FoodEnergy,
		AlcoholByVolume: i.AlcoholByVolume,
	}
}
