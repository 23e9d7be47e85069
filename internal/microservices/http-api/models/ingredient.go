package models

type Ingredient struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	// kcal/g
	FoodEnergy *float64 `json:"food_energy,omitempty" gorm:"type:decimal(4,2);check:food_energy > 0"`
	// percent, used for cocktail strength
	AlcoholByVolume *float64 `json:"alcohol_by_volume,omitempty" gorm:"type:decimal(4,2);check:alcohol_by_volume > 0"`
}

func (Ingredient) TableName() string {
	return "ingredient"
}
