package models

// RecipeIngredient says a recipe needs Amount of an ingredient measured in a measure.
type RecipeIngredient struct {
	ID           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID     string  `json:"author_id" gorm:"type:uuid;not null;index"`
	RecipeID     int64   `json:"recipe_id" gorm:"not null;index"`
	IngredientID int64   `json:"ingredient_id" gorm:"not null;index"`
	MeasureID    int64   `json:"measure_id" gorm:"not null;index"`
	Amount       float64 `json:"amount" gorm:"type:decimal(9,2);not null;check:amount > 0"`

	Ingredient Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE;"`
	Measure    Measure    `json:"measure,omitempty" gorm:"foreignKey:MeasureID;constraint:OnDelete:CASCADE;"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredient"
}

func (ri RecipeIngredient) OwnerID() string { return ri.AuthorID }
