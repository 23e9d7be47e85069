package models

import "time"

type Recipe struct {
	ID               int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID         string `json:"author_id" gorm:"type:uuid;not null;index"`
	RecipeCategoryID int64  `json:"recipe_category_id" gorm:"not null;index"`
	Name             string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	// stored in seconds, exposed as HH:MM:SS
	CookTimeSeconds *int      `json:"cook_time_seconds,omitempty" gorm:"index"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Aggregate fields. Only the score aggregator writes them.
	VoterTurnout *int     `json:"voter_turnout,omitempty"`
	FullScore    *int     `json:"full_score,omitempty"`
	Rating       *float64 `json:"rating,omitempty" gorm:"type:decimal(4,2);check:rating >= 0 AND rating <= 10"`

	// Filled from ingredient composition by an external process.
	FoodEnergy      *float64 `json:"food_energy,omitempty" gorm:"type:decimal(4,2)"`
	AlcoholByVolume *float64 `json:"alcohol_by_volume,omitempty" gorm:"type:decimal(4,2)"`

	// Associations
	Author            User               `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	RecipeCategory    RecipeCategory     `json:"-" gorm:"foreignKey:RecipeCategoryID;constraint:OnDelete:CASCADE;"`
	RecipeIngredients []RecipeIngredient `json:"recipe_ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (Recipe) TableName() string {
	return "recipe"
}

func (r Recipe) OwnerID() string { return r.AuthorID }

// Aggregate returns the recipe's current rating state.
func (r Recipe) Aggregate() RatingAggregate {
	return RatingAggregate{
		VoterTurnout: r.VoterTurnout,
		FullScore:    r.FullScore,
		Rating:       r.Rating,
	}
}
