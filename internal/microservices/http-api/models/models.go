package models

// All lists every model the store migrates, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&Measure{},
		&Ingredient{},
		&RecipeCategory{},
		&Recipe{},
		&RecipeIngredient{},
		&UserScore{},
	}
}

// Named is satisfied by pointers to name-only reference entities.
type Named[T any] interface {
	*T
	GetID() int64
	GetName() string
	SetName(name string)
}

// RatingAggregate is the running score state kept on a recipe.
// Rating is nil until at least one score exists.
type RatingAggregate struct {
	VoterTurnout *int
	FullScore    *int
	Rating       *float64
}
