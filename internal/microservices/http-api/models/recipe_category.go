package models

// RecipeCategory groups recipes (salad, soup, cocktail...).
type RecipeCategory struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`
}

func (RecipeCategory) TableName() string {
	return "recipe_category"
}

func (rc RecipeCategory) GetID() int64 { return rc.ID }

func (rc RecipeCategory) GetName() string { return rc.Name }

func (rc *RecipeCategory) SetName(name string) { rc.Name = name }
