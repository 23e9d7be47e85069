package models

import "time"

// UserScore is one user's score for one recipe. (user_id, recipe_id) is unique.
type UserScore struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_score"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;uniqueIndex:idx_user_recipe_score;index"`
	Score     int       `json:"score" gorm:"not null;check:score >= 0 AND score <= 10"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (UserScore) TableName() string {
	return "user_recipe_score"
}

func (s UserScore) OwnerID() string { return s.UserID }
