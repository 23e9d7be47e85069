package repository

import (
	"context"
	"fmt"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeIngredientRepo struct {
	db *gorm.DB
}

func NewRecipeIngredientRepo(db *gorm.DB) *RecipeIngredientRepo {
	return &RecipeIngredientRepo{db: db}
}

// GetAll lists lines, optionally restricted to one recipe (recipeID > 0).
func (r *RecipeIngredientRepo) GetAll(ctx context.Context, recipeID int64, page, pageSize int) ([]models.RecipeIngredient, int64, error) {
	var list []models.RecipeIngredient
	var total int64

	byRecipe := func(db *gorm.DB) *gorm.DB {
		if recipeID > 0 {
			return db.Where("recipe_id = ?", recipeID)
		}
		return db
	}
	if err := r.db.WithContext(ctx).Model(&models.RecipeIngredient{}).Scopes(byRecipe).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipe ingredients: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).Scopes(byRecipe).
		Preload("Ingredient").
		Preload("Measure").
		Order("recipe_id asc, ingredient_id asc, id asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list recipe ingredients: %w", err)
	}
	return list, total, nil
}

func (r *RecipeIngredientRepo) GetByID(ctx context.Context, id int64) (*models.RecipeIngredient, error) {
	var line models.RecipeIngredient
	if err := r.db.WithContext(ctx).Preload("Ingredient").Preload("Measure").First(&line, id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// HasIngredient reports whether the recipe already has a line for the
// ingredient, ignoring the line with id excludeID.
func (r *RecipeIngredientRepo) HasIngredient(ctx context.Context, recipeID, ingredientID, excludeID int64) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Where("recipe_id = ? AND ingredient_id = ?", recipeID, ingredientID)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check recipe ingredient: %w", err)
	}
	return n > 0, nil
}

func (r *RecipeIngredientRepo) Create(ctx context.Context, line *models.RecipeIngredient) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error; err != nil {
		return fmt.Errorf("create recipe ingredient: %w", err)
	}
	return nil
}

func (r *RecipeIngredientRepo) Update(ctx context.Context, line *models.RecipeIngredient) error {
	res := r.db.WithContext(ctx).
		Model(&models.RecipeIngredient{ID: line.ID}).
		Select("recipe_id", "ingredient_id", "measure_id", "amount").
		Updates(line)
	if res.Error != nil {
		return fmt.Errorf("update recipe ingredient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RecipeIngredientRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.RecipeIngredient{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete recipe ingredient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
