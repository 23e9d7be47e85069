package repository

import (
	"context"
	"fmt"
	"strings"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db: db}
}

// GetAll lists ingredients ordered by name. A non-empty search matches
// names case-insensitively.
func (r *IngredientRepo) GetAll(ctx context.Context, search string, page, pageSize int) ([]models.Ingredient, int64, error) {
	var list []models.Ingredient
	var total int64

	byName := func(db *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(search); s != "" {
			return db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		return db
	}
	if err := r.db.WithContext(ctx).Model(&models.Ingredient{}).Scopes(byName).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count ingredients: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).Scopes(byName).Order("name asc").Limit(pageSize).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list ingredients: %w", err)
	}
	return list, total, nil
}

func (r *IngredientRepo) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *IngredientRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check ingredient: %w", err)
	}
	return n > 0, nil
}

func (r *IngredientRepo) Create(ctx context.Context, ing *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ing).Error; err != nil {
		return fmt.Errorf("create ingredient: %w", err)
	}
	return nil
}

// Update writes every mutable column, so nil nutrition values clear them.
func (r *IngredientRepo) Update(ctx context.Context, ing *models.Ingredient) error {
	res := r.db.WithContext(ctx).
		Model(&models.Ingredient{ID: ing.ID}).
		Select("name", "food_energy", "alcohol_by_volume").
		Updates(ing)
	if res.Error != nil {
		return fmt.Errorf("update ingredient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *IngredientRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Ingredient{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete ingredient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
