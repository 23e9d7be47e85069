package repository

import (
	"context"
	"fmt"
	"sort"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeMatch is a recipe tagged with the number of its required
// ingredients missing from a candidate set.
type RecipeMatch struct {
	Recipe     models.Recipe
	Unlikeness int
}

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

func (r *RecipeRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Recipe, int64, error) {
	var list []models.Recipe
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Preload("RecipeIngredients", orderLines).
		Order("name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return list, total, nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var rec models.Recipe
	if err := r.db.WithContext(ctx).Preload("RecipeIngredients", orderLines).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecipeRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check recipe: %w", err)
	}
	return n > 0, nil
}

// Create inserts the recipe and its ingredient lines in one transaction.
func (r *RecipeRepo) Create(ctx context.Context, rec *models.Recipe, lines []models.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		for i := range lines {
			lines[i].RecipeID = rec.ID
			if lines[i].AuthorID == "" {
				lines[i].AuthorID = rec.AuthorID
			}
			if err := tx.Omit(clause.Associations).Create(&lines[i]).Error; err != nil {
				return fmt.Errorf("create recipe ingredient: %w", err)
			}
		}
		rec.RecipeIngredients = lines
		return nil
	})
}

// Update writes the client-editable columns only. Aggregate fields are
// owned by the score aggregator and never touched here.
func (r *RecipeRepo) Update(ctx context.Context, rec *models.Recipe) error {
	res := r.db.WithContext(ctx).
		Model(&models.Recipe{ID: rec.ID}).
		Select("name", "recipe_category_id", "cook_time_seconds").
		Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the recipe together with its lines and scores.
func (r *RecipeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.UserScore{}).Error; err != nil {
			return fmt.Errorf("delete recipe scores: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete recipe ingredients: %w", err)
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// WithCookTimeAtMost returns recipes whose cook time is set and does not
// exceed seconds.
func (r *RecipeRepo) WithCookTimeAtMost(ctx context.Context, seconds int) ([]models.Recipe, error) {
	var list []models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("RecipeIngredients", orderLines).
		Where("cook_time_seconds IS NOT NULL AND cook_time_seconds <= ?", seconds).
		Order("cook_time_seconds asc, name asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("recipes by cook time: %w", err)
	}
	return list, nil
}

// WithUnlikeness returns every recipe sharing at least one ingredient with
// ingredientIDs, ordered by unlikeness ascending (ties by recipe id).
//
// Unlikeness is computed in the database as one grouped pass over
// recipe_ingredient:
//
//	unlikeness = COUNT(DISTINCT ingredient_id) over lines NOT IN the set
//	qualifies  = COUNT(lines IN the set) > 0
//
// so the full ingredient list of non-matching recipes is never loaded.
func (r *RecipeRepo) WithUnlikeness(ctx context.Context, ingredientIDs []int64) ([]RecipeMatch, error) {
	return r.match(ctx, ingredientIDs, false)
}

// AvailableByIngredients returns recipes whose every required ingredient
// is in ingredientIDs.
func (r *RecipeRepo) AvailableByIngredients(ctx context.Context, ingredientIDs []int64) ([]models.Recipe, error) {
	matches, err := r.match(ctx, ingredientIDs, true)
	if err != nil {
		return nil, err
	}
	list := make([]models.Recipe, 0, len(matches))
	for _, m := range matches {
		list = append(list, m.Recipe)
	}
	return list, nil
}

// MissingIngredients returns the lines of a recipe whose ingredient is not
// in ingredientIDs.
func (r *RecipeRepo) MissingIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) ([]models.RecipeIngredient, error) {
	var lines []models.RecipeIngredient
	q := r.db.WithContext(ctx).
		Preload("Ingredient").
		Preload("Measure").
		Where("recipe_id = ?", recipeID)
	if ids := uniqueIDs(ingredientIDs); len(ids) > 0 {
		q = q.Where("ingredient_id NOT IN ?", ids)
	}
	if err := q.Order("ingredient_id asc, id asc").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("missing ingredients: %w", err)
	}
	return lines, nil
}

type unlikenessRow struct {
	RecipeID   int64
	Unlikeness int
}

func (r *RecipeRepo) match(ctx context.Context, ingredientIDs []int64, onlyAvailable bool) ([]RecipeMatch, error) {
	ids := uniqueIDs(ingredientIDs)
	if len(ids) == 0 {
		// no overlap is possible
		return []RecipeMatch{}, nil
	}

	const missing = "COUNT(DISTINCT CASE WHEN ingredient_id NOT IN ? THEN ingredient_id END)"

	q := r.db.WithContext(ctx).
		Table(models.RecipeIngredient{}.TableName()).
		Select("recipe_id, "+missing+" AS unlikeness", ids).
		Group("recipe_id")
	if onlyAvailable {
		q = q.Having("COUNT(CASE WHEN ingredient_id IN ? THEN 1 END) > 0 AND "+missing+" = 0", ids, ids)
	} else {
		q = q.Having("COUNT(CASE WHEN ingredient_id IN ? THEN 1 END) > 0", ids)
	}

	var rows []unlikenessRow
	if err := q.Order("unlikeness asc, recipe_id asc").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("rank recipes by availability: %w", err)
	}
	if len(rows) == 0 {
		return []RecipeMatch{}, nil
	}

	recipeIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		recipeIDs = append(recipeIDs, row.RecipeID)
	}
	var recipes []models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("RecipeIngredients", orderLines).
		Where("id IN ?", recipeIDs).
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("load matched recipes: %w", err)
	}
	byID := make(map[int64]models.Recipe, len(recipes))
	for _, rec := range recipes {
		byID[rec.ID] = rec
	}

	out := make([]RecipeMatch, 0, len(rows))
	for _, row := range rows {
		rec, ok := byID[row.RecipeID]
		if !ok {
			// deleted between the two reads
			continue
		}
		out = append(out, RecipeMatch{Recipe: rec, Unlikeness: row.Unlikeness})
	}
	return out, nil
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("recipe_ingredient.ingredient_id asc, recipe_ingredient.id asc")
}

// uniqueIDs drops duplicates and non-positive ids, returning a sorted slice.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
