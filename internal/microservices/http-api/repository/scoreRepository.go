package repository

import (
	"context"
	"fmt"
	"time"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreFilter narrows score listings. Zero values mean "any".
type ScoreFilter struct {
	RecipeID int64
	UserID   string
}

type ScoreRepository interface {
	GetByID(ctx context.Context, id int64) (*models.UserScore, error)
	GetAll(ctx context.Context, filter ScoreFilter, page, pageSize int) ([]models.UserScore, int64, error)
	// InRecipeTx runs fn in a transaction holding a row lock on the recipe,
	// so score writes and the aggregate update commit together or not at all.
	InRecipeTx(ctx context.Context, recipeID int64, fn func(tx ScoreTx) error) error
}

// ScoreTx is the set of writes available while a recipe row is locked.
type ScoreTx interface {
	Recipe() models.Recipe
	// ScorerActive share-locks the user row, so deactivating the user waits
	// for this transaction to commit.
	ScorerActive(userID string) (bool, error)
	FindByUserAndRecipe(userID string, recipeID int64) (*models.UserScore, error)
	FindByID(id int64) (*models.UserScore, error)
	Create(score *models.UserScore) error
	UpdateValue(score *models.UserScore, value int) error
	Delete(id int64) error
	SaveAggregate(agg models.RatingAggregate) error
}

type scoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) GetByID(ctx context.Context, id int64) (*models.UserScore, error) {
	var score models.UserScore
	if err := r.db.WithContext(ctx).First(&score, id).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *scoreRepository) GetAll(ctx context.Context, filter ScoreFilter, page, pageSize int) ([]models.UserScore, int64, error) {
	var scores []models.UserScore
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.RecipeID > 0 {
			db = db.Where("recipe_id = ?", filter.RecipeID)
		}
		if filter.UserID != "" {
			db = db.Where("user_id = ?", filter.UserID)
		}
		return db
	}

	if err := r.db.WithContext(ctx).Model(&models.UserScore{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count scores: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).Scopes(scope).
		Order("score asc, recipe_id asc, id asc").
		Limit(pageSize).
		Offset(offset).
		Find(&scores).Error; err != nil {
		return nil, 0, fmt.Errorf("list scores: %w", err)
	}
	return scores, total, nil
}

func (r *scoreRepository) InRecipeTx(ctx context.Context, recipeID int64, fn func(tx ScoreTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", recipeID).
			Take(&recipe).Error; err != nil {
			return err
		}
		return fn(&scoreTx{tx: tx, recipe: recipe})
	})
}

type scoreTx struct {
	tx     *gorm.DB
	recipe models.Recipe
}

func (s *scoreTx) Recipe() models.Recipe {
	return s.recipe
}

func (s *scoreTx) ScorerActive(userID string) (bool, error) {
	var user models.User
	if err := s.tx.Clauses(clause.Locking{Strength: "SHARE"}).
		Select("id", "is_active").
		Where("id = ?", userID).
		Take(&user).Error; err != nil {
		return false, err
	}
	return user.IsActive, nil
}

func (s *scoreTx) FindByUserAndRecipe(userID string, recipeID int64) (*models.UserScore, error) {
	var score models.UserScore
	if err := s.tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Take(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

func (s *scoreTx) FindByID(id int64) (*models.UserScore, error) {
	var score models.UserScore
	if err := s.tx.Where("id = ?", id).Take(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

func (s *scoreTx) Create(score *models.UserScore) error {
	if err := s.tx.Omit(clause.Associations).Create(score).Error; err != nil {
		return fmt.Errorf("create score: %w", err)
	}
	return nil
}

func (s *scoreTx) UpdateValue(score *models.UserScore, value int) error {
	now := time.Now().UTC()
	if err := s.tx.Model(&models.UserScore{}).
		Where("id = ?", score.ID).
		Updates(map[string]interface{}{"score": value, "updated_at": now}).Error; err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	score.Score = value
	score.UpdatedAt = now
	return nil
}

func (s *scoreTx) Delete(id int64) error {
	res := s.tx.Delete(&models.UserScore{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete score: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveAggregate writes turnout, full score and rating in a single statement.
func (s *scoreTx) SaveAggregate(agg models.RatingAggregate) error {
	updates := map[string]interface{}{
		"voter_turnout": agg.VoterTurnout,
		"full_score":    agg.FullScore,
		"rating":        agg.Rating,
		"updated_at":    time.Now().UTC(),
	}
	if err := s.tx.Model(&models.Recipe{}).Where("id = ?", s.recipe.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("save rating aggregate: %w", err)
	}
	s.recipe.VoterTurnout = agg.VoterTurnout
	s.recipe.FullScore = agg.FullScore
	s.recipe.Rating = agg.Rating
	return nil
}
