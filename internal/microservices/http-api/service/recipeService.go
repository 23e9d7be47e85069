package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/policy"
	"recipehub/internal/microservices/http-api/repository"
)

type RecipeService interface {
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.RecipeResponse], error)
	Get(ctx context.Context, id int64) (*dto.RecipeResponse, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error)
	Update(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateRecipeRequest) (*dto.RecipeResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, id int64) error

	// QueryAvailableByIngredients returns recipes whose every ingredient is
	// in ingredientIDs.
	QueryAvailableByIngredients(ctx context.Context, ingredientIDs []int64) ([]dto.RecipeResponse, error)
	// RankByAvailability returns recipes sharing at least one ingredient with
	// ingredientIDs, fewest missing ingredients first.
	RankByAvailability(ctx context.Context, ingredientIDs []int64) ([]dto.RankedRecipeResponse, error)
	// QueryMissingIngredients returns the recipe's lines not covered by
	// ingredientIDs.
	QueryMissingIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) ([]dto.MissingIngredientResponse, error)
	// ListByCookTime returns recipes cooked within cookTime ("HH:MM:SS").
	ListByCookTime(ctx context.Context, cookTime string) ([]dto.RecipeResponse, error)
}

type recipeService struct {
	lineRefs
	recipes    *repository.RecipeRepo
	categories *repository.NamedRepo[models.RecipeCategory]
}

// lineRefs checks what a recipe ingredient line points at.
type lineRefs struct {
	ingredients *repository.IngredientRepo
	measures    *repository.NamedRepo[models.Measure]
}

func NewRecipeService(
	recipes *repository.RecipeRepo,
	ingredients *repository.IngredientRepo,
	measures *repository.NamedRepo[models.Measure],
	categories *repository.NamedRepo[models.RecipeCategory],
) RecipeService {
	return &recipeService{
		lineRefs:   lineRefs{ingredients: ingredients, measures: measures},
		recipes:    recipes,
		categories: categories,
	}
}

func (s *recipeService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.RecipeResponse], error) {
	list, total, err := s.recipes.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(dto.FromRecipes(list), total, page, pageSize), nil
}

func (s *recipeService) Get(ctx context.Context, id int64) (*dto.RecipeResponse, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "recipe")
	}
	resp := dto.FromRecipe(*rec)
	return &resp, nil
}

func (s *recipeService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error) {
	if actor == nil || actor.ID == "" {
		return nil, denied("creating a recipe requires an authenticated user")
	}

	rec := models.Recipe{
		AuthorID:         actor.ID,
		RecipeCategoryID: req.RecipeCategoryID,
		Name:             strings.TrimSpace(req.Name),
	}
	if err := checkVar("name", rec.Name, nameRule); err != nil {
		return nil, err
	}
	if req.CookTime != nil {
		secs, err := dto.ParseCookTime(*req.CookTime)
		if err != nil {
			return nil, validationErr("%v", err)
		}
		rec.CookTimeSeconds = &secs
	}
	if err := s.requireCategory(ctx, rec.RecipeCategoryID); err != nil {
		return nil, err
	}

	lines := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	seen := make(map[int64]bool, len(req.Ingredients))
	for _, in := range req.Ingredients {
		if seen[in.IngredientID] {
			return nil, validationErr("ingredient %d listed twice", in.IngredientID)
		}
		seen[in.IngredientID] = true
		line := models.RecipeIngredient{
			AuthorID:     actor.ID,
			IngredientID: in.IngredientID,
			MeasureID:    in.MeasureID,
			Amount:       in.Amount,
		}
		if err := s.validateLine(ctx, &line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if err := s.recipes.Create(ctx, &rec, lines); err != nil {
		return nil, storeErr(err, "recipe "+rec.Name)
	}
	return s.Get(ctx, rec.ID)
}

func (s *recipeService) Update(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateRecipeRequest) (*dto.RecipeResponse, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "recipe")
	}
	if !policy.CheckWritePermission(http.MethodPatch, actor, rec) {
		return nil, denied("only the author or staff may change this recipe")
	}

	if req.Name != nil {
		rec.Name = strings.TrimSpace(*req.Name)
		if err := checkVar("name", rec.Name, nameRule); err != nil {
			return nil, err
		}
	}
	if req.RecipeCategoryID != nil && *req.RecipeCategoryID != rec.RecipeCategoryID {
		if err := s.requireCategory(ctx, *req.RecipeCategoryID); err != nil {
			return nil, err
		}
		rec.RecipeCategoryID = *req.RecipeCategoryID
	}
	if req.CookTime != nil {
		if *req.CookTime == "" {
			rec.CookTimeSeconds = nil
		} else {
			secs, err := dto.ParseCookTime(*req.CookTime)
			if err != nil {
				return nil, validationErr("%v", err)
			}
			rec.CookTimeSeconds = &secs
		}
	}

	if err := s.recipes.Update(ctx, &models.Recipe{
		ID:               rec.ID,
		Name:             rec.Name,
		RecipeCategoryID: rec.RecipeCategoryID,
		CookTimeSeconds:  rec.CookTimeSeconds,
	}); err != nil {
		return nil, storeErr(err, "recipe "+rec.Name)
	}
	return s.Get(ctx, id)
}

func (s *recipeService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "recipe")
	}
	if !policy.CheckWritePermission(http.MethodDelete, actor, rec) {
		return denied("only the author or staff may delete this recipe")
	}
	return storeErr(s.recipes.Delete(ctx, id), "recipe")
}

func (s *recipeService) QueryAvailableByIngredients(ctx context.Context, ingredientIDs []int64) ([]dto.RecipeResponse, error) {
	list, err := s.recipes.AvailableByIngredients(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	return dto.FromRecipes(list), nil
}

func (s *recipeService) RankByAvailability(ctx context.Context, ingredientIDs []int64) ([]dto.RankedRecipeResponse, error) {
	matches, err := s.recipes.WithUnlikeness(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RankedRecipeResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, dto.RankedRecipeResponse{
			RecipeResponse: dto.FromRecipe(m.Recipe),
			Unlikeness:     m.Unlikeness,
		})
	}
	return out, nil
}

func (s *recipeService) QueryMissingIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) ([]dto.MissingIngredientResponse, error) {
	ok, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(fmt.Sprintf("recipe %d not found", recipeID))
	}
	lines, err := s.recipes.MissingIngredients(ctx, recipeID, ingredientIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MissingIngredientResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.FromMissingLine(l))
	}
	return out, nil
}

func (s *recipeService) ListByCookTime(ctx context.Context, cookTime string) ([]dto.RecipeResponse, error) {
	secs, err := dto.ParseCookTime(cookTime)
	if err != nil {
		return nil, validationErr("%v", err)
	}
	list, err := s.recipes.WithCookTimeAtMost(ctx, secs)
	if err != nil {
		return nil, err
	}
	return dto.FromRecipes(list), nil
}

func (s *recipeService) requireCategory(ctx context.Context, id int64) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(fmt.Sprintf("recipe category %d not found", id))
	}
	return nil
}

// validateLine checks the amount and that the referenced ingredient and
// measure exist.
func (s lineRefs) validateLine(ctx context.Context, line *models.RecipeIngredient) error {
	if err := checkVar("amount", line.Amount, amountRule); err != nil {
		return err
	}
	ok, err := s.ingredients.Exists(ctx, line.IngredientID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(fmt.Sprintf("ingredient %d not found", line.IngredientID))
	}
	ok, err = s.measures.Exists(ctx, line.MeasureID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(fmt.Sprintf("measure %d not found", line.MeasureID))
	}
	return nil
}
