package service

import (
	"context"
	"fmt"
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/policy"
	"recipehub/internal/microservices/http-api/repository"
)

type RecipeIngredientService interface {
	List(ctx context.Context, recipeID int64, page, pageSize int) (*dto.Paginated[dto.RecipeIngredientResponse], error)
	Get(ctx context.Context, id int64) (*dto.RecipeIngredientResponse, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.RecipeIngredientRequest) (*dto.RecipeIngredientResponse, error)
	Update(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateRecipeIngredientRequest) (*dto.RecipeIngredientResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, id int64) error
}

type recipeIngredientService struct {
	lines   *repository.RecipeIngredientRepo
	recipes *repository.RecipeRepo
	refs    lineRefs
}

func NewRecipeIngredientService(
	lines *repository.RecipeIngredientRepo,
	recipes *repository.RecipeRepo,
	ingredients *repository.IngredientRepo,
	measures *repository.NamedRepo[models.Measure],
) RecipeIngredientService {
	return &recipeIngredientService{
		lines:   lines,
		recipes: recipes,
		refs:    lineRefs{ingredients: ingredients, measures: measures},
	}
}

func (s *recipeIngredientService) List(ctx context.Context, recipeID int64, page, pageSize int) (*dto.Paginated[dto.RecipeIngredientResponse], error) {
	list, total, err := s.lines.GetAll(ctx, recipeID, page, pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeIngredientResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.FromRecipeIngredient(l))
	}
	return dto.NewPaginated(out, total, page, pageSize), nil
}

func (s *recipeIngredientService) Get(ctx context.Context, id int64) (*dto.RecipeIngredientResponse, error) {
	line, err := s.lines.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "recipe ingredient")
	}
	resp := dto.FromRecipeIngredient(*line)
	return &resp, nil
}

// Create adds a line to a recipe. Only the recipe's author or staff may.
func (s *recipeIngredientService) Create(ctx context.Context, actor *policy.Actor, req dto.RecipeIngredientRequest) (*dto.RecipeIngredientResponse, error) {
	if actor == nil || actor.ID == "" {
		return nil, denied("adding ingredients requires an authenticated user")
	}
	rec, err := s.recipes.GetByID(ctx, req.RecipeID)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("recipe %d", req.RecipeID))
	}
	if !policy.CheckWritePermission(http.MethodPost, actor, rec) {
		return nil, denied("only the recipe author or staff may add ingredients")
	}

	line := req.ToModel()
	line.AuthorID = actor.ID
	if err := s.refs.validateLine(ctx, &line); err != nil {
		return nil, err
	}
	if err := s.rejectDuplicate(ctx, &line); err != nil {
		return nil, err
	}
	if err := s.lines.Create(ctx, &line); err != nil {
		return nil, storeErr(err, "recipe ingredient")
	}
	resp := dto.FromRecipeIngredient(line)
	return &resp, nil
}

func (s *recipeIngredientService) Update(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateRecipeIngredientRequest) (*dto.RecipeIngredientResponse, error) {
	line, err := s.lines.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "recipe ingredient")
	}
	if !policy.CheckWritePermission(http.MethodPatch, actor, line) {
		return nil, denied("only the author or staff may change this line")
	}

	updated := models.RecipeIngredient{
		ID:           line.ID,
		AuthorID:     line.AuthorID,
		RecipeID:     line.RecipeID,
		IngredientID: line.IngredientID,
		MeasureID:    line.MeasureID,
		Amount:       line.Amount,
	}
	req.ApplyTo(&updated)
	if err := s.refs.validateLine(ctx, &updated); err != nil {
		return nil, err
	}
	if err := s.rejectDuplicate(ctx, &updated); err != nil {
		return nil, err
	}
	if err := s.lines.Update(ctx, &updated); err != nil {
		return nil, storeErr(err, "recipe ingredient")
	}
	resp := dto.FromRecipeIngredient(updated)
	return &resp, nil
}

func (s *recipeIngredientService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	line, err := s.lines.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "recipe ingredient")
	}
	if !policy.CheckWritePermission(http.MethodDelete, actor, line) {
		return denied("only the author or staff may delete this line")
	}
	return storeErr(s.lines.Delete(ctx, id), "recipe ingredient")
}

// rejectDuplicate enforces one line per (recipe, ingredient).
func (s *recipeIngredientService) rejectDuplicate(ctx context.Context, line *models.RecipeIngredient) error {
	dup, err := s.lines.HasIngredient(ctx, line.RecipeID, line.IngredientID, line.ID)
	if err != nil {
		return err
	}
	if dup {
		return validationErr("recipe %d already lists ingredient %d", line.RecipeID, line.IngredientID)
	}
	return nil
}
