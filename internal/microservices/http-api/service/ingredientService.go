package service

import (
	"context"
	"net/http"
	"strings"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/policy"
	"recipehub/internal/microservices/http-api/repository"
)

type IngredientService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.IngredientResponse], error)
	Get(ctx context.Context, id int64) (*dto.IngredientResponse, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.IngredientRequest) (*dto.IngredientResponse, error)
	Update(ctx context.Context, actor *policy.Actor, id int64, req dto.IngredientRequest) (*dto.IngredientResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, id int64) error
}

type ingredientService struct {
	repo *repository.IngredientRepo
}

func NewIngredientService(repo *repository.IngredientRepo) IngredientService {
	return &ingredientService{repo: repo}
}

func (s *ingredientService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.IngredientResponse], error) {
	list, total, err := s.repo.GetAll(ctx, strings.TrimSpace(search), page, pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IngredientResponse, 0, len(list))
	for _, i := range list {
		out = append(out, dto.FromIngredient(i))
	}
	return dto.NewPaginated(out, total, page, pageSize), nil
}

func (s *ingredientService) Get(ctx context.Context, id int64) (*dto.IngredientResponse, error) {
	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "ingredient")
	}
	resp := dto.FromIngredient(*ing)
	return &resp, nil
}

func (s *ingredientService) Create(ctx context.Context, actor *policy.Actor, req dto.IngredientRequest) (*dto.IngredientResponse, error) {
	if !policy.StaffWriteOnly(http.MethodPost, actor) {
		return nil, denied("only staff may create ingredients")
	}
	ing := req.ToModel()
	if err := validateIngredient(&ing); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &ing); err != nil {
		return nil, storeErr(err, "ingredient "+ing.Name)
	}
	resp := dto.FromIngredient(ing)
	return &resp, nil
}

func (s *ingredientService) Update(ctx context.Context, actor *policy.Actor, id int64, req dto.IngredientRequest) (*dto.IngredientResponse, error) {
	if !policy.StaffWriteOnly(http.MethodPut, actor) {
		return nil, denied("only staff may change ingredients")
	}
	ing := req.ToModel()
	ing.ID = id
	if err := validateIngredient(&ing); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &ing); err != nil {
		return nil, storeErr(err, "ingredient")
	}
	resp := dto.FromIngredient(ing)
	return &resp, nil
}

func (s *ingredientService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	if !policy.StaffWriteOnly(http.MethodDelete, actor) {
		return denied("only staff may delete ingredients")
	}
	return storeErr(s.repo.Delete(ctx, id), "ingredient")
}

func validateIngredient(ing *models.Ingredient) error {
	ing.Name = strings.TrimSpace(ing.Name)
	if err := checkVar("name", ing.Name, nameRule); err != nil {
		return err
	}
	if ing.FoodEnergy != nil {
		if err := checkVar("food_energy", *ing.FoodEnergy, percentRule); err != nil {
			return err
		}
	}
	if ing.AlcoholByVolume != nil {
		if err := checkVar("alcohol_by_volume", *ing.AlcoholByVolume, percentRule); err != nil {
			return err
		}
	}
	return nil
}
