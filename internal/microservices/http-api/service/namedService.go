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

// NamedService manages a name-only reference entity. Writes are staff only.
type NamedService interface {
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.NamedResponse], error)
	Get(ctx context.Context, id int64) (*dto.NamedResponse, error)
	Create(ctx context.Context, actor *policy.Actor, name string) (*dto.NamedResponse, error)
	Rename(ctx context.Context, actor *policy.Actor, id int64, name string) (*dto.NamedResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, id int64) error
}

type namedService[T any, PT models.Named[T]] struct {
	repo  *repository.NamedRepo[T]
	label string
}

// NewNamedService builds the service for measures or recipe categories;
// label names the entity in errors.
func NewNamedService[T any, PT models.Named[T]](repo *repository.NamedRepo[T], label string) NamedService {
	return &namedService[T, PT]{repo: repo, label: label}
}

func (s *namedService[T, PT]) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.NamedResponse], error) {
	list, total, err := s.repo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedResponse, 0, len(list))
	for i := range list {
		out = append(out, toNamed(PT(&list[i])))
	}
	return dto.NewPaginated(out, total, page, pageSize), nil
}

func (s *namedService[T, PT]) Get(ctx context.Context, id int64) (*dto.NamedResponse, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, s.label)
	}
	resp := toNamed(PT(v))
	return &resp, nil
}

func (s *namedService[T, PT]) Create(ctx context.Context, actor *policy.Actor, name string) (*dto.NamedResponse, error) {
	if !policy.StaffWriteOnly(http.MethodPost, actor) {
		return nil, denied("only staff may create a " + s.label)
	}
	name = strings.TrimSpace(name)
	if err := checkVar("name", name, nameRule); err != nil {
		return nil, err
	}

	v := PT(new(T))
	v.SetName(name)
	if err := s.repo.Create(ctx, (*T)(v)); err != nil {
		return nil, storeErr(err, s.label+" "+name)
	}
	resp := toNamed(v)
	return &resp, nil
}

func (s *namedService[T, PT]) Rename(ctx context.Context, actor *policy.Actor, id int64, name string) (*dto.NamedResponse, error) {
	if !policy.StaffWriteOnly(http.MethodPut, actor) {
		return nil, denied("only staff may rename a " + s.label)
	}
	name = strings.TrimSpace(name)
	if err := checkVar("name", name, nameRule); err != nil {
		return nil, err
	}
	if err := s.repo.Rename(ctx, id, name); err != nil {
		return nil, storeErr(err, s.label)
	}
	return &dto.NamedResponse{ID: id, Name: name}, nil
}

func (s *namedService[T, PT]) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	if !policy.StaffWriteOnly(http.MethodDelete, actor) {
		return denied("only staff may delete a " + s.label)
	}
	return storeErr(s.repo.Delete(ctx, id), s.label)
}

func toNamed[PT interface {
	GetID() int64
	GetName() string
}](v PT) dto.NamedResponse {
	return dto.NamedResponse{ID: v.GetID(), Name: v.GetName()}
}
