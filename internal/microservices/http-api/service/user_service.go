package service

import (
	"context"
	"net/http"
	"strings"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/policy"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/middleware/auth"
)

// UserService manages accounts after registration. Staff see and manage
// everyone; other users only themselves.
type UserService interface {
	List(ctx context.Context, actor *policy.Actor, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	Get(ctx context.Context, actor *policy.Actor, id string) (*dto.UserResponse, error)
	Update(ctx context.Context, actor *policy.Actor, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	// Delete removes the account after withdrawing every score it gave.
	Delete(ctx context.Context, actor *policy.Actor, id string) error
	SetStaffStatus(ctx context.Context, actor *policy.Actor, id string, isStaff bool) (*dto.UserResponse, error)
	SetActiveStatus(ctx context.Context, actor *policy.Actor, id string, isActive bool) (*dto.UserResponse, error)
}

type userService struct {
	users  repository.UserRepository
	scores ScoreService
}

func NewUserService(users repository.UserRepository, scores ScoreService) UserService {
	return &userService{users: users, scores: scores}
}

func (s *userService) List(ctx context.Context, actor *policy.Actor, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	if actor == nil || actor.ID == "" {
		return nil, denied("listing users requires an authenticated user")
	}
	if !actor.IsStaff {
		self, err := s.users.FindByID(ctx, actor.ID)
		if err != nil {
			return nil, storeErr(err, "user")
		}
		return dto.NewPaginated([]dto.UserResponse{dto.FromUser(*self)}, 1, page, pageSize), nil
	}

	list, total, err := s.users.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.FromUser(u))
	}
	return dto.NewPaginated(out, total, page, pageSize), nil
}

func (s *userService) Get(ctx context.Context, actor *policy.Actor, id string) (*dto.UserResponse, error) {
	user, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromUser(*user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, actor *policy.Actor, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.OwnerOrStaffWrite(http.MethodPatch, actor, user) {
		return nil, denied("only the account owner or staff may change this user")
	}

	fields := map[string]interface{}{}
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if err := checkVar("username", name, "required,min=3,max=150"); err != nil {
			return nil, err
		}
		fields["username"] = name
	}
	if req.Password != nil {
		if err := checkVar("password", *req.Password, "required,min=8"); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}
	if len(fields) == 0 {
		resp := dto.FromUser(*user)
		return &resp, nil
	}
	return s.update(ctx, id, fields)
}

func (s *userService) Delete(ctx context.Context, actor *policy.Actor, id string) error {
	user, err := s.visible(ctx, actor, id)
	if err != nil {
		return err
	}
	if !policy.OwnerOrStaffWrite(http.MethodDelete, actor, user) {
		return denied("only the account owner or staff may delete this user")
	}
	// deactivation blocks new scores, then the remaining ones are withdrawn
	// so every affected recipe aggregate is decremented before the cascade
	if user.IsActive {
		if err := s.users.UpdateFields(ctx, id, map[string]interface{}{"is_active": false}); err != nil {
			return storeErr(err, "user")
		}
	}
	if err := s.scores.RemoveAllForUser(ctx, id); err != nil {
		return err
	}
	return storeErr(s.users.Delete(ctx, id), "user")
}

func (s *userService) SetStaffStatus(ctx context.Context, actor *policy.Actor, id string, isStaff bool) (*dto.UserResponse, error) {
	if !policy.StaffWriteOnly(http.MethodPatch, actor) {
		return nil, denied("only staff may change staff status")
	}
	return s.update(ctx, id, map[string]interface{}{"is_staff": isStaff})
}

func (s *userService) SetActiveStatus(ctx context.Context, actor *policy.Actor, id string, isActive bool) (*dto.UserResponse, error) {
	if !policy.StaffWriteOnly(http.MethodPatch, actor) {
		return nil, denied("only staff may change active status")
	}
	return s.update(ctx, id, map[string]interface{}{"is_active": isActive})
}

// visible loads a user the actor may see. Non-staff asking for someone
// else get NotFound so account ids cannot be enumerated.
func (s *userService) visible(ctx context.Context, actor *policy.Actor, id string) (*models.User, error) {
	if actor == nil || actor.ID == "" {
		return nil, denied("viewing users requires an authenticated user")
	}
	if !actor.IsStaff && actor.ID != id {
		return nil, notFound("user not found")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}

func (s *userService) update(ctx context.Context, id string, fields map[string]interface{}) (*dto.UserResponse, error) {
	if err := s.users.UpdateFields(ctx, id, fields); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrNameInUse
		}
		return nil, storeErr(err, "user")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	resp := dto.FromUser(*user)
	return &resp, nil
}
