package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	args := m.Called(ctx, username, password)
	var user *models.User
	if u := args.Get(2); u != nil {
		user = u.(*models.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func authRouter(svc service.AuthService) *gin.Engine {
	r := setupRouter()
	NewAuthHandler(svc, 15*time.Minute).RegisterRoutes(r.Group("/auth"))
	return r
}

func TestRegister_Success(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, "testuser", "password123").
		Return(&models.User{ID: "user-123", Username: "testuser"}, nil)

	w := doJSON(t, authRouter(svc), http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		Username: "testuser",
		Password: "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode[dto.RegisterResponse](t, w)
	assert.Equal(t, "user-123", resp.UserID)
	assert.Equal(t, "testuser", resp.Username)
	svc.AssertExpectations(t)
}

func TestRegister_NameTaken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, "testuser", "password123").Return(nil, service.ErrNameInUse)

	w := doJSON(t, authRouter(svc), http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		Username: "testuser",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Account creation failed", decode[map[string]string](t, w)["error"])
}

func TestRegister_InvalidBody(t *testing.T) {
	svc := new(MockAuthService)

	w := doJSON(t, authRouter(svc), http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ab",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	svc := new(MockAuthService)
	user := &models.User{ID: "user-123", Username: "testuser", IsStaff: true}
	svc.On("Login", mock.Anything, "testuser", "password123").Return("access", "refresh", user, nil)

	w := doJSON(t, authRouter(svc), http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Username: "testuser",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.AuthResponse](t, w)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.True(t, resp.IsStaff)
	assert.Equal(t, int64(900), resp.ExpiresIn)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "testuser", "wrongpass").Return("", "", nil, service.ErrInvalidCredentials)

	w := doJSON(t, authRouter(svc), http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Username: "testuser",
		Password: "wrongpass",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken(t *testing.T) {
	t.Run("rotates", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("RefreshAccessToken", mock.Anything, "old").Return("new-access", "new-refresh", nil)

		w := doJSON(t, authRouter(svc), http.MethodPost, "/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: "old"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.RefreshResponse](t, w)
		assert.Equal(t, "new-access", resp.AccessToken)
		assert.Equal(t, "new-refresh", resp.RefreshToken)
	})

	t.Run("expired", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("RefreshAccessToken", mock.Anything, "old").Return("", "", service.ErrExpiredToken)

		w := doJSON(t, authRouter(svc), http.MethodPost, "/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: "old"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing body", func(t *testing.T) {
		w := doJSON(t, authRouter(new(MockAuthService)), http.MethodPost, "/auth/refresh", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRevokeToken_AlwaysOK(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("RevokeToken", mock.Anything, "gone").Return(errors.New("db down"))

	w := doJSON(t, authRouter(svc), http.MethodPost, "/auth/revoke", "", dto.RevokeTokenRequest{RefreshToken: "gone"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
