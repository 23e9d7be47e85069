package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func whoAmI(c *gin.Context) {
	actor := ActorFrom(c)
	if actor == nil {
		c.JSON(http.StatusOK, gin.H{"user_id": "", "is_staff": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": actor.ID, "is_staff": actor.IsStaff})
}

func doRequest(r http.Handler, method, path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	v := new(mockValidator)
	v.On("ValidateToken", "good").Return(&service.Claims{UserID: "u1", IsStaff: true}, nil)
	v.On("ValidateToken", "old").Return(nil, service.ErrExpiredToken)
	v.On("ValidateToken", "bad").Return(nil, service.ErrInvalidToken)

	router := setupRouter()
	router.GET("/me", AuthMiddleware(v), whoAmI)

	tests := []struct {
		name      string
		header    string
		wantCode  int
		wantError string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization header format"},
		{"too many parts", "Bearer a b", http.StatusUnauthorized, "invalid authorization header format"},
		{"expired", "Bearer old", http.StatusUnauthorized, "token has expired"},
		{"invalid", "Bearer bad", http.StatusUnauthorized, "invalid token"},
		{"valid", "Bearer good", http.StatusOK, ""},
		{"scheme is case insensitive", "bearer good", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/me", tt.header)
			assert.Equal(t, tt.wantCode, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, "u1", body["user_id"])
				assert.Equal(t, true, body["is_staff"])
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	v := new(mockValidator)
	v.On("ValidateToken", "good").Return(&service.Claims{UserID: "u1"}, nil)
	v.On("ValidateToken", "bad").Return(nil, service.ErrInvalidToken)

	router := setupRouter()
	router.GET("/recipes", OptionalAuth(v), whoAmI)

	w := doRequest(router, http.MethodGet, "/recipes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	w = doRequest(router, http.MethodGet, "/recipes", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)

	w = doRequest(router, http.MethodGet, "/recipes", "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStaff(t *testing.T) {
	v := new(mockValidator)
	v.On("ValidateToken", "staff").Return(&service.Claims{UserID: "s", IsStaff: true}, nil)
	v.On("ValidateToken", "user").Return(&service.Claims{UserID: "u"}, nil)

	router := setupRouter()
	router.PATCH("/users/:id/staff", AuthMiddleware(v), RequireStaff(), whoAmI)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodPatch, "/users/x/staff", "Bearer staff").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, http.MethodPatch, "/users/x/staff", "Bearer user").Code)
}

func TestRateLimiter_PerKeyBuckets(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "burst spent")
	assert.True(t, l.Allow("b"), "other clients unaffected")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"), "refilled")
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(11 * time.Minute)
	l.Allow("b")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "a")
	assert.Contains(t, l.clients, "b")
}

func TestRateLimiter_MiddlewareSkipsReads(t *testing.T) {
	l := NewRateLimiter(1, 1)
	router := setupRouter()
	router.Use(l.Middleware())
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	router.GET("/x", ok)
	router.POST("/x", ok)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodGet, "/x", "").Code)
	}
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodPost, "/x", "").Code)
	w := doRequest(router, http.MethodPost, "/x", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	router := setupRouter()
	router.Use(RequestID(), RequestLogger(log))
	router.GET("/recipes/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req, _ := http.NewRequest(http.MethodGet, "/recipes/7", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http_request", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "/recipes/:id", line["path"])
	assert.Equal(t, float64(404), line["status"])
	assert.Equal(t, "req-1", line["request_id"])
}

func TestRequestID_Generated(t *testing.T) {
	router := setupRouter()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(router, http.MethodGet, "/", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}
