package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	staffToken  = "staff-token"
	authorToken = "author-token"
)

// fakeTokens accepts a fixed set of bearer tokens.
type fakeTokens map[string]*service.Claims

func (f fakeTokens) ValidateToken(token string) (*service.Claims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, service.ErrInvalidToken
}

var testTokens = fakeTokens{
	staffToken:  {UserID: "staff-1", Username: "chef", IsStaff: true},
	authorToken: {UserID: "author-1", Username: "cook"},
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// catalogGroup mounts a group the way NewRouter does for catalog routes.
func catalogGroup(r *gin.Engine, path string) (*gin.RouterGroup, gin.HandlerFunc) {
	return r.Group(path, middleware.OptionalAuth(testTokens)), middleware.AuthMiddleware(testTokens)
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func ptr[T any](v T) *T { return &v }
