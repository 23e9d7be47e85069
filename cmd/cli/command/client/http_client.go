package client

// http_client.go talks to the recipehub REST API.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"recipehub/internal/microservices/http-api/dto"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a 2xx answer into out when out is
// non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	var out dto.RefreshResponse
	req := dto.RefreshTokenRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RevokeToken(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/revoke", dto.RevokeTokenRequest{RefreshToken: refreshToken}, nil)
}

// Recipes

func ingredientQuery(ids []int64) string {
	q := url.Values{}
	for _, id := range ids {
		q.Add("ingredient", strconv.FormatInt(id, 10))
	}
	return q.Encode()
}

func (c *HTTPClient) GetRecipe(ctx context.Context, id int64) (*dto.RecipeResponse, error) {
	var out dto.RecipeResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/recipes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AvailableRecipes(ctx context.Context, ingredientIDs []int64) ([]dto.RecipeResponse, error) {
	var out []dto.RecipeResponse
	if err := c.do(ctx, http.MethodGet, "/api/recipes/available?"+ingredientQuery(ingredientIDs), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) RankedRecipes(ctx context.Context, ingredientIDs []int64) ([]dto.RankedRecipeResponse, error) {
	var out []dto.RankedRecipeResponse
	if err := c.do(ctx, http.MethodGet, "/api/recipes/ranked?"+ingredientQuery(ingredientIDs), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) MissingIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) ([]dto.MissingIngredientResponse, error) {
	var out []dto.MissingIngredientResponse
	path := fmt.Sprintf("/api/recipes/%d/missing-ingredients?%s", recipeID, ingredientQuery(ingredientIDs))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Scores

func (c *HTTPClient) RecordScore(ctx context.Context, recipeID int64, score int) (*dto.RecordScoreResponse, error) {
	var out dto.RecordScoreResponse
	req := dto.ScoreRequest{RecipeID: recipeID, Score: &score}
	if err := c.do(ctx, http.MethodPost, "/api/scores", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteScore(ctx context.Context, scoreID int64) (*dto.RecordScoreResponse, error) {
	var out dto.RecordScoreResponse
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/scores/%d", scoreID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListScores(ctx context.Context, recipeID int64, userID string, page, pageSize int) (*dto.Paginated[dto.ScoreResponse], error) {
	q := url.Values{}
	if recipeID > 0 {
		q.Set("recipe_id", strconv.FormatInt(recipeID, 10))
	}
	if userID != "" {
		q.Set("user_id", userID)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out dto.Paginated[dto.ScoreResponse]
	if err := c.do(ctx, http.MethodGet, "/api/scores?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
