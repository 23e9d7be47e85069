package command

// root.go defines the root command for the recipehub CLI and the helpers
// every subcommand shares.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"recipehub/cmd/cli/authentication"
	"recipehub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

var rootCmd = &cobra.Command{
	Use:   "recipehub",
	Short: "recipehub - command line client for the recipe catalog",
	Long: `recipehub talks to a recipehub API server. Use it to:
- Find recipes you can cook from the ingredients you have
- See what a recipe still needs
- Score recipes

Use "recipehub command -h" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("RECIPEHUB_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(recipeCmd)
	rootCmd.AddCommand(scoreCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 15*time.Second)
}

// authenticatedClient loads stored credentials, refreshing the access token
// when it has expired.
func authenticatedClient(ctx context.Context) (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	httpClient := client.NewHTTPClient(apiURL)

	if creds.ExpiresAt > 0 && time.Now().Unix() >= creds.ExpiresAt {
		refreshed, err := httpClient.RefreshToken(ctx, creds.RefreshToken)
		if err != nil {
			if client.IsStatus(err, http.StatusUnauthorized) {
				_ = authentication.DeleteTokens()
				return nil, authentication.ErrNotLoggedIn
			}
			return nil, fmt.Errorf("refresh session: %w", err)
		}
		creds.AccessToken = refreshed.AccessToken
		creds.RefreshToken = refreshed.RefreshToken
		creds.ExpiresAt = time.Now().Unix() + refreshed.ExpiresIn
		if err := authentication.StoreTokens(creds); err != nil {
			return nil, err
		}
	}

	httpClient.SetToken(creds.AccessToken)
	return httpClient, nil
}

// parseIngredientIDs accepts "1,2,3" or several flag values.
func parseIngredientIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid ingredient id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("at least one --ingredient is required")
	}
	return ids, nil
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func formatRating(rating *float64) string {
	if rating == nil {
		return "unrated"
	}
	return strconv.FormatFloat(*rating, 'f', 2, 64)
}
