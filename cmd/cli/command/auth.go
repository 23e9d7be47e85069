package command

import (
	"fmt"
	"time"

	"recipehub/cmd/cli/authentication"
	"recipehub/cmd/cli/command/client"
	"recipehub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// authCmd groups account and session subcommands.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the recipehub API server. Supports login, registration, logout.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new recipehub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		response, err := client.NewHTTPClient(apiURL).Register(ctx, req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Println("✓ Registration successful! Please login to continue.")
		fmt.Printf("UserID: %s\n", response.UserID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your recipehub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		response, err := client.NewHTTPClient(apiURL).Login(ctx, req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		err = authentication.StoreTokens(&authentication.StoredCredentials{
			AccessToken:  response.AccessToken,
			RefreshToken: response.RefreshToken,
			UserID:       response.UserID,
			Username:     response.Username,
			ExpiresAt:    time.Now().Unix() + response.ExpiresIn,
		})
		if err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}

		fmt.Printf("✓ Logged in as %s\n", response.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and revoke the stored refresh token",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err == nil && creds.RefreshToken != "" {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			// the server answers 200 either way; a network failure is not fatal
			if err := client.NewHTTPClient(apiURL).RevokeToken(ctx, creds.RefreshToken); err != nil {
				fmt.Printf("warning: could not revoke token: %v\n", err)
			}
		}
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored account",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", creds.Username, creds.UserID)
		return nil
	},
}

func init() {
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringP("username", "u", "", "Account username")
		c.Flags().StringP("password", "p", "", "Account password")
		_ = c.MarkFlagRequired("username")
		_ = c.MarkFlagRequired("password")
	}
}
