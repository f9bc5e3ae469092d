package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/neboloop/cryptoportal/internal/credential"
)

func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored access token",
		Long: `The stored access token is sent as a bearer credential with API calls made
from the terminal. Where it lives is set by credentials.source in the config.`,
	}
	cmd.AddCommand(tokenSetCmd(), tokenShowCmd(), tokenClearCmd())
	return cmd
}

func openTokens() (credential.Store, error) {
	return credential.Open(*ServerConfig)
}

func tokenSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <token>",
		Short: "Store an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openTokens()
			if err != nil {
				return err
			}
			token := strings.TrimSpace(args[0])
			if token == "" {
				return fmt.Errorf("token is empty")
			}
			if err := store.SetToken(token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
			return nil
		},
	}
}

func tokenShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored access token (masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openTokens()
			if err != nil {
				return err
			}
			token, ok := store.Token()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No token stored.")
				return nil
			}
			describeToken(cmd.OutOrStdout(), token, time.Now())
			return nil
		},
	}
}

func tokenClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openTokens()
			if err != nil {
				return err
			}
			if err := store.ClearToken(); err != nil {
				return fmt.Errorf("clear token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token cleared.")
			return nil
		},
	}
}

// maskToken keeps only enough of the token to tell two apart.
func maskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// describeToken prints the masked token and, for a JWT, its subject and
// expiry. The signature is not checked; only the API can do that.
func describeToken(w io.Writer, token string, now time.Time) {
	fmt.Fprintf(w, "Token:   %s\n", maskToken(token))

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		fmt.Fprintf(w, "Subject: %s\n", sub)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	state := "valid"
	if !exp.After(now) {
		state = "expired"
	}
	fmt.Fprintf(w, "Expires: %s (%s)\n", exp.UTC().Format(time.RFC3339), state)
}
