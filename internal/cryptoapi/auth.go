package cryptoapi

import (
	"context"
	"net/url"
)

// VerifyResetToken asks the backend whether a password reset token is usable.
func (c *Client) VerifyResetToken(ctx context.Context, token string) (bool, error) {
	path := "/api/auth/verify-reset-token?" + url.Values{"token": {token}}.Encode()
	var resp VerifyResetTokenResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// ResetPassword sets a new password for the account the token was issued to.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (*ResetPasswordResponse, error) {
	var resp ResetPasswordResponse
	req := ResetPasswordRequest{Token: token, Password: password}
	if err := c.Post(ctx, "/api/auth/reset-password", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
