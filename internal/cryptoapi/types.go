package cryptoapi

// VerifyResetTokenResponse is returned by GET /api/auth/verify-reset-token.
type VerifyResetTokenResponse struct {
	Valid bool `json:"valid"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPasswordResponse is the success body of POST /api/auth/reset-password.
type ResetPasswordResponse struct {
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the failure body the backend sends with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error,omitempty"`
}
