package types

// ResetPasswordPageRequest is the query of GET /reset-password.
type ResetPasswordPageRequest struct {
	Token string `form:"token"`
}

// ResetPasswordRequest is the form posted by the reset page.
type ResetPasswordRequest struct {
	Token    string `form:"token"`
	Password string `form:"password"`
	Confirm  string `form:"confirm"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
