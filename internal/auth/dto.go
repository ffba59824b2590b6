package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Role == "" {
		return ValidationError{Msg: "role is required"}
	}
	if d.Role != "user" && d.Role != "manager" {
		return ValidationError{Msg: "role must be either 'user' or 'manager'"}
	}
	return nil
}

// SessionResponse is returned on a successful login.
type SessionResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}
