package api

import "errors"

// RegisterRequest creates an account. Password must be at least 8 characters.
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" || r.DisplayName == "" {
		return errors.New("email and display_name required")
	}
	return nil
}

// LoginRequest exchanges email and password for a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password required")
	}
	return nil
}

// AuthResponse carries the session token returned by Register and Login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// GetCurrentUserRequest asks for the caller's profile.
type GetCurrentUserRequest struct{}

// GetCurrentUserResponse is the caller's profile.
type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
