package models

// Response is the REST envelope used by the API gateway
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Page wraps a list inside a response envelope
type Page[T any] struct {
	Data []T `json:"data"`
}

// LoginRequest is the body of the mock login endpoint
type LoginRequest struct {
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

// LoginResult is returned by the mock login endpoint
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
