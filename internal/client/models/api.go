package models

import "encoding/json"

// Envelope is the common response wrapper of the REST API.
type Envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest mirrors the signup form. ConfirmPassword is checked on
// the client and never sent.
type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type StatusUpdateRequest struct {
	ID     string            `json:"id"`
	Status ApplicationStatus `json:"status"`
}
