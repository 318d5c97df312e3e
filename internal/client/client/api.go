package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
)

// API is the REST surface the CLI depends on. Mutating calls return the
// server's confirmation message.
type API interface {
	Login(ctx context.Context, email, password string) (models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	FetchUserDetails(ctx context.Context) (models.User, error)

	GetAllPets(ctx context.Context, q models.PetQuery) (models.PetPage, error)
	GetPetDetails(ctx context.Context, id string) (models.Pet, error)
	CreatePet(ctx context.Context, pet models.PetInput) (string, error)
	UpdatePet(ctx context.Context, pet models.PetInput) (string, error)
	DeletePet(ctx context.Context, id string) (string, error)

	AdoptPet(ctx context.Context, petID string) (string, error)
	GetUsersAdoptionApplications(ctx context.Context) ([]models.Application, error)
	GetAllAdoptionApplications(ctx context.Context) ([]models.Application, error)
	UpdateAdoptionStatus(ctx context.Context, id string, status models.ApplicationStatus) (string, error)
}

var _ API = (*Client)(nil)

func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var out models.LoginResponse
	_, err := c.call(ctx, "Login", http.MethodPost, "/login", nil,
		models.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return models.LoginResponse{}, err
	}
	if out.Token == "" {
		return models.LoginResponse{}, fmt.Errorf("Login: %w: empty token", ErrBadResponse)
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	return c.call(ctx, "Register", http.MethodPost, "/register", nil, req, nil)
}

// FetchUserDetails accepts both {"user": {...}} and a bare user as data.
func (c *Client) FetchUserDetails(ctx context.Context) (models.User, error) {
	var raw json.RawMessage
	if _, err := c.call(ctx, "FetchUserDetails", http.MethodGet, "/fetchUserDetails", nil, nil, &raw); err != nil {
		return models.User{}, err
	}
	var wrapped struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return *wrapped.User, nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.User{}, fmt.Errorf("FetchUserDetails: %w: %w", ErrBadResponse, err)
	}
	return u, nil
}

func (c *Client) GetAllPets(ctx context.Context, q models.PetQuery) (models.PetPage, error) {
	var out models.PetPage
	if _, err := c.call(ctx, "GetAllPets", http.MethodGet, "/getAllPets", q.Values(), nil, &out); err != nil {
		return models.PetPage{}, err
	}
	return out, nil
}

func (c *Client) GetPetDetails(ctx context.Context, id string) (models.Pet, error) {
	var out struct {
		Pet models.Pet `json:"pet"`
	}
	if _, err := c.call(ctx, "GetPetDetails", http.MethodGet, "/getPetDetails", url.Values{"id": {id}}, nil, &out); err != nil {
		return models.Pet{}, err
	}
	return out.Pet, nil
}

func (c *Client) CreatePet(ctx context.Context, pet models.PetInput) (string, error) {
	pet.ID = ""
	return c.call(ctx, "CreatePet", http.MethodPost, "/createPets", nil, pet, nil)
}

func (c *Client) UpdatePet(ctx context.Context, pet models.PetInput) (string, error) {
	if pet.ID == "" {
		return "", fmt.Errorf("UpdatePet: pet id is empty")
	}
	return c.call(ctx, "UpdatePet", http.MethodPut, "/updatePets", nil, pet, nil)
}

func (c *Client) DeletePet(ctx context.Context, id string) (string, error) {
	return c.call(ctx, "DeletePet", http.MethodDelete, "/deletePet", url.Values{"id": {id}}, nil, nil)
}

func (c *Client) AdoptPet(ctx context.Context, petID string) (string, error) {
	return c.call(ctx, "AdoptPet", http.MethodPut, "/adoptPet", nil, models.IDRequest{ID: petID}, nil)
}

func (c *Client) GetUsersAdoptionApplications(ctx context.Context) ([]models.Application, error) {
	return c.applications(ctx, "GetUsersAdoptionApplications", "/getUsersAdoptionApplications")
}

func (c *Client) GetAllAdoptionApplications(ctx context.Context) ([]models.Application, error) {
	return c.applications(ctx, "GetAllAdoptionApplications", "/getAllAdoptionApplications")
}

func (c *Client) UpdateAdoptionStatus(ctx context.Context, id string, status models.ApplicationStatus) (string, error) {
	if !status.Valid() {
		return "", fmt.Errorf("UpdateAdoptionStatus: unknown status %q", status)
	}
	return c.call(ctx, "UpdateAdoptionStatus", http.MethodPut, "/updateAdoptionStatus", nil,
		models.StatusUpdateRequest{ID: id, Status: status}, nil)
}

// applications reads {"result": [...]}, falling back to a bare array.
func (c *Client) applications(ctx context.Context, op, path string) ([]models.Application, error) {
	var raw json.RawMessage
	if _, err := c.call(ctx, op, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	var wrapped struct {
		Result []models.Application `json:"result"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Result, nil
	}
	var list []models.Application
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrBadResponse, err)
	}
	return list, nil
}
