// Package services contains application services for the petadopt client.
// This file defines the authentication service: login, registration,
// logout and profile refresh, all bound to the session manager.
package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/common"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token and start a session.
//   - Register: create an account; the session is not touched.
//   - Logout: end the session locally. The API has no logout endpoint.
//   - Refresh: reload the profile of the current user from the server.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (models.User, error)
}

type authService struct {
	api     client.API
	session *session.Manager
}

func NewAuthService(api client.API, sess *session.Manager) AuthService {
	return &authService{api: api, session: sess}
}

// Login wipes password once it has been sent. A failure to persist the new
// session is returned, but the session stays active for this run.
func (a *authService) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	defer common.WipeByteArray(password)

	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return models.User{}, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	resp, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}

	if err := a.session.Login(ctx, resp.Token, resp.User); err != nil {
		return resp.User, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return resp.User, nil
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	if err := validateRegistration(&req); err != nil {
		return "", err
	}
	msg, err := a.api.Register(ctx, req)
	if err != nil {
		return "", fmt.Errorf("register error: %w", err)
	}
	return msg, nil
}

func validateRegistration(req *models.RegisterRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.Name == "" {
		req.Name = strings.TrimSpace(req.FirstName + " " + req.LastName)
	}

	switch {
	case req.FirstName == "" || req.LastName == "":
		return fmt.Errorf("%w: first and last name are required", common.ErrValidation)
	case req.Email == "":
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	case req.Password == "":
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", common.ErrValidation, req.Email)
	}
	if req.Password != req.ConfirmPassword {
		return common.ErrPasswordMismatch
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// Refresh stores the fetched profile under the current token. If the
// session changed while the request was in flight the result is dropped
// and ErrStaleResponse is returned.
func (a *authService) Refresh(ctx context.Context) (models.User, error) {
	before := a.session.Snapshot()
	if !before.IsAuthenticated() {
		return models.User{}, client.ErrUnauthorized
	}

	u, err := a.api.FetchUserDetails(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("fetch user details: %w", err)
	}
	if a.session.Generation() != before.Generation {
		return models.User{}, ErrStaleResponse
	}
	if u.ID == "" {
		u.ID = before.User.ID
	}
	if err := a.session.Login(ctx, before.Token, u); err != nil {
		return u, err
	}
	return u, nil
}
