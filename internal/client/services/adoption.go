package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/common"
)

type AdoptionService interface {
	Apply(ctx context.Context, petID string) (string, error)
	Mine(ctx context.Context) ([]models.Application, error)
	All(ctx context.Context) ([]models.Application, error)
	SetStatus(ctx context.Context, id string, status models.ApplicationStatus) (string, error)
}

type adoptionService struct {
	api     client.API
	session *session.Manager
}

func NewAdoptionService(api client.API, sess *session.Manager) AdoptionService {
	return &adoptionService{api: api, session: sess}
}

// Apply submits an application after checking locally that the pet is
// available, that the caller is not an administrator and that they have
// not applied already.
func (s *adoptionService) Apply(ctx context.Context, petID string) (string, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return "", fmt.Errorf("%w: pet id is required", common.ErrValidation)
	}
	state := s.session.Snapshot()
	if state.User != nil && state.User.Role == models.RoleAdmin {
		return "", ErrAdminApply
	}

	pet, err := s.api.GetPetDetails(ctx, petID)
	if err != nil {
		return "", err
	}
	if pet.Status != models.PetAvailable {
		return "", ErrNotAvailable
	}
	mine, err := s.api.GetUsersAdoptionApplications(ctx)
	if err != nil {
		return "", err
	}
	if hasApplied(mine, petID) {
		return "", ErrAlreadyApplied
	}

	if s.session.Generation() != state.Generation {
		return "", ErrStaleResponse
	}
	return s.api.AdoptPet(ctx, petID)
}

func (s *adoptionService) Mine(ctx context.Context) ([]models.Application, error) {
	return s.list(ctx, s.api.GetUsersAdoptionApplications)
}

func (s *adoptionService) All(ctx context.Context) ([]models.Application, error) {
	return s.list(ctx, s.api.GetAllAdoptionApplications)
}

func (s *adoptionService) list(ctx context.Context, fetch func(context.Context) ([]models.Application, error)) ([]models.Application, error) {
	gen := s.session.Generation()
	apps, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.session.Generation() != gen {
		return nil, ErrStaleResponse
	}
	return apps, nil
}

func (s *adoptionService) SetStatus(ctx context.Context, id string, status models.ApplicationStatus) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: application id is required", common.ErrValidation)
	}
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", common.ErrValidation, status)
	}
	return s.api.UpdateAdoptionStatus(ctx, id, status)
}
