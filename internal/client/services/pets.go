package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/logging"
)

// PetDetails is a pet as seen by the current user.
type PetDetails struct {
	Pet        models.Pet
	HasApplied bool
	// CanApply is true for a regular user who has not applied yet and
	// only while the pet is available.
	CanApply bool
}

type PetService interface {
	List(ctx context.Context, q models.PetQuery) (models.PetPage, error)
	Get(ctx context.Context, id string) (PetDetails, error)
	Create(ctx context.Context, in models.PetInput) (string, error)
	Update(ctx context.Context, in models.PetInput) (string, error)
	Delete(ctx context.Context, id string) (string, error)
}

type petService struct {
	api     client.API
	session *session.Manager
	logger  logging.Logger
}

func NewPetService(api client.API, sess *session.Manager, logger logging.Logger) PetService {
	return &petService{api: api, session: sess, logger: logger.With("component", "pets")}
}

func (s *petService) List(ctx context.Context, q models.PetQuery) (models.PetPage, error) {
	gen := s.session.Generation()
	page, err := s.api.GetAllPets(ctx, q)
	if err != nil {
		return models.PetPage{}, err
	}
	if s.session.Generation() != gen {
		return models.PetPage{}, ErrStaleResponse
	}
	return page, nil
}

// Get loads the pet and, for regular users, whether they already applied.
// A failure to load the applications is logged and treated as "not
// applied"; the server rejects duplicates anyway.
func (s *petService) Get(ctx context.Context, id string) (PetDetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PetDetails{}, fmt.Errorf("%w: pet id is required", common.ErrValidation)
	}

	state := s.session.Snapshot()
	pet, err := s.api.GetPetDetails(ctx, id)
	if err != nil {
		return PetDetails{}, err
	}

	d := PetDetails{Pet: pet}
	if state.User != nil && state.User.Role == models.RoleUser {
		apps, err := s.api.GetUsersAdoptionApplications(ctx)
		if err != nil {
			s.logger.Warn(ctx, "load applications failed", "pet_id", id, "error", err)
		} else {
			d.HasApplied = hasApplied(apps, id)
		}
		d.CanApply = !d.HasApplied && pet.Status == models.PetAvailable
	}

	if s.session.Generation() != state.Generation {
		return PetDetails{}, ErrStaleResponse
	}
	return d, nil
}

func hasApplied(apps []models.Application, petID string) bool {
	for _, a := range apps {
		if a.Pet.ID == petID {
			return true
		}
	}
	return false
}

func (s *petService) Create(ctx context.Context, in models.PetInput) (string, error) {
	if err := validatePet(&in); err != nil {
		return "", err
	}
	if in.Status == "" {
		in.Status = models.PetAvailable
	}
	return s.api.CreatePet(ctx, in)
}

func (s *petService) Update(ctx context.Context, in models.PetInput) (string, error) {
	if strings.TrimSpace(in.ID) == "" {
		return "", fmt.Errorf("%w: pet id is required", common.ErrValidation)
	}
	if err := validatePet(&in); err != nil {
		return "", err
	}
	return s.api.UpdatePet(ctx, in)
}

func (s *petService) Delete(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: pet id is required", common.ErrValidation)
	}
	return s.api.DeletePet(ctx, id)
}

func validatePet(in *models.PetInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Age = strings.TrimSpace(in.Age)
	if in.Name == "" || in.Breed == "" || in.Age == "" {
		return fmt.Errorf("%w: name, breed and age are required", common.ErrValidation)
	}
	switch in.Status {
	case "", models.PetAvailable, models.PetPending, models.PetAdopted:
		return nil
	default:
		return fmt.Errorf("%w: unknown pet status %q", common.ErrValidation, in.Status)
	}
}
