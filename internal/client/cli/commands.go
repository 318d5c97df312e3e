package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/notify"
	"github.com/dmitrijs2005/petadopt/internal/client/services"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/flagx"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) success(ctx context.Context, msg, fallback string) {
	if msg == "" {
		msg = fallback
	}
	a.notifier.Notify(ctx, notify.LevelSuccess, msg)
}

func usageError(name string) error {
	return fmt.Errorf("%w: usage: %s", common.ErrValidation, usages[name])
}

var usages = map[string]string{
	"pet":       "pet <id>",
	"adopt":     "adopt <pet id>",
	"updatepet": "updatepet <id>",
	"delpet":    "delpet <id>",
	"setstatus": "setstatus <application id> <approved|rejected|pending>",
	"pets":      "pets [page=N] [limit=N] [search=TEXT] [breed=B] [age=A]",
}

func (a *App) cmdRegister(ctx context.Context, _ []string) error {
	var req models.RegisterRequest
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
		{"Email", &req.Email},
		{"Phone number", &req.PhoneNumber},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	req.Password = string(password)
	req.ConfirmPassword = string(confirm)

	msg, err := a.authService.Register(ctx, req)
	if err != nil {
		return err
	}
	a.success(ctx, msg, "Registration successful. Please login.")
	return nil
}

func (a *App) cmdLogin(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.Login(ctx, email, password)
	if err != nil {
		if !errors.Is(err, services.ErrNotPersisted) {
			return err
		}
		a.logger.Warn(ctx, "session not persisted", "error", err)
		a.notifier.Notify(ctx, notify.LevelInfo, "Session could not be saved and will end when you exit.")
	}

	name := u.Name
	if name == "" {
		name = u.Email
	}
	a.success(ctx, "", fmt.Sprintf("Welcome, %s!", name))
	return nil
}

func (a *App) cmdLogout(ctx context.Context, _ []string) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.success(ctx, "", "Logged out.")
	return nil
}

func (a *App) cmdWhoami(ctx context.Context, _ []string) error {
	u, err := a.authService.Refresh(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) cmdPets(ctx context.Context, args []string) error {
	q, err := parsePetQuery(args)
	if err != nil {
		return err
	}
	page, err := a.petService.List(ctx, q)
	if err != nil {
		return err
	}
	printPets(a.out, page, q)
	return nil
}

func parsePetQuery(args []string) (models.PetQuery, error) {
	pairs, err := flagx.ParsePairs(args)
	if err != nil {
		return models.PetQuery{}, usageError("pets")
	}

	var q models.PetQuery
	for name, value := range pairs {
		switch name {
		case "page", "limit":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return models.PetQuery{}, fmt.Errorf("%w: %s must be a positive number", common.ErrValidation, name)
			}
			if name == "page" {
				q.Page = n
			} else {
				q.Limit = n
			}
		case "search":
			q.Search = value
		case "breed":
			q.Breed = value
		case "age":
			q.Age = value
		default:
			return models.PetQuery{}, fmt.Errorf("%w: unknown filter %q", common.ErrValidation, name)
		}
	}
	return q, nil
}

func (a *App) cmdPet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("pet")
	}
	d, err := a.petService.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printPet(a.out, d)
	return nil
}

func (a *App) cmdAdopt(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("adopt")
	}
	msg, err := a.adoptionService.Apply(ctx, args[0])
	if err != nil {
		return err
	}
	a.success(ctx, msg, "Application submitted.")
	return nil
}

func (a *App) cmdApps(ctx context.Context, _ []string) error {
	apps, err := a.adoptionService.Mine(ctx)
	if err != nil {
		return err
	}
	printApplications(a.out, apps, false)
	return nil
}

func (a *App) cmdAllApps(ctx context.Context, _ []string) error {
	apps, err := a.adoptionService.All(ctx)
	if err != nil {
		return err
	}
	printApplications(a.out, apps, true)
	return nil
}

func (a *App) cmdSetStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("setstatus")
	}
	status, err := models.ParseApplicationStatus(strings.ToLower(args[1]))
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	msg, err := a.adoptionService.SetStatus(ctx, args[0], status)
	if err != nil {
		return err
	}
	a.success(ctx, msg, fmt.Sprintf("Application %s.", status))
	return nil
}

func (a *App) cmdAddPet(ctx context.Context, _ []string) error {
	in, err := a.promptPet(models.PetInput{Status: models.PetAvailable})
	if err != nil {
		return err
	}
	msg, err := a.petService.Create(ctx, in)
	if err != nil {
		return err
	}
	a.success(ctx, msg, "Pet added.")
	return nil
}

func (a *App) cmdUpdatePet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("updatepet")
	}
	d, err := a.petService.Get(ctx, args[0])
	if err != nil {
		return err
	}
	p := d.Pet
	in, err := a.promptPet(models.PetInput{
		ID:          p.ID,
		Name:        p.Name,
		Breed:       p.Breed,
		Age:         string(p.Age),
		Status:      p.Status,
		Description: p.Description,
		Image:       p.Image,
	})
	if err != nil {
		return err
	}
	msg, err := a.petService.Update(ctx, in)
	if err != nil {
		return err
	}
	a.success(ctx, msg, "Pet updated.")
	return nil
}

func (a *App) cmdDeletePet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delpet")
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete pet %s? (y/N)", args[0]), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	msg, err := a.petService.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	a.success(ctx, msg, "Pet deleted.")
	return nil
}

// promptPet asks for every pet field, offering cur as the default.
func (a *App) promptPet(cur models.PetInput) (models.PetInput, error) {
	var err error
	if cur.Name, err = getWithDefault(a.reader, "Name", cur.Name, a.out); err != nil {
		return cur, err
	}
	breedPrompt := fmt.Sprintf("Breed (%s)", strings.Join(models.Breeds, ", "))
	if cur.Breed, err = getWithDefault(a.reader, breedPrompt, cur.Breed, a.out); err != nil {
		return cur, err
	}
	agePrompt := fmt.Sprintf("Age (%s)", strings.Join(models.AgeGroups, ", "))
	if cur.Age, err = getWithDefault(a.reader, agePrompt, cur.Age, a.out); err != nil {
		return cur, err
	}
	status, err := getWithDefault(a.reader, "Status (available, pending, adopted)", string(cur.Status), a.out)
	if err != nil {
		return cur, err
	}
	cur.Status = models.PetStatus(strings.ToLower(status))
	if cur.Image, err = getWithDefault(a.reader, "Image URL", cur.Image, a.out); err != nil {
		return cur, err
	}
	desc, err := GetMultiline(a.reader, "Description (empty keeps the current one)", a.out)
	if err != nil {
		return cur, err
	}
	if desc != "" {
		cur.Description = desc
	}
	return cur, nil
}
