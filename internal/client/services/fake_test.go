package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/petadopt/internal/client/auth"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake API ----

// fakeAPI implements client.API for unit tests of the services.
type fakeAPI struct {
	LoginRet models.LoginResponse
	LoginErr error

	RegisterErr  error
	LastRegister models.RegisterRequest

	UserRet models.User
	UserErr error
	// OnFetchUser runs inside FetchUserDetails, before it returns.
	OnFetchUser func()

	PageRet models.PetPage
	PetRet  models.Pet
	PetErr  error

	MineRet []models.Application
	MineErr error
	AllRet  []models.Application

	MutationErr error

	// for argument checks
	LastLoginEmail    string
	LastLoginPassword string
	LastQuery         models.PetQuery
	LastPetInput      models.PetInput
	LastDeletedID     string
	LastAdoptedID     string
	LastStatusID      string
	LastStatus        models.ApplicationStatus
	AdoptCalls        int
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (models.LoginResponse, error) {
	f.LastLoginEmail, f.LastLoginPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) (string, error) {
	f.LastRegister = req
	return "registered", f.RegisterErr
}

func (f *fakeAPI) FetchUserDetails(context.Context) (models.User, error) {
	if f.OnFetchUser != nil {
		f.OnFetchUser()
	}
	return f.UserRet, f.UserErr
}

func (f *fakeAPI) GetAllPets(_ context.Context, q models.PetQuery) (models.PetPage, error) {
	f.LastQuery = q
	return f.PageRet, nil
}

func (f *fakeAPI) GetPetDetails(context.Context, string) (models.Pet, error) {
	return f.PetRet, f.PetErr
}

func (f *fakeAPI) CreatePet(_ context.Context, in models.PetInput) (string, error) {
	f.LastPetInput = in
	return "created", f.MutationErr
}

func (f *fakeAPI) UpdatePet(_ context.Context, in models.PetInput) (string, error) {
	f.LastPetInput = in
	return "updated", f.MutationErr
}

func (f *fakeAPI) DeletePet(_ context.Context, id string) (string, error) {
	f.LastDeletedID = id
	return "deleted", f.MutationErr
}

func (f *fakeAPI) AdoptPet(_ context.Context, id string) (string, error) {
	f.AdoptCalls++
	f.LastAdoptedID = id
	return "applied", f.MutationErr
}

func (f *fakeAPI) GetUsersAdoptionApplications(context.Context) ([]models.Application, error) {
	return f.MineRet, f.MineErr
}

func (f *fakeAPI) GetAllAdoptionApplications(context.Context) ([]models.Application, error) {
	return f.AllRet, nil
}

func (f *fakeAPI) UpdateAdoptionStatus(_ context.Context, id string, st models.ApplicationStatus) (string, error) {
	f.LastStatusID, f.LastStatus = id, st
	return "status updated", f.MutationErr
}

// ---- session helpers ----

type memStore struct {
	cred   *models.Credential
	setErr error
}

func (m *memStore) Get(context.Context) (*models.Credential, error) { return m.cred, nil }
func (m *memStore) Set(_ context.Context, tok string, u models.User) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.cred = &models.Credential{Token: tok, User: u}
	return nil
}
func (m *memStore) Clear(context.Context) error { m.cred = nil; return nil }

func newSession(t *testing.T) (*session.Manager, *memStore) {
	t.Helper()
	store := &memStore{}
	m := session.NewManager(store, auth.NewDecoder(auth.MissingExpiryInvalid), logging.NewNop())
	require.NoError(t, m.Initialize(context.Background()))
	return m, store
}

func loggedIn(t *testing.T, role models.Role) *session.Manager {
	t.Helper()
	m, _ := newSession(t)
	require.NoError(t, m.Login(context.Background(), "tok", models.User{ID: "u1", Name: "Ann", Role: role}))
	return m
}

