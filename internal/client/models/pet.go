package models

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// PetStatus is the adoption state of a pet as reported by the backend.
type PetStatus string

const (
	PetAvailable PetStatus = "available"
	PetPending   PetStatus = "pending"
	PetAdopted   PetStatus = "adopted"
)

// Suggested values shown by the admin pet form.
var (
	Breeds    = []string{"Dog", "Cat", "Bird", "Rabbit"}
	AgeGroups = []string{"Puppy/Kitten", "Young", "Adult", "Senior"}
)

// Age is either a number of years or an age group label; the backend
// sends both shapes.
type Age string

func (a *Age) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Age(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Age(n.String())
	return nil
}

type Pet struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Breed       string    `json:"breed"`
	Age         Age       `json:"age"`
	Status      PetStatus `json:"status"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// PetInput is the body of /createPets and /updatePets. ID is only sent on
// update.
type PetInput struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Breed       string    `json:"breed"`
	Age         string    `json:"age"`
	Status      PetStatus `json:"status,omitempty"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// PetQuery holds the listing filters of /getAllPets.
type PetQuery struct {
	Page   int
	Limit  int
	Search string
	Breed  string
	Age    string
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Values encodes q as query parameters. Empty filters are omitted and
// page/limit fall back to their defaults.
func (q PetQuery) Values() url.Values {
	v := url.Values{}
	page, limit := q.Page, q.Limit
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if s := strings.TrimSpace(q.Breed); s != "" {
		v.Set("breed", s)
	}
	if s := strings.TrimSpace(q.Age); s != "" {
		v.Set("age", s)
	}
	return v
}

// PetPage is one page of /getAllPets.
type PetPage struct {
	Pets       []Pet `json:"pets"`
	TotalCount int   `json:"totalCount"`
}
