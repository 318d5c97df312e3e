// Package models defines the client-side data models of the pet-adoption
// CLI: users and roles, pets, adoption applications, and the request and
// response bodies of the REST API.
package models

import (
	"encoding/json"
	"fmt"
)

// Role is the coarse permission class attached to a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleUser}

// Valid reports whether r is one of the known roles. The switch is meant to
// stay exhaustive: a new Role constant must be added here and to Roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole converts a string into a known Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is the profile returned by /login and /fetchUserDetails.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON accepts the backend's "_id" as well as "id".
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// Credential is what the token store keeps between runs.
type Credential struct {
	Token string
	User  User
}
