package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ApplicationStatus is the workflow state of an adoption application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return st, nil
}

// PetRef is the "pet" field of an application: either a bare id or an
// embedded pet document.
type PetRef struct {
	ID string
}

func (p *PetRef) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		p.ID = id
		return nil
	}
	var doc struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	p.ID = doc.ID
	return nil
}

type Application struct {
	ID        string            `json:"_id"`
	Pet       PetRef            `json:"pet"`
	PetName   string            `json:"petName"`
	PetBreed  string            `json:"petBreed"`
	PetImage  string            `json:"petImage,omitempty"`
	UserName  string            `json:"userName"`
	UserEmail string            `json:"userEmail"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}
