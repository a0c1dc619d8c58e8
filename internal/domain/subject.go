package domain

import (
	"time"

	appErrors "studytrack-backend/pkg/errors"
)

// Subject is a broad study area (e.g. "Anatomy"). Questions reference exactly
// one subject; a subject cannot be deleted while referenced.
type Subject struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s Subject) Validate() error {
	if s.UserID == "" {
		return appErrors.NewValidation("subject owner is required")
	}
	if s.Name == "" {
		return appErrors.NewValidation("subject name is required")
	}
	return nil
}

// Topic is a narrower unit inside a subject (e.g. "Heart"). Same reference
// rules as Subject.
type Topic struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Topic) Validate() error {
	if t.UserID == "" {
		return appErrors.NewValidation("topic owner is required")
	}
	if t.Name == "" {
		return appErrors.NewValidation("topic name is required")
	}
	return nil
}
