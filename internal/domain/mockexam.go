package domain

import (
	"time"

	appErrors "studytrack-backend/pkg/errors"
)

// MockExam groups questions for one practice exam session.
type MockExam struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the exam's own invariants.
func (m MockExam) Validate() error {
	if m.UserID == "" {
		return appErrors.NewValidation("mock exam owner is required")
	}
	if m.Title == "" {
		return appErrors.NewValidation("mock exam title is required")
	}
	return nil
}
