// Package domain defines the entities of the study-tracking application.
// Every entity is scoped to exactly one owning user, identified by the opaque
// subject id supplied by the identity provider.
package domain

import (
	"time"

	appErrors "studytrack-backend/pkg/errors"
)

// QuestionType classifies why a question was recorded.
type QuestionType string

const (
	QuestionTypeError QuestionType = "error"
	QuestionTypeDoubt QuestionType = "doubt"
)

// IsValid reports whether the type is one of the known values.
func (t QuestionType) IsValid() bool {
	return t == QuestionTypeError || t == QuestionTypeDoubt
}

// Question is an exam-preparation item (a mistake or a doubt) linked to a
// subject, a topic and one or more mock exams.
type Question struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	SubjectID    string       `json:"subjectId"`
	TopicID      string       `json:"topicId"`
	Type         QuestionType `json:"type"`
	Theory       string       `json:"theory"`
	IsLearned    bool         `json:"isLearned"`
	FailureCount int          `json:"failureCount"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Validate checks the question's own invariants.
func (q Question) Validate() error {
	if q.UserID == "" {
		return appErrors.NewValidation("question owner is required")
	}
	if q.SubjectID == "" {
		return appErrors.NewValidation("question subject is required")
	}
	if q.TopicID == "" {
		return appErrors.NewValidation("question topic is required")
	}
	if !q.Type.IsValid() {
		return appErrors.NewValidation("question type must be 'error' or 'doubt'")
	}
	if q.FailureCount < 0 {
		return appErrors.NewValidation("failure count cannot be negative")
	}
	return nil
}

// QuestionMockExam is one edge of the many-to-many relation between questions
// and mock exams.
type QuestionMockExam struct {
	QuestionID string    `json:"questionId"`
	MockExamID string    `json:"mockExamId"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
}
