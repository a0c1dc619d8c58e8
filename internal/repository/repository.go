// Package repository defines the storage contracts for the study-tracking
// domain. Implementations live in subpackages (ddb for DynamoDB, mocks for
// tests); this is the only boundary the service layer talks to.
package repository

import (
	"context"

	"studytrack-backend/internal/domain"
)

// Repository is the persistence interface for all domain entities.
//
// Find* methods return (nil, nil) when the record does not exist; callers map
// that to a not-found error at their own boundary. Multi-document operations
// (question+relations, trash moves) are atomic: implementations commit all
// writes in one batch or none of them.
type Repository interface {
	// Mock exams
	CreateMockExam(ctx context.Context, exam domain.MockExam) error
	UpdateMockExam(ctx context.Context, exam domain.MockExam) error
	DeleteMockExam(ctx context.Context, userID, examID string) error
	// DeleteMockExamWithRelations removes the exam and every relation row that
	// references it in one atomic batch.
	DeleteMockExamWithRelations(ctx context.Context, userID, examID string) error
	FindMockExamByID(ctx context.Context, userID, examID string) (*domain.MockExam, error)
	FindMockExams(ctx context.Context, userID string) ([]domain.MockExam, error)

	// Subjects
	CreateSubject(ctx context.Context, subject domain.Subject) error
	UpdateSubject(ctx context.Context, subject domain.Subject) error
	DeleteSubject(ctx context.Context, userID, subjectID string) error
	FindSubjectByID(ctx context.Context, userID, subjectID string) (*domain.Subject, error)
	FindSubjects(ctx context.Context, userID string) ([]domain.Subject, error)

	// Topics
	CreateTopic(ctx context.Context, topic domain.Topic) error
	UpdateTopic(ctx context.Context, topic domain.Topic) error
	DeleteTopic(ctx context.Context, userID, topicID string) error
	FindTopicByID(ctx context.Context, userID, topicID string) (*domain.Topic, error)
	FindTopics(ctx context.Context, userID string) ([]domain.Topic, error)

	// Questions and the question<->mock-exam relation.
	// CreateQuestionWithRelations writes the question and one relation row per
	// exam id atomically.
	CreateQuestionWithRelations(ctx context.Context, question domain.Question, examIDs []string) error
	UpdateQuestion(ctx context.Context, question domain.Question) error
	// ReplaceQuestionRelations deletes the question's existing relation rows
	// and writes the new set in the same batch, so no reader observes a state
	// where the question belongs to neither the old nor the new set.
	ReplaceQuestionRelations(ctx context.Context, userID, questionID string, examIDs []string) error
	FindQuestionByID(ctx context.Context, userID, questionID string) (*domain.Question, error)
	FindQuestions(ctx context.Context, userID string) ([]domain.Question, error)
	FindRelationsByQuestion(ctx context.Context, userID, questionID string) ([]domain.QuestionMockExam, error)
	FindRelationsByExam(ctx context.Context, userID, examID string) ([]domain.QuestionMockExam, error)
	FindAllRelations(ctx context.Context, userID string) ([]domain.QuestionMockExam, error)

	// Trash. MoveQuestionToTrash deletes the question and its relation rows
	// and writes the snapshot in one batch; RestoreTrashedQuestion does the
	// reverse for a freshly materialized question.
	MoveQuestionToTrash(ctx context.Context, snapshot domain.TrashedQuestion) error
	RestoreTrashedQuestion(ctx context.Context, question domain.Question, examIDs []string, trashID string) error
	FindTrashedQuestionByID(ctx context.Context, userID, trashID string) (*domain.TrashedQuestion, error)
	FindTrashedQuestions(ctx context.Context, userID string) ([]domain.TrashedQuestion, error)
	// PurgeTrashedQuestion returns a not-found error when the trash row does
	// not exist, which makes double-purge observable but harmless.
	PurgeTrashedQuestion(ctx context.Context, userID, trashID string) error
	// PurgeAllTrash removes every trash row for the owner and reports how many
	// were removed. Other owners' trash is untouched.
	PurgeAllTrash(ctx context.Context, userID string) (int, error)
}
