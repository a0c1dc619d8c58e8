// Package study provides the business logic for the study-tracking
// application: cache-fronted reads, transactional writes through the
// repository, the trash state machine and statistics.
package study

import (
	"context"
	"strings"
	"time"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/domain"
	"studytrack-backend/internal/repository"
	appErrors "studytrack-backend/pkg/errors"

	"go.uber.org/zap"
)

// QuestionWithExams pairs a question with the ids of the mock exams it is
// related to, resolved from the relation rows.
type QuestionWithExams struct {
	domain.Question
	MockExamIDs []string `json:"mockExamIds"`
}

// RestoreResult reports the outcome of a trash restore: the materialized
// question and any snapshot exam ids that no longer existed and were dropped.
type RestoreResult struct {
	Question       domain.Question `json:"question"`
	DroppedExamIDs []string        `json:"droppedExamIds,omitempty"`
}

// Service defines the business operations exposed to the HTTP layer. Every
// method is scoped to one owning user; reads go through the cache and writes
// invalidate the affected namespaces after the repository commit.
type Service interface {
	// Mock exams
	CreateMockExam(ctx context.Context, userID, title string) (*domain.MockExam, error)
	UpdateMockExam(ctx context.Context, userID, examID, title string) (*domain.MockExam, error)
	// DeleteMockExam refuses with a conflict error while relation rows still
	// reference the exam, unless force is set, in which case the exam and its
	// relation rows are removed together.
	DeleteMockExam(ctx context.Context, userID, examID string, force bool) error
	ListMockExams(ctx context.Context, userID string) ([]domain.MockExam, error)

	// Subjects and topics. Deletes are refused while questions reference them.
	CreateSubject(ctx context.Context, userID, name string) (*domain.Subject, error)
	UpdateSubject(ctx context.Context, userID, subjectID, name string) (*domain.Subject, error)
	DeleteSubject(ctx context.Context, userID, subjectID string) error
	ListSubjects(ctx context.Context, userID string) ([]domain.Subject, error)
	CreateTopic(ctx context.Context, userID, name string) (*domain.Topic, error)
	UpdateTopic(ctx context.Context, userID, topicID, name string) (*domain.Topic, error)
	DeleteTopic(ctx context.Context, userID, topicID string) error
	ListTopics(ctx context.Context, userID string) ([]domain.Topic, error)

	// Questions
	CreateQuestion(ctx context.Context, userID string, input CreateQuestionInput) (*QuestionWithExams, error)
	UpdateQuestion(ctx context.Context, userID, questionID string, input UpdateQuestionInput) (*QuestionWithExams, error)
	GetQuestion(ctx context.Context, userID, questionID string) (*QuestionWithExams, error)
	ListQuestions(ctx context.Context, userID string, filter domain.QuestionFilter) ([]QuestionWithExams, error)
	IncrementFailures(ctx context.Context, userID, questionID string) (*domain.Question, error)
	SetLearned(ctx context.Context, userID, questionID string, learned bool) (*domain.Question, error)
	ExamQuestionCounts(ctx context.Context, userID string) (map[string]int, error)

	// Trash state machine: DeleteQuestion moves a question to trash,
	// RestoreQuestion materializes a new question from the snapshot,
	// PurgeTrashedQuestion and EmptyTrash delete snapshots permanently.
	DeleteQuestion(ctx context.Context, userID, questionID string) (*domain.TrashedQuestion, error)
	ListTrash(ctx context.Context, userID string) ([]domain.TrashedQuestion, error)
	RestoreQuestion(ctx context.Context, userID, trashID string, allowPartial bool) (*RestoreResult, error)
	PurgeTrashedQuestion(ctx context.Context, userID, trashID string) error
	EmptyTrash(ctx context.Context, userID string) (int, error)

	// Statistics
	GetStatsSummary(ctx context.Context, userID string) (*domain.StatsSummary, error)
	GetStatsDetail(ctx context.Context, userID string) (*domain.StatsDetail, error)

	// Cache introspection, for the debug endpoints.
	CacheStats() cache.Stats
	ClearCache()
}

type service struct {
	repo   repository.Repository
	cache  *cache.Cache
	logger *zap.Logger
	now    func() time.Time
	idFn   func() string
}

// NewService creates a study service backed by the given repository and cache.
func NewService(repo repository.Repository, c *cache.Cache, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		cache:  c,
		logger: logger,
		now:    time.Now,
		idFn:   newID,
	}
}

func (s *service) CacheStats() cache.Stats {
	return s.cache.GetStats()
}

func (s *service) ClearCache() {
	s.cache.Clear()
}

// examSet returns the owner's mock exams keyed by id, read through the cache.
func (s *service) examSet(ctx context.Context, userID string) (map[string]domain.MockExam, error) {
	exams, err := s.ListMockExams(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]domain.MockExam, len(exams))
	for _, e := range exams {
		set[e.ID] = e
	}
	return set, nil
}

// verifyExamOwnership checks every referenced exam id against the owner's
// exams before a relation write, so orphaned relation rows cannot be created.
func (s *service) verifyExamOwnership(ctx context.Context, userID string, examIDs []string) error {
	set, err := s.examSet(ctx, userID)
	if err != nil {
		return err
	}
	var unknown []string
	for _, id := range examIDs {
		if _, ok := set[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return appErrors.NewValidation("unknown mock exam ids: " + strings.Join(unknown, ", "))
	}
	return nil
}
