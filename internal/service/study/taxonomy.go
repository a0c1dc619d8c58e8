package study

import (
	"context"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/domain"
	appErrors "studytrack-backend/pkg/errors"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.New().String()
}

func (s *service) CreateMockExam(ctx context.Context, userID, title string) (*domain.MockExam, error) {
	exam := domain.MockExam{
		ID:        s.idFn(),
		UserID:    userID,
		Title:     title,
		CreatedAt: s.now(),
	}
	if err := exam.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateMockExam(ctx, exam); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindMockExam, opCreate, userID)
	return &exam, nil
}

func (s *service) UpdateMockExam(ctx context.Context, userID, examID, title string) (*domain.MockExam, error) {
	existing, err := s.repo.FindMockExamByID(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewNotFound("mock exam not found")
	}
	existing.Title = title
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMockExam(ctx, *existing); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindMockExam, opUpdate, userID)
	return existing, nil
}

// DeleteMockExam refuses while relation rows reference the exam. With force
// set, the exam and its relation rows are removed in one atomic batch.
func (s *service) DeleteMockExam(ctx context.Context, userID, examID string, force bool) error {
	existing, err := s.repo.FindMockExamByID(ctx, userID, examID)
	if err != nil {
		return err
	}
	if existing == nil {
		return appErrors.NewNotFound("mock exam not found")
	}
	relations, err := s.repo.FindRelationsByExam(ctx, userID, examID)
	if err != nil {
		return err
	}
	if len(relations) > 0 {
		if !force {
			return appErrors.NewConflict("mock exam still has related questions")
		}
		if err := s.repo.DeleteMockExamWithRelations(ctx, userID, examID); err != nil {
			return err
		}
	} else {
		if err := s.repo.DeleteMockExam(ctx, userID, examID); err != nil {
			return err
		}
	}
	s.invalidateAfterWrite(kindMockExam, opDelete, userID)
	return nil
}

func (s *service) ListMockExams(ctx context.Context, userID string) ([]domain.MockExam, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.NamespaceMockExams, userID, "", func(ctx context.Context) ([]domain.MockExam, error) {
		return s.repo.FindMockExams(ctx, userID)
	})
}

func (s *service) CreateSubject(ctx context.Context, userID, name string) (*domain.Subject, error) {
	subject := domain.Subject{
		ID:        s.idFn(),
		UserID:    userID,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindSubject, opCreate, userID)
	return &subject, nil
}

func (s *service) UpdateSubject(ctx context.Context, userID, subjectID, name string) (*domain.Subject, error) {
	existing, err := s.repo.FindSubjectByID(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewNotFound("subject not found")
	}
	existing.Name = name
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSubject(ctx, *existing); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindSubject, opUpdate, userID)
	return existing, nil
}

// DeleteSubject refuses while any active question references the subject.
func (s *service) DeleteSubject(ctx context.Context, userID, subjectID string) error {
	existing, err := s.repo.FindSubjectByID(ctx, userID, subjectID)
	if err != nil {
		return err
	}
	if existing == nil {
		return appErrors.NewNotFound("subject not found")
	}
	questions, err := s.repo.FindQuestions(ctx, userID)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if q.SubjectID == subjectID {
			return appErrors.NewConflict("subject still has questions")
		}
	}
	if err := s.repo.DeleteSubject(ctx, userID, subjectID); err != nil {
		return err
	}
	s.invalidateAfterWrite(kindSubject, opDelete, userID)
	return nil
}

func (s *service) ListSubjects(ctx context.Context, userID string) ([]domain.Subject, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.NamespaceSubjects, userID, "", func(ctx context.Context) ([]domain.Subject, error) {
		return s.repo.FindSubjects(ctx, userID)
	})
}

func (s *service) CreateTopic(ctx context.Context, userID, name string) (*domain.Topic, error) {
	topic := domain.Topic{
		ID:        s.idFn(),
		UserID:    userID,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := topic.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindTopic, opCreate, userID)
	return &topic, nil
}

func (s *service) UpdateTopic(ctx context.Context, userID, topicID, name string) (*domain.Topic, error) {
	existing, err := s.repo.FindTopicByID(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewNotFound("topic not found")
	}
	existing.Name = name
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTopic(ctx, *existing); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindTopic, opUpdate, userID)
	return existing, nil
}

// DeleteTopic refuses while any active question references the topic.
func (s *service) DeleteTopic(ctx context.Context, userID, topicID string) error {
	existing, err := s.repo.FindTopicByID(ctx, userID, topicID)
	if err != nil {
		return err
	}
	if existing == nil {
		return appErrors.NewNotFound("topic not found")
	}
	questions, err := s.repo.FindQuestions(ctx, userID)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if q.TopicID == topicID {
			return appErrors.NewConflict("topic still has questions")
		}
	}
	if err := s.repo.DeleteTopic(ctx, userID, topicID); err != nil {
		return err
	}
	s.invalidateAfterWrite(kindTopic, opDelete, userID)
	return nil
}

func (s *service) ListTopics(ctx context.Context, userID string) ([]domain.Topic, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.NamespaceTopics, userID, "", func(ctx context.Context) ([]domain.Topic, error) {
		return s.repo.FindTopics(ctx, userID)
	})
}
