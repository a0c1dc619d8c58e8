package study

import (
	"context"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/domain"
	appErrors "studytrack-backend/pkg/errors"
)

// CreateQuestionInput carries the fields for a new question. MockExamIDs must
// name at least one exam the caller owns.
type CreateQuestionInput struct {
	SubjectID   string
	TopicID     string
	Type        domain.QuestionType
	Theory      string
	MockExamIDs []string
}

// UpdateQuestionInput carries partial updates. Nil pointers leave the field
// untouched; a nil MockExamIDs slice keeps the current relation set, a
// non-nil one replaces it.
type UpdateQuestionInput struct {
	SubjectID   *string
	TopicID     *string
	Type        *domain.QuestionType
	Theory      *string
	IsLearned   *bool
	MockExamIDs []string
}

func (s *service) CreateQuestion(ctx context.Context, userID string, input CreateQuestionInput) (*QuestionWithExams, error) {
	if len(input.MockExamIDs) == 0 {
		return nil, appErrors.NewValidation("question must reference at least one mock exam")
	}
	question := domain.Question{
		ID:        s.idFn(),
		UserID:    userID,
		SubjectID: input.SubjectID,
		TopicID:   input.TopicID,
		Type:      input.Type,
		Theory:    input.Theory,
		CreatedAt: s.now(),
	}
	if err := question.Validate(); err != nil {
		return nil, err
	}
	if err := s.verifyTaxonomy(ctx, userID, question.SubjectID, question.TopicID); err != nil {
		return nil, err
	}
	if err := s.verifyExamOwnership(ctx, userID, input.MockExamIDs); err != nil {
		return nil, err
	}
	if err := s.repo.CreateQuestionWithRelations(ctx, question, input.MockExamIDs); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindQuestion, opCreate, userID)
	return &QuestionWithExams{Question: question, MockExamIDs: input.MockExamIDs}, nil
}

func (s *service) UpdateQuestion(ctx context.Context, userID, questionID string, input UpdateQuestionInput) (*QuestionWithExams, error) {
	existing, err := s.repo.FindQuestionByID(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewNotFound("question not found")
	}
	if input.SubjectID != nil {
		existing.SubjectID = *input.SubjectID
	}
	if input.TopicID != nil {
		existing.TopicID = *input.TopicID
	}
	if input.Type != nil {
		existing.Type = *input.Type
	}
	if input.Theory != nil {
		existing.Theory = *input.Theory
	}
	if input.IsLearned != nil {
		existing.IsLearned = *input.IsLearned
	}
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if input.SubjectID != nil || input.TopicID != nil {
		if err := s.verifyTaxonomy(ctx, userID, existing.SubjectID, existing.TopicID); err != nil {
			return nil, err
		}
	}
	// All preconditions run before the first repository write, so a rejected
	// request commits nothing.
	examIDs := input.MockExamIDs
	if examIDs != nil {
		if len(examIDs) == 0 {
			return nil, appErrors.NewValidation("question must reference at least one mock exam")
		}
		if err := s.verifyExamOwnership(ctx, userID, examIDs); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateQuestion(ctx, *existing); err != nil {
		return nil, err
	}
	if examIDs != nil {
		if err := s.repo.ReplaceQuestionRelations(ctx, userID, questionID, examIDs); err != nil {
			// The field update above has committed; the caches must not keep
			// serving its pre-write state even though this request fails.
			s.invalidateAfterWrite(kindQuestion, opUpdate, userID)
			return nil, err
		}
	} else {
		relations, err := s.repo.FindRelationsByQuestion(ctx, userID, questionID)
		if err != nil {
			s.invalidateAfterWrite(kindQuestion, opUpdate, userID)
			return nil, err
		}
		examIDs = relationExamIDs(relations)
	}
	s.invalidateAfterWrite(kindQuestion, opUpdate, userID)
	return &QuestionWithExams{Question: *existing, MockExamIDs: examIDs}, nil
}

func (s *service) GetQuestion(ctx context.Context, userID, questionID string) (*QuestionWithExams, error) {
	question, err := cache.GetOrFetch(ctx, s.cache, cache.NamespaceQuestion, userID, questionID, func(ctx context.Context) (*domain.Question, error) {
		return s.repo.FindQuestionByID(ctx, userID, questionID)
	})
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, appErrors.NewNotFound("question not found")
	}
	relations, err := cache.GetOrFetch(ctx, s.cache, cache.NamespaceRelations, userID, questionID, func(ctx context.Context) ([]domain.QuestionMockExam, error) {
		return s.repo.FindRelationsByQuestion(ctx, userID, questionID)
	})
	if err != nil {
		return nil, err
	}
	return &QuestionWithExams{Question: *question, MockExamIDs: relationExamIDs(relations)}, nil
}

// ListQuestions reads the owner's questions and the bulk relation set through
// the cache, joins them in memory and applies the filter. The bulk relation
// read avoids one relation query per question.
func (s *service) ListQuestions(ctx context.Context, userID string, filter domain.QuestionFilter) ([]QuestionWithExams, error) {
	questions, err := cache.GetOrFetch(ctx, s.cache, cache.NamespaceQuestions, userID, "", func(ctx context.Context) ([]domain.Question, error) {
		fetched, err := s.repo.FindQuestions(ctx, userID)
		if err != nil {
			return nil, err
		}
		// Warm the per-question entries so detail reads after a listing hit.
		entries := make(map[string]any, len(fetched))
		for i := range fetched {
			entries[fetched[i].ID] = &fetched[i]
		}
		s.cache.SetBatch(cache.NamespaceQuestion, userID, entries)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	relations, err := s.allRelations(ctx, userID)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[string][]string)
	for _, rel := range relations {
		byQuestion[rel.QuestionID] = append(byQuestion[rel.QuestionID], rel.MockExamID)
	}

	result := make([]QuestionWithExams, 0, len(questions))
	for _, q := range questions {
		examIDs := byQuestion[q.ID]
		if !filter.Matches(q, examIDs) {
			continue
		}
		result = append(result, QuestionWithExams{Question: q, MockExamIDs: examIDs})
	}
	return result, nil
}

func (s *service) IncrementFailures(ctx context.Context, userID, questionID string) (*domain.Question, error) {
	existing, err := s.repo.FindQuestionByID(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewNotFound("question not found")
	}
	existing.FailureCount++
	if err := s.repo.UpdateQuestion(ctx, *existing); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindQuestion, opUpdate, userID)
	return existing, nil
}

func (s *service) SetLearned(ctx context.Context, userID, questionID string, learned bool) (*domain.Question, error) {
	existing, err := s.repo.FindQuestionByID(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewNotFound("question not found")
	}
	existing.IsLearned = learned
	if err := s.repo.UpdateQuestion(ctx, *existing); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindQuestion, opUpdate, userID)
	return existing, nil
}

// ExamQuestionCounts reports how many questions relate to each of the owner's
// mock exams, derived from the bulk relation set.
func (s *service) ExamQuestionCounts(ctx context.Context, userID string) (map[string]int, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.NamespaceExamCounts, userID, "", func(ctx context.Context) (map[string]int, error) {
		relations, err := s.repo.FindAllRelations(ctx, userID)
		if err != nil {
			return nil, err
		}
		counts := make(map[string]int)
		for _, rel := range relations {
			counts[rel.MockExamID]++
		}
		return counts, nil
	})
}

func (s *service) allRelations(ctx context.Context, userID string) ([]domain.QuestionMockExam, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.NamespaceRelationsAll, userID, "", func(ctx context.Context) ([]domain.QuestionMockExam, error) {
		return s.repo.FindAllRelations(ctx, userID)
	})
}

// verifyTaxonomy checks that the referenced subject and topic exist for the
// owner, using the cached lists.
func (s *service) verifyTaxonomy(ctx context.Context, userID, subjectID, topicID string) error {
	subjects, err := s.ListSubjects(ctx, userID)
	if err != nil {
		return err
	}
	subjectOK := false
	for _, sub := range subjects {
		if sub.ID == subjectID {
			subjectOK = true
			break
		}
	}
	if !subjectOK {
		return appErrors.NewValidation("unknown subject id: " + subjectID)
	}
	topics, err := s.ListTopics(ctx, userID)
	if err != nil {
		return err
	}
	for _, t := range topics {
		if t.ID == topicID {
			return nil
		}
	}
	return appErrors.NewValidation("unknown topic id: " + topicID)
}

func relationExamIDs(relations []domain.QuestionMockExam) []string {
	ids := make([]string, 0, len(relations))
	for _, rel := range relations {
		ids = append(ids, rel.MockExamID)
	}
	return ids
}
