package study

import (
	"context"
	"strings"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/domain"
	appErrors "studytrack-backend/pkg/errors"

	"go.uber.org/zap"
)

// DeleteQuestion moves a question to trash. The snapshot denormalizes the
// subject name, topic name and mock exam titles at deletion time: the
// referenced rows may later be renamed or deleted without changing what the
// trash entry shows.
func (s *service) DeleteQuestion(ctx context.Context, userID, questionID string) (*domain.TrashedQuestion, error) {
	question, err := s.repo.FindQuestionByID(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, appErrors.NewNotFound("question not found")
	}
	relations, err := s.repo.FindRelationsByQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	snapshot := domain.TrashedQuestion{
		ID:           s.idFn(),
		OriginalID:   question.ID,
		UserID:       userID,
		SubjectID:    question.SubjectID,
		TopicID:      question.TopicID,
		Type:         question.Type,
		Theory:       question.Theory,
		IsLearned:    question.IsLearned,
		FailureCount: question.FailureCount,
		CreatedAt:    question.CreatedAt,
		DeletedAt:    s.now(),
	}
	if subject, err := s.repo.FindSubjectByID(ctx, userID, question.SubjectID); err != nil {
		return nil, err
	} else if subject != nil {
		snapshot.SubjectName = subject.Name
	}
	if topic, err := s.repo.FindTopicByID(ctx, userID, question.TopicID); err != nil {
		return nil, err
	} else if topic != nil {
		snapshot.TopicName = topic.Name
	}
	examSet, err := s.examSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, rel := range relations {
		snapshot.MockExamIDs = append(snapshot.MockExamIDs, rel.MockExamID)
		if exam, ok := examSet[rel.MockExamID]; ok {
			snapshot.MockExamTitles = append(snapshot.MockExamTitles, exam.Title)
		} else {
			snapshot.MockExamTitles = append(snapshot.MockExamTitles, "")
		}
	}

	if err := s.repo.MoveQuestionToTrash(ctx, snapshot); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindQuestion, opDelete, userID)
	s.logger.Info("question moved to trash",
		zap.String("user_id", userID),
		zap.String("question_id", questionID),
		zap.String("trash_id", snapshot.ID))
	return &snapshot, nil
}

func (s *service) ListTrash(ctx context.Context, userID string) ([]domain.TrashedQuestion, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.NamespaceTrash, userID, "", func(ctx context.Context) ([]domain.TrashedQuestion, error) {
		return s.repo.FindTrashedQuestions(ctx, userID)
	})
}

// RestoreQuestion materializes a new question from the snapshot and relinks
// it to the snapshot's mock exams. Exams deleted since the snapshot was taken
// make the restore fail with a conflict, unless allowPartial is set, in which
// case only the surviving exams are relinked and the dropped ids are reported.
func (s *service) RestoreQuestion(ctx context.Context, userID, trashID string, allowPartial bool) (*RestoreResult, error) {
	snapshot, err := s.repo.FindTrashedQuestionByID(ctx, userID, trashID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, appErrors.NewNotFound("trash entry not found")
	}

	examSet, err := s.examSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	var surviving, dropped []string
	for _, examID := range snapshot.MockExamIDs {
		if _, ok := examSet[examID]; ok {
			surviving = append(surviving, examID)
		} else {
			dropped = append(dropped, examID)
		}
	}
	if len(dropped) > 0 && !allowPartial {
		return nil, appErrors.NewConflict("missing mock exams: " + strings.Join(dropped, ", "))
	}
	// A question always references at least one mock exam; a restore that
	// would relink nothing is refused even when partial restores are allowed.
	if len(surviving) == 0 {
		return nil, appErrors.NewConflict("cannot restore: none of the snapshot's mock exams still exist")
	}

	question := domain.Question{
		ID:           s.idFn(),
		UserID:       userID,
		SubjectID:    snapshot.SubjectID,
		TopicID:      snapshot.TopicID,
		Type:         snapshot.Type,
		Theory:       snapshot.Theory,
		IsLearned:    snapshot.IsLearned,
		FailureCount: snapshot.FailureCount,
		CreatedAt:    s.now(),
	}
	if err := s.repo.RestoreTrashedQuestion(ctx, question, surviving, trashID); err != nil {
		return nil, err
	}
	s.invalidateAfterWrite(kindTrash, opCreate, userID)
	s.logger.Info("question restored from trash",
		zap.String("user_id", userID),
		zap.String("trash_id", trashID),
		zap.String("question_id", question.ID),
		zap.Int("dropped_exams", len(dropped)))
	return &RestoreResult{Question: question, DroppedExamIDs: dropped}, nil
}

func (s *service) PurgeTrashedQuestion(ctx context.Context, userID, trashID string) error {
	if err := s.repo.PurgeTrashedQuestion(ctx, userID, trashID); err != nil {
		return err
	}
	s.invalidateAfterWrite(kindTrash, opDelete, userID)
	return nil
}

func (s *service) EmptyTrash(ctx context.Context, userID string) (int, error) {
	purged, err := s.repo.PurgeAllTrash(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.invalidateAfterWrite(kindTrash, opDelete, userID)
	s.logger.Info("trash emptied",
		zap.String("user_id", userID),
		zap.Int("purged", purged))
	return purged, nil
}
