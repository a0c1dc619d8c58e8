package study

import (
	"context"
	"testing"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/domain"
	"studytrack-backend/internal/repository/mocks"
	appErrors "studytrack-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*service, *mocks.MockRepository) {
	t.Helper()
	repo := mocks.NewMockRepository()
	svc := NewService(repo, cache.New(zap.NewNop()), zap.NewNop()).(*service)
	return svc, repo
}

// fixture creates one subject, one topic and two mock exams for the user and
// returns them.
func fixture(t *testing.T, svc *service, userID string) (domain.Subject, domain.Topic, domain.MockExam, domain.MockExam) {
	t.Helper()
	ctx := context.Background()
	subject, err := svc.CreateSubject(ctx, userID, "Anatomy")
	require.NoError(t, err)
	topic, err := svc.CreateTopic(ctx, userID, "Heart")
	require.NoError(t, err)
	examA, err := svc.CreateMockExam(ctx, userID, "Exam1")
	require.NoError(t, err)
	examB, err := svc.CreateMockExam(ctx, userID, "Exam2")
	require.NoError(t, err)
	return *subject, *topic, *examA, *examB
}

func TestCreateQuestion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, examB := fixture(t, svc, "user-1")

	t.Run("creates question with relations", func(t *testing.T) {
		q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
			SubjectID:   subject.ID,
			TopicID:     topic.ID,
			Type:        domain.QuestionTypeError,
			Theory:      "aortic valve anatomy",
			MockExamIDs: []string{examA.ID, examB.ID},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, q.ID)
		assert.ElementsMatch(t, []string{examA.ID, examB.ID}, q.MockExamIDs)

		got, err := svc.GetQuestion(ctx, "user-1", q.ID)
		require.NoError(t, err)
		assert.Equal(t, "aortic valve anatomy", got.Theory)
		assert.ElementsMatch(t, []string{examA.ID, examB.ID}, got.MockExamIDs)
	})

	t.Run("rejects unknown mock exam", func(t *testing.T) {
		_, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
			SubjectID:   subject.ID,
			TopicID:     topic.ID,
			Type:        domain.QuestionTypeError,
			MockExamIDs: []string{"no-such-exam"},
		})
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})

	t.Run("rejects empty exam list", func(t *testing.T) {
		_, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
			SubjectID: subject.ID,
			TopicID:   topic.ID,
			Type:      domain.QuestionTypeDoubt,
		})
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})

	t.Run("rejects unknown subject", func(t *testing.T) {
		_, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
			SubjectID:   "no-such-subject",
			TopicID:     topic.ID,
			Type:        domain.QuestionTypeError,
			MockExamIDs: []string{examA.ID},
		})
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})
}

// Creating a question must be visible in the very next list and stats reads,
// even when both were cached before the write.
func TestInvalidationCompletenessOnCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")

	before, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
	require.NoError(t, err)
	require.Empty(t, before)
	detailBefore, err := svc.GetStatsDetail(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 0, detailBefore.TotalQuestions)

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		Theory:      "freshly created",
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	after, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, q.ID, after[0].ID)

	detailAfter, err := svc.GetStatsDetail(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, detailAfter.TotalQuestions)
	assert.Equal(t, 1, detailAfter.ExamCounts[examA.ID])
}

// Relations written with the question are read back complete, never partial.
func TestRelationAtomicity(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, examB := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		MockExamIDs: []string{examA.ID, examB.ID},
	})
	require.NoError(t, err)

	relations, err := repo.FindRelationsByQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)
	got := make([]string, 0, len(relations))
	for _, rel := range relations {
		got = append(got, rel.MockExamID)
	}
	assert.ElementsMatch(t, []string{examA.ID, examB.ID}, got)
}

func TestUpdateQuestion(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, examB := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		Theory:      "original theory",
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	t.Run("replaces exam set atomically", func(t *testing.T) {
		updated, err := svc.UpdateQuestion(ctx, "user-1", q.ID, UpdateQuestionInput{
			MockExamIDs: []string{examB.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{examB.ID}, updated.MockExamIDs)

		relations, err := repo.FindRelationsByQuestion(ctx, "user-1", q.ID)
		require.NoError(t, err)
		require.Len(t, relations, 1)
		assert.Equal(t, examB.ID, relations[0].MockExamID)
	})

	t.Run("nil exam slice keeps current relations", func(t *testing.T) {
		theory := "new theory"
		updated, err := svc.UpdateQuestion(ctx, "user-1", q.ID, UpdateQuestionInput{
			Theory: &theory,
		})
		require.NoError(t, err)
		assert.Equal(t, "new theory", updated.Theory)
		assert.Equal(t, []string{examB.ID}, updated.MockExamIDs)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdateQuestion(ctx, "user-1", "no-such-question", UpdateQuestionInput{})
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})
}

// A rejected update must commit nothing: the stored question, its relations
// and the cached reads all keep their pre-request state.
func TestUpdateQuestionRejectedCommitsNothing(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		Theory:      "original theory",
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	// Warm the list cache so a stale serve would be observable.
	listed, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	theory := "updated theory"
	_, err = svc.UpdateQuestion(ctx, "user-1", q.ID, UpdateQuestionInput{
		Theory:      &theory,
		MockExamIDs: []string{"no-such-exam"},
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))

	stored, err := repo.FindQuestionByID(ctx, "user-1", q.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "original theory", stored.Theory)

	relations, err := repo.FindRelationsByQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)
	require.Len(t, relations, 1)
	assert.Equal(t, examA.ID, relations[0].MockExamID)

	listed, err = svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "original theory", listed[0].Theory)

	t.Run("empty exam list rejected the same way", func(t *testing.T) {
		_, err := svc.UpdateQuestion(ctx, "user-1", q.ID, UpdateQuestionInput{
			Theory:      &theory,
			MockExamIDs: []string{},
		})
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))

		stored, err := repo.FindQuestionByID(ctx, "user-1", q.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "original theory", stored.Theory)
	})
}

// When the relation rewrite fails after the field update committed, the
// caches are invalidated so the next read reflects the store.
func TestUpdateQuestionPartialFailureInvalidatesCaches(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, examB := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		Theory:      "original theory",
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	listed, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	theory := "updated theory"
	repo.SetError("ReplaceQuestionRelations", assert.AnError)
	_, err = svc.UpdateQuestion(ctx, "user-1", q.ID, UpdateQuestionInput{
		Theory:      &theory,
		MockExamIDs: []string{examB.ID},
	})
	require.Error(t, err)
	repo.ClearErrors()

	// The field update committed; the cached list must not keep serving the
	// pre-write theory.
	listed, err = svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "updated theory", listed[0].Theory)
}

func TestListQuestionsFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, examB := fixture(t, svc, "user-1")

	mkQuestion := func(qt domain.QuestionType, examIDs []string, learned bool, failures int) QuestionWithExams {
		q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
			SubjectID:   subject.ID,
			TopicID:     topic.ID,
			Type:        qt,
			MockExamIDs: examIDs,
		})
		require.NoError(t, err)
		if learned {
			_, err = svc.SetLearned(ctx, "user-1", q.ID, true)
			require.NoError(t, err)
		}
		for i := 0; i < failures; i++ {
			_, err = svc.IncrementFailures(ctx, "user-1", q.ID)
			require.NoError(t, err)
		}
		return *q
	}

	q1 := mkQuestion(domain.QuestionTypeError, []string{examA.ID}, true, 0)
	q2 := mkQuestion(domain.QuestionTypeDoubt, []string{examB.ID}, false, 3)
	_ = mkQuestion(domain.QuestionTypeError, []string{examA.ID, examB.ID}, false, 1)

	t.Run("unfiltered returns all", func(t *testing.T) {
		got, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("empty non-nil slice matches nothing", func(t *testing.T) {
		got, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{MockExamIDs: []string{}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("by exam", func(t *testing.T) {
		got, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{MockExamIDs: []string{examB.ID}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by learned", func(t *testing.T) {
		learned := true
		got, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{IsLearned: &learned})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, q1.ID, got[0].ID)
	})

	t.Run("by min failures", func(t *testing.T) {
		min := 2
		got, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{MinFailures: &min})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, q2.ID, got[0].ID)
	})
}

func TestDeleteMockExam(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, examB := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	t.Run("conflict while relations exist", func(t *testing.T) {
		err := svc.DeleteMockExam(ctx, "user-1", examA.ID, false)
		require.Error(t, err)
		assert.True(t, appErrors.IsConflict(err))
	})

	t.Run("force removes exam and its relations", func(t *testing.T) {
		require.NoError(t, svc.DeleteMockExam(ctx, "user-1", examA.ID, true))
		relations, err := repo.FindRelationsByQuestion(ctx, "user-1", q.ID)
		require.NoError(t, err)
		assert.Empty(t, relations)
	})

	t.Run("unreferenced exam deletes without force", func(t *testing.T) {
		require.NoError(t, svc.DeleteMockExam(ctx, "user-1", examB.ID, false))
		exams, err := svc.ListMockExams(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, exams)
	})
}

func TestDeleteSubjectBlockedWhileReferenced(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	err = svc.DeleteSubject(ctx, "user-1", subject.ID)
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))

	err = svc.DeleteTopic(ctx, "user-1", topic.ID)
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))

	// Once the question is trashed the references are gone.
	_, err = svc.DeleteQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSubject(ctx, "user-1", subject.ID))
	require.NoError(t, svc.DeleteTopic(ctx, "user-1", topic.ID))
}

func TestWriteFailureLeavesCacheIntact(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")

	_, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	// Warm the list cache, then make the next write fail.
	listed, err := svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	repo.SetError("CreateQuestionWithRelations", assert.AnError)
	_, err = svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		MockExamIDs: []string{examA.ID},
	})
	require.Error(t, err)
	repo.ClearErrors()

	// The failed write must not have invalidated anything: the cached list is
	// still served and still correct.
	statsBefore := svc.CacheStats()
	listed, err = svc.ListQuestions(ctx, "user-1", domain.QuestionFilter{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Equal(t, statsBefore.Hits+2, svc.CacheStats().Hits)
}
