package study

import (
	"context"
	"testing"

	"studytrack-backend/internal/domain"
	appErrors "studytrack-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Deleting a question captures a frozen snapshot; restoring it materializes a
// new question with the same content and relations and removes the snapshot.
func TestTrashRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		Theory:      "mitral valve",
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	snapshot, err := svc.DeleteQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, snapshot.OriginalID)
	assert.Equal(t, "Anatomy", snapshot.SubjectName)
	assert.Equal(t, "Heart", snapshot.TopicName)
	assert.Equal(t, []string{examA.ID}, snapshot.MockExamIDs)
	assert.Equal(t, []string{"Exam1"}, snapshot.MockExamTitles)
	assert.False(t, snapshot.DeletedAt.IsZero())

	// The question is gone from active listings.
	_, err = svc.GetQuestion(ctx, "user-1", q.ID)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))

	restored, err := svc.RestoreQuestion(ctx, "user-1", snapshot.ID, false)
	require.NoError(t, err)
	assert.NotEqual(t, q.ID, restored.Question.ID)
	assert.Equal(t, subject.ID, restored.Question.SubjectID)
	assert.Equal(t, topic.ID, restored.Question.TopicID)
	assert.Equal(t, domain.QuestionTypeError, restored.Question.Type)
	assert.Equal(t, "mitral valve", restored.Question.Theory)
	assert.Empty(t, restored.DroppedExamIDs)

	got, err := svc.GetQuestion(ctx, "user-1", restored.Question.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{examA.ID}, got.MockExamIDs)

	trash, err := svc.ListTrash(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, trash)
}

// The snapshot is a frozen copy: renaming the subject after deletion does not
// change what the trash entry shows.
func TestTrashSnapshotIsFrozen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeDoubt,
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)

	snapshot, err := svc.DeleteQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)

	_, err = svc.UpdateSubject(ctx, "user-1", subject.ID, "Renamed")
	require.NoError(t, err)

	trash, err := svc.ListTrash(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, snapshot.ID, trash[0].ID)
	assert.Equal(t, "Anatomy", trash[0].SubjectName)
}

func TestRestoreWithMissingExam(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, examB := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		MockExamIDs: []string{examA.ID, examB.ID},
	})
	require.NoError(t, err)
	snapshot, err := svc.DeleteQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)

	// One of the snapshot's exams disappears while the question sits in trash.
	require.NoError(t, svc.DeleteMockExam(ctx, "user-1", examB.ID, false))

	t.Run("strict restore is refused", func(t *testing.T) {
		_, err := svc.RestoreQuestion(ctx, "user-1", snapshot.ID, false)
		require.Error(t, err)
		assert.True(t, appErrors.IsConflict(err))
		assert.Contains(t, err.Error(), examB.ID)
	})

	t.Run("partial restore relinks survivors and reports the dropped", func(t *testing.T) {
		result, err := svc.RestoreQuestion(ctx, "user-1", snapshot.ID, true)
		require.NoError(t, err)
		assert.Equal(t, []string{examB.ID}, result.DroppedExamIDs)

		got, err := svc.GetQuestion(ctx, "user-1", result.Question.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{examA.ID}, got.MockExamIDs)
	})
}

// A restored question must end up linked to at least one mock exam; when every
// exam in the snapshot is gone, even a partial restore is refused and the
// snapshot stays in the trash.
func TestRestoreRefusedWhenNoExamSurvives(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")

	q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
		SubjectID:   subject.ID,
		TopicID:     topic.ID,
		Type:        domain.QuestionTypeError,
		MockExamIDs: []string{examA.ID},
	})
	require.NoError(t, err)
	snapshot, err := svc.DeleteQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMockExam(ctx, "user-1", examA.ID, false))

	_, err = svc.RestoreQuestion(ctx, "user-1", snapshot.ID, true)
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))

	// Nothing was materialized and the snapshot is still restorable later.
	questions, err := repo.FindQuestions(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, questions)

	trash, err := svc.ListTrash(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, snapshot.ID, trash[0].ID)
}

func TestRestoreUnknownTrashID(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RestoreQuestion(context.Background(), "user-1", "no-such-entry", false)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

// Purging the same trash entry twice reports not-found on the second call.
func TestPurgeIdempotence(t *testing.T) {
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
	snapshot, err := svc.DeleteQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)

	require.NoError(t, svc.PurgeTrashedQuestion(ctx, "user-1", snapshot.ID))

	err = svc.PurgeTrashedQuestion(ctx, "user-1", snapshot.ID)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestEmptyTrash(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")
	otherSubject, otherTopic, otherExam, _ := fixture(t, svc, "user-2")

	for i := 0; i < 3; i++ {
		q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
			SubjectID:   subject.ID,
			TopicID:     topic.ID,
			Type:        domain.QuestionTypeError,
			MockExamIDs: []string{examA.ID},
		})
		require.NoError(t, err)
		_, err = svc.DeleteQuestion(ctx, "user-1", q.ID)
		require.NoError(t, err)
	}
	otherQ, err := svc.CreateQuestion(ctx, "user-2", CreateQuestionInput{
		SubjectID:   otherSubject.ID,
		TopicID:     otherTopic.ID,
		Type:        domain.QuestionTypeError,
		MockExamIDs: []string{otherExam.ID},
	})
	require.NoError(t, err)
	_, err = svc.DeleteQuestion(ctx, "user-2", otherQ.ID)
	require.NoError(t, err)

	purged, err := svc.EmptyTrash(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, purged)

	trash, err := svc.ListTrash(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, trash)

	// The other owner's trash is untouched.
	otherTrash, err := svc.ListTrash(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, otherTrash, 1)
}
