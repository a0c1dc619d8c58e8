package study

import (
	"context"
	"testing"

	"studytrack-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Summary stats computed from cached data must agree with freshly fetched
// data after any write that changes isLearned, once invalidation has run.
func TestStatsSummaryConsistency(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, _ := fixture(t, svc, "user-1")

	ids := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
			SubjectID:   subject.ID,
			TopicID:     topic.ID,
			Type:        domain.QuestionTypeError,
			MockExamIDs: []string{examA.ID},
		})
		require.NoError(t, err)
		ids = append(ids, q.ID)
	}
	for _, id := range ids[:4] {
		_, err := svc.SetLearned(ctx, "user-1", id, true)
		require.NoError(t, err)
	}

	summary, err := svc.GetStatsSummary(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalQuestions)
	assert.Equal(t, 4, summary.LearnedQuestions)
	assert.InDelta(t, 40.0, summary.ProgressPercentage, 0.001)

	// Flip one more and read again: the cached summary must have been
	// invalidated by the write.
	_, err = svc.SetLearned(ctx, "user-1", ids[4], true)
	require.NoError(t, err)

	summary, err = svc.GetStatsSummary(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, summary.LearnedQuestions)
	assert.InDelta(t, 50.0, summary.ProgressPercentage, 0.001)
}

func TestStatsSummaryEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	summary, err := svc.GetStatsSummary(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalQuestions)
	assert.Zero(t, summary.ProgressPercentage)
}

func TestStatsDetail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	subject, topic, examA, examB := fixture(t, svc, "user-1")
	physiology, err := svc.CreateSubject(ctx, "user-1", "Physiology")
	require.NoError(t, err)
	circulation, err := svc.CreateTopic(ctx, "user-1", "Circulation")
	require.NoError(t, err)

	mk := func(subjectID, topicID string, examIDs []string, learned bool, failures int) {
		q, err := svc.CreateQuestion(ctx, "user-1", CreateQuestionInput{
			SubjectID:   subjectID,
			TopicID:     topicID,
			Type:        domain.QuestionTypeError,
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
	}

	mk(subject.ID, topic.ID, []string{examA.ID}, true, 2)
	mk(subject.ID, topic.ID, []string{examA.ID, examB.ID}, false, 1)
	mk(physiology.ID, circulation.ID, []string{examB.ID}, false, 0)

	detail, err := svc.GetStatsDetail(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, detail.TotalQuestions)
	assert.Equal(t, 1, detail.LearnedQuestions)
	assert.Equal(t, 3, detail.TotalFailures)

	require.Len(t, detail.BySubject, 2)
	// Sorted by name: Anatomy before Physiology.
	assert.Equal(t, "Anatomy", detail.BySubject[0].Name)
	assert.Equal(t, 2, detail.BySubject[0].Questions)
	assert.Equal(t, 1, detail.BySubject[0].Learned)
	assert.Equal(t, 3, detail.BySubject[0].Failures)
	assert.Equal(t, "Physiology", detail.BySubject[1].Name)
	assert.Equal(t, 1, detail.BySubject[1].Questions)

	require.Len(t, detail.ByTopic, 2)
	assert.Equal(t, "Circulation", detail.ByTopic[0].Name)
	assert.Equal(t, "Heart", detail.ByTopic[1].Name)

	assert.Equal(t, 2, detail.ExamCounts[examA.ID])
	assert.Equal(t, 2, detail.ExamCounts[examB.ID])

	counts, err := svc.ExamQuestionCounts(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, detail.ExamCounts, counts)
}
