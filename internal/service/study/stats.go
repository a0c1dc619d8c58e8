package study

import (
	"context"
	"sort"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/domain"
)

// GetStatsSummary computes the aggregate progress view from the cached
// question list. The result itself is cached with the short stats TTL and
// invalidated by every question write.
func (s *service) GetStatsSummary(ctx context.Context, userID string) (*domain.StatsSummary, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.NamespaceStats, userID, "summary", func(ctx context.Context) (*domain.StatsSummary, error) {
		questions, err := s.repo.FindQuestions(ctx, userID)
		if err != nil {
			return nil, err
		}
		summary := summarize(questions)
		return &summary, nil
	})
}

// GetStatsDetail extends the summary with per-subject and per-topic
// breakdowns and per-exam question counts.
func (s *service) GetStatsDetail(ctx context.Context, userID string) (*domain.StatsDetail, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.NamespaceStats, userID, "detail", func(ctx context.Context) (*domain.StatsDetail, error) {
		questions, err := s.repo.FindQuestions(ctx, userID)
		if err != nil {
			return nil, err
		}
		subjects, err := s.ListSubjects(ctx, userID)
		if err != nil {
			return nil, err
		}
		topics, err := s.ListTopics(ctx, userID)
		if err != nil {
			return nil, err
		}
		relations, err := s.repo.FindAllRelations(ctx, userID)
		if err != nil {
			return nil, err
		}

		subjectNames := make(map[string]string, len(subjects))
		for _, sub := range subjects {
			subjectNames[sub.ID] = sub.Name
		}
		topicNames := make(map[string]string, len(topics))
		for _, t := range topics {
			topicNames[t.ID] = t.Name
		}

		detail := domain.StatsDetail{
			StatsSummary: summarize(questions),
			BySubject:    groupBy(questions, subjectNames, func(q domain.Question) string { return q.SubjectID }),
			ByTopic:      groupBy(questions, topicNames, func(q domain.Question) string { return q.TopicID }),
			ExamCounts:   make(map[string]int),
		}
		for _, rel := range relations {
			detail.ExamCounts[rel.MockExamID]++
		}
		return &detail, nil
	})
}

func summarize(questions []domain.Question) domain.StatsSummary {
	summary := domain.StatsSummary{TotalQuestions: len(questions)}
	for _, q := range questions {
		if q.IsLearned {
			summary.LearnedQuestions++
		}
		summary.TotalFailures += q.FailureCount
	}
	if summary.TotalQuestions > 0 {
		summary.ProgressPercentage = float64(summary.LearnedQuestions) / float64(summary.TotalQuestions) * 100
	}
	return summary
}

// groupBy aggregates questions by one dimension, resolving display names from
// the given lookup. Rows are returned sorted by name for stable output.
func groupBy(questions []domain.Question, names map[string]string, keyFn func(domain.Question) string) []domain.GroupStats {
	byKey := make(map[string]*domain.GroupStats)
	for _, q := range questions {
		key := keyFn(q)
		row, ok := byKey[key]
		if !ok {
			row = &domain.GroupStats{ID: key, Name: names[key]}
			byKey[key] = row
		}
		row.Questions++
		if q.IsLearned {
			row.Learned++
		}
		row.Failures += q.FailureCount
	}
	rows := make([]domain.GroupStats, 0, len(byKey))
	for _, row := range byKey {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}
