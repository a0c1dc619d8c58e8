package domain

// QuestionFilter narrows a question listing. A nil slice means the dimension
// is unfiltered; an empty non-nil slice matches nothing. The distinction
// matters: "no subjects selected" and "filter on zero subjects" are different
// requests.
type QuestionFilter struct {
	SubjectIDs  []string
	TopicIDs    []string
	MockExamIDs []string
	Type        *QuestionType
	IsLearned   *bool
	MinFailures *int
}

// IsZero reports whether the filter constrains nothing.
func (f QuestionFilter) IsZero() bool {
	return f.SubjectIDs == nil && f.TopicIDs == nil && f.MockExamIDs == nil &&
		f.Type == nil && f.IsLearned == nil && f.MinFailures == nil
}

// Matches reports whether q passes the filter. examIDs is the set of mock
// exams the question is related to, supplied by the caller from the relation
// store.
func (f QuestionFilter) Matches(q Question, examIDs []string) bool {
	if f.SubjectIDs != nil && !containsString(f.SubjectIDs, q.SubjectID) {
		return false
	}
	if f.TopicIDs != nil && !containsString(f.TopicIDs, q.TopicID) {
		return false
	}
	if f.MockExamIDs != nil && !intersects(f.MockExamIDs, examIDs) {
		return false
	}
	if f.Type != nil && q.Type != *f.Type {
		return false
	}
	if f.IsLearned != nil && q.IsLearned != *f.IsLearned {
		return false
	}
	if f.MinFailures != nil && q.FailureCount < *f.MinFailures {
		return false
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, s := range a {
		if containsString(b, s) {
			return true
		}
	}
	return false
}
