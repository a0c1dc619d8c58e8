package domain

// StatsSummary is the aggregate view shown on the dashboard.
type StatsSummary struct {
	TotalQuestions     int     `json:"totalQuestions"`
	LearnedQuestions   int     `json:"learnedQuestions"`
	ProgressPercentage float64 `json:"progressPercentage"`
	TotalFailures      int     `json:"totalFailures"`
}

// GroupStats is one row of a per-subject or per-topic breakdown.
type GroupStats struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Questions int    `json:"questions"`
	Learned   int    `json:"learned"`
	Failures  int    `json:"failures"`
}

// StatsDetail extends the summary with breakdowns by subject, topic and mock
// exam.
type StatsDetail struct {
	StatsSummary
	BySubject  []GroupStats   `json:"bySubject"`
	ByTopic    []GroupStats   `json:"byTopic"`
	ExamCounts map[string]int `json:"examCounts"`
}
