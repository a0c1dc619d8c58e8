package domain

import "time"

// TrashedQuestion is a frozen snapshot of a deleted question. Subject, topic
// and mock exam names are denormalized at deletion time: the referenced rows
// may be renamed or deleted afterwards without affecting trash contents.
type TrashedQuestion struct {
	ID             string       `json:"id"`
	OriginalID     string       `json:"originalId"`
	UserID         string       `json:"userId"`
	SubjectID      string       `json:"subjectId"`
	SubjectName    string       `json:"subjectName"`
	TopicID        string       `json:"topicId"`
	TopicName      string       `json:"topicName"`
	Type           QuestionType `json:"type"`
	Theory         string       `json:"theory"`
	IsLearned      bool         `json:"isLearned"`
	FailureCount   int          `json:"failureCount"`
	MockExamIDs    []string     `json:"mockExamIds"`
	MockExamTitles []string     `json:"mockExamTitles"`
	CreatedAt      time.Time    `json:"createdAt"`
	DeletedAt      time.Time    `json:"deletedAt"`
}
