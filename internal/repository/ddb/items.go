package ddb

import (
	"time"

	"studytrack-backend/internal/domain"
)

// Item shapes as stored in DynamoDB. Timestamps are RFC3339 strings, matching
// the rest of the table.

type ddbMockExam struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	ExamID    string `dynamodbav:"ExamID"`
	UserID    string `dynamodbav:"UserID"`
	Title     string `dynamodbav:"Title"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

type ddbSubject struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	SubjectID string `dynamodbav:"SubjectID"`
	UserID    string `dynamodbav:"UserID"`
	Name      string `dynamodbav:"Name"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

type ddbTopic struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	TopicID   string `dynamodbav:"TopicID"`
	UserID    string `dynamodbav:"UserID"`
	Name      string `dynamodbav:"Name"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

type ddbQuestion struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	QuestionID   string `dynamodbav:"QuestionID"`
	UserID       string `dynamodbav:"UserID"`
	SubjectID    string `dynamodbav:"SubjectID"`
	TopicID      string `dynamodbav:"TopicID"`
	QuestionType string `dynamodbav:"QuestionType"`
	Theory       string `dynamodbav:"Theory"`
	IsLearned    bool   `dynamodbav:"IsLearned"`
	FailureCount int    `dynamodbav:"FailureCount"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

type ddbRelation struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	QuestionID string `dynamodbav:"QuestionID"`
	MockExamID string `dynamodbav:"MockExamID"`
	UserID     string `dynamodbav:"UserID"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

type ddbTrashedQuestion struct {
	PK             string   `dynamodbav:"PK"`
	SK             string   `dynamodbav:"SK"`
	TrashID        string   `dynamodbav:"TrashID"`
	OriginalID     string   `dynamodbav:"OriginalID"`
	UserID         string   `dynamodbav:"UserID"`
	SubjectID      string   `dynamodbav:"SubjectID"`
	SubjectName    string   `dynamodbav:"SubjectName"`
	TopicID        string   `dynamodbav:"TopicID"`
	TopicName      string   `dynamodbav:"TopicName"`
	QuestionType   string   `dynamodbav:"QuestionType"`
	Theory         string   `dynamodbav:"Theory"`
	IsLearned      bool     `dynamodbav:"IsLearned"`
	FailureCount   int      `dynamodbav:"FailureCount"`
	MockExamIDs    []string `dynamodbav:"MockExamIDs"`
	MockExamTitles []string `dynamodbav:"MockExamTitles"`
	CreatedAt      string   `dynamodbav:"CreatedAt"`
	DeletedAt      string   `dynamodbav:"DeletedAt"`
}

// Converters between item and domain shapes.

func toDDBMockExam(exam domain.MockExam) ddbMockExam {
	return ddbMockExam{
		PK:        userPK(exam.UserID),
		SK:        skExamPrefix + exam.ID,
		ExamID:    exam.ID,
		UserID:    exam.UserID,
		Title:     exam.Title,
		CreatedAt: exam.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (i ddbMockExam) toDomain() domain.MockExam {
	return domain.MockExam{
		ID:        i.ExamID,
		UserID:    i.UserID,
		Title:     i.Title,
		CreatedAt: parseTimestamp(i.CreatedAt),
	}
}

func toDDBSubject(subject domain.Subject) ddbSubject {
	return ddbSubject{
		PK:        userPK(subject.UserID),
		SK:        skSubjectPrefix + subject.ID,
		SubjectID: subject.ID,
		UserID:    subject.UserID,
		Name:      subject.Name,
		CreatedAt: subject.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (i ddbSubject) toDomain() domain.Subject {
	return domain.Subject{
		ID:        i.SubjectID,
		UserID:    i.UserID,
		Name:      i.Name,
		CreatedAt: parseTimestamp(i.CreatedAt),
	}
}

func toDDBTopic(topic domain.Topic) ddbTopic {
	return ddbTopic{
		PK:        userPK(topic.UserID),
		SK:        skTopicPrefix + topic.ID,
		TopicID:   topic.ID,
		UserID:    topic.UserID,
		Name:      topic.Name,
		CreatedAt: topic.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (i ddbTopic) toDomain() domain.Topic {
	return domain.Topic{
		ID:        i.TopicID,
		UserID:    i.UserID,
		Name:      i.Name,
		CreatedAt: parseTimestamp(i.CreatedAt),
	}
}

func toDDBQuestion(question domain.Question) ddbQuestion {
	return ddbQuestion{
		PK:           userPK(question.UserID),
		SK:           skQuestionPrefix + question.ID,
		QuestionID:   question.ID,
		UserID:       question.UserID,
		SubjectID:    question.SubjectID,
		TopicID:      question.TopicID,
		QuestionType: string(question.Type),
		Theory:       question.Theory,
		IsLearned:    question.IsLearned,
		FailureCount: question.FailureCount,
		CreatedAt:    question.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (i ddbQuestion) toDomain() domain.Question {
	return domain.Question{
		ID:           i.QuestionID,
		UserID:       i.UserID,
		SubjectID:    i.SubjectID,
		TopicID:      i.TopicID,
		Type:         domain.QuestionType(i.QuestionType),
		Theory:       i.Theory,
		IsLearned:    i.IsLearned,
		FailureCount: i.FailureCount,
		CreatedAt:    parseTimestamp(i.CreatedAt),
	}
}

func toDDBRelation(rel domain.QuestionMockExam) ddbRelation {
	return ddbRelation{
		PK:         userPK(rel.UserID),
		SK:         relationSK(rel.QuestionID, rel.MockExamID),
		GSI1PK:     examGSI1PK(rel.UserID, rel.MockExamID),
		GSI1SK:     skQuestionPrefix + rel.QuestionID,
		QuestionID: rel.QuestionID,
		MockExamID: rel.MockExamID,
		UserID:     rel.UserID,
		CreatedAt:  rel.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (i ddbRelation) toDomain() domain.QuestionMockExam {
	return domain.QuestionMockExam{
		QuestionID: i.QuestionID,
		MockExamID: i.MockExamID,
		UserID:     i.UserID,
		CreatedAt:  parseTimestamp(i.CreatedAt),
	}
}

func toDDBTrashedQuestion(snapshot domain.TrashedQuestion) ddbTrashedQuestion {
	return ddbTrashedQuestion{
		PK:             userPK(snapshot.UserID),
		SK:             skTrashPrefix + snapshot.ID,
		TrashID:        snapshot.ID,
		OriginalID:     snapshot.OriginalID,
		UserID:         snapshot.UserID,
		SubjectID:      snapshot.SubjectID,
		SubjectName:    snapshot.SubjectName,
		TopicID:        snapshot.TopicID,
		TopicName:      snapshot.TopicName,
		QuestionType:   string(snapshot.Type),
		Theory:         snapshot.Theory,
		IsLearned:      snapshot.IsLearned,
		FailureCount:   snapshot.FailureCount,
		MockExamIDs:    snapshot.MockExamIDs,
		MockExamTitles: snapshot.MockExamTitles,
		CreatedAt:      snapshot.CreatedAt.Format(time.RFC3339Nano),
		DeletedAt:      snapshot.DeletedAt.Format(time.RFC3339Nano),
	}
}

func (i ddbTrashedQuestion) toDomain() domain.TrashedQuestion {
	return domain.TrashedQuestion{
		ID:             i.TrashID,
		OriginalID:     i.OriginalID,
		UserID:         i.UserID,
		SubjectID:      i.SubjectID,
		SubjectName:    i.SubjectName,
		TopicID:        i.TopicID,
		TopicName:      i.TopicName,
		Type:           domain.QuestionType(i.QuestionType),
		Theory:         i.Theory,
		IsLearned:      i.IsLearned,
		FailureCount:   i.FailureCount,
		MockExamIDs:    i.MockExamIDs,
		MockExamTitles: i.MockExamTitles,
		CreatedAt:      parseTimestamp(i.CreatedAt),
		DeletedAt:      parseTimestamp(i.DeletedAt),
	}
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
