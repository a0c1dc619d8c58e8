package api

// CreateMockExamRequest is the body for POST /mock-exams.
type CreateMockExamRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// UpdateMockExamRequest is the body for PUT /mock-exams/{examId}.
type UpdateMockExamRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// CreateSubjectRequest is the body for POST /subjects.
type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// UpdateSubjectRequest is the body for PUT /subjects/{subjectId}.
type UpdateSubjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CreateTopicRequest is the body for POST /topics.
type CreateTopicRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// UpdateTopicRequest is the body for PUT /topics/{topicId}.
type UpdateTopicRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CreateQuestionRequest is the body for POST /questions.
type CreateQuestionRequest struct {
	SubjectID   string   `json:"subjectId" validate:"required"`
	TopicID     string   `json:"topicId" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=error doubt"`
	Theory      string   `json:"theory" validate:"max=10000"`
	MockExamIDs []string `json:"mockExamIds" validate:"required,min=1,dive,required"`
}

// UpdateQuestionRequest is the body for PUT /questions/{questionId}. Absent
// fields are left unchanged; a present mockExamIds replaces the relation set.
type UpdateQuestionRequest struct {
	SubjectID   *string  `json:"subjectId,omitempty"`
	TopicID     *string  `json:"topicId,omitempty"`
	Type        *string  `json:"type,omitempty" validate:"omitempty,oneof=error doubt"`
	Theory      *string  `json:"theory,omitempty" validate:"omitempty,max=10000"`
	IsLearned   *bool    `json:"isLearned,omitempty"`
	MockExamIDs []string `json:"mockExamIds,omitempty"`
}

// SetLearnedRequest is the body for PATCH /questions/{questionId}/learned.
type SetLearnedRequest struct {
	IsLearned bool `json:"isLearned"`
}

// RestoreRequest is the body for POST /trash/{trashId}/restore. AllowPartial
// lets the restore proceed when some of the snapshot's mock exams no longer
// exist; the response then lists the dropped ids.
type RestoreRequest struct {
	AllowPartial bool `json:"allowPartial"`
}

// EmptyTrashResponse reports how many trash entries were purged.
type EmptyTrashResponse struct {
	Purged int `json:"purged"`
}
