// Package mocks provides an in-memory implementation of the repository
// interface for unit testing services without a real database.
package mocks

import (
	"context"
	"sync"

	"studytrack-backend/internal/domain"
	appErrors "studytrack-backend/pkg/errors"
)

// MockRepository stores everything in maps keyed by owner id. All
// multi-document operations mutate state under one lock, which mirrors the
// atomicity the DynamoDB implementation gets from transactional writes.
type MockRepository struct {
	mu sync.RWMutex

	exams     map[string]map[string]domain.MockExam        // userID -> examID -> exam
	subjects  map[string]map[string]domain.Subject         // userID -> subjectID -> subject
	topics    map[string]map[string]domain.Topic           // userID -> topicID -> topic
	questions map[string]map[string]domain.Question        // userID -> questionID -> question
	relations map[string][]domain.QuestionMockExam         // userID -> relation rows
	trash     map[string]map[string]domain.TrashedQuestion // userID -> trashID -> snapshot

	// For testing error scenarios
	shouldFailOn map[string]error
}

// NewMockRepository creates an empty mock repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		exams:        make(map[string]map[string]domain.MockExam),
		subjects:     make(map[string]map[string]domain.Subject),
		topics:       make(map[string]map[string]domain.Topic),
		questions:    make(map[string]map[string]domain.Question),
		relations:    make(map[string][]domain.QuestionMockExam),
		trash:        make(map[string]map[string]domain.TrashedQuestion),
		shouldFailOn: make(map[string]error),
	}
}

// SetError configures the mock to return an error for a specific method.
func (m *MockRepository) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn[method] = err
}

// ClearErrors removes all configured errors.
func (m *MockRepository) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn = make(map[string]error)
}

func (m *MockRepository) checkError(method string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, exists := m.shouldFailOn[method]; exists {
		return err
	}
	return nil
}

// Mock exam operations

func (m *MockRepository) CreateMockExam(ctx context.Context, exam domain.MockExam) error {
	if err := m.checkError("CreateMockExam"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.exams[exam.UserID][exam.ID]; exists {
		return appErrors.NewConflict("mock exam already exists")
	}
	if m.exams[exam.UserID] == nil {
		m.exams[exam.UserID] = make(map[string]domain.MockExam)
	}
	m.exams[exam.UserID][exam.ID] = exam
	return nil
}

func (m *MockRepository) UpdateMockExam(ctx context.Context, exam domain.MockExam) error {
	if err := m.checkError("UpdateMockExam"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[exam.UserID][exam.ID]; !ok {
		return appErrors.NewNotFound("mock exam not found")
	}
	m.exams[exam.UserID][exam.ID] = exam
	return nil
}

func (m *MockRepository) DeleteMockExam(ctx context.Context, userID, examID string) error {
	if err := m.checkError("DeleteMockExam"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[userID][examID]; !ok {
		return appErrors.NewNotFound("mock exam not found")
	}
	delete(m.exams[userID], examID)
	return nil
}

func (m *MockRepository) DeleteMockExamWithRelations(ctx context.Context, userID, examID string) error {
	if err := m.checkError("DeleteMockExamWithRelations"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[userID][examID]; !ok {
		return appErrors.NewNotFound("mock exam not found")
	}
	delete(m.exams[userID], examID)
	kept := m.relations[userID][:0]
	for _, rel := range m.relations[userID] {
		if rel.MockExamID != examID {
			kept = append(kept, rel)
		}
	}
	m.relations[userID] = kept
	return nil
}

func (m *MockRepository) FindMockExamByID(ctx context.Context, userID, examID string) (*domain.MockExam, error) {
	if err := m.checkError("FindMockExamByID"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if exam, ok := m.exams[userID][examID]; ok {
		examCopy := exam
		return &examCopy, nil
	}
	return nil, nil
}

func (m *MockRepository) FindMockExams(ctx context.Context, userID string) ([]domain.MockExam, error) {
	if err := m.checkError("FindMockExams"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	exams := make([]domain.MockExam, 0, len(m.exams[userID]))
	for _, exam := range m.exams[userID] {
		exams = append(exams, exam)
	}
	return exams, nil
}

// Subject operations

func (m *MockRepository) CreateSubject(ctx context.Context, subject domain.Subject) error {
	if err := m.checkError("CreateSubject"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.subjects[subject.UserID][subject.ID]; exists {
		return appErrors.NewConflict("subject already exists")
	}
	if m.subjects[subject.UserID] == nil {
		m.subjects[subject.UserID] = make(map[string]domain.Subject)
	}
	m.subjects[subject.UserID][subject.ID] = subject
	return nil
}

func (m *MockRepository) UpdateSubject(ctx context.Context, subject domain.Subject) error {
	if err := m.checkError("UpdateSubject"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[subject.UserID][subject.ID]; !ok {
		return appErrors.NewNotFound("subject not found")
	}
	m.subjects[subject.UserID][subject.ID] = subject
	return nil
}

func (m *MockRepository) DeleteSubject(ctx context.Context, userID, subjectID string) error {
	if err := m.checkError("DeleteSubject"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[userID][subjectID]; !ok {
		return appErrors.NewNotFound("subject not found")
	}
	delete(m.subjects[userID], subjectID)
	return nil
}

func (m *MockRepository) FindSubjectByID(ctx context.Context, userID, subjectID string) (*domain.Subject, error) {
	if err := m.checkError("FindSubjectByID"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if subject, ok := m.subjects[userID][subjectID]; ok {
		subjectCopy := subject
		return &subjectCopy, nil
	}
	return nil, nil
}

func (m *MockRepository) FindSubjects(ctx context.Context, userID string) ([]domain.Subject, error) {
	if err := m.checkError("FindSubjects"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	subjects := make([]domain.Subject, 0, len(m.subjects[userID]))
	for _, subject := range m.subjects[userID] {
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

// Topic operations

func (m *MockRepository) CreateTopic(ctx context.Context, topic domain.Topic) error {
	if err := m.checkError("CreateTopic"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.topics[topic.UserID][topic.ID]; exists {
		return appErrors.NewConflict("topic already exists")
	}
	if m.topics[topic.UserID] == nil {
		m.topics[topic.UserID] = make(map[string]domain.Topic)
	}
	m.topics[topic.UserID][topic.ID] = topic
	return nil
}

func (m *MockRepository) UpdateTopic(ctx context.Context, topic domain.Topic) error {
	if err := m.checkError("UpdateTopic"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.topics[topic.UserID][topic.ID]; !ok {
		return appErrors.NewNotFound("topic not found")
	}
	m.topics[topic.UserID][topic.ID] = topic
	return nil
}

func (m *MockRepository) DeleteTopic(ctx context.Context, userID, topicID string) error {
	if err := m.checkError("DeleteTopic"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.topics[userID][topicID]; !ok {
		return appErrors.NewNotFound("topic not found")
	}
	delete(m.topics[userID], topicID)
	return nil
}

func (m *MockRepository) FindTopicByID(ctx context.Context, userID, topicID string) (*domain.Topic, error) {
	if err := m.checkError("FindTopicByID"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if topic, ok := m.topics[userID][topicID]; ok {
		topicCopy := topic
		return &topicCopy, nil
	}
	return nil, nil
}

func (m *MockRepository) FindTopics(ctx context.Context, userID string) ([]domain.Topic, error) {
	if err := m.checkError("FindTopics"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	topics := make([]domain.Topic, 0, len(m.topics[userID]))
	for _, topic := range m.topics[userID] {
		topics = append(topics, topic)
	}
	return topics, nil
}

// Question and relation operations

func (m *MockRepository) CreateQuestionWithRelations(ctx context.Context, question domain.Question, examIDs []string) error {
	if err := m.checkError("CreateQuestionWithRelations"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.questions[question.UserID][question.ID]; exists {
		return appErrors.NewConflict("question already exists")
	}
	if m.questions[question.UserID] == nil {
		m.questions[question.UserID] = make(map[string]domain.Question)
	}
	m.questions[question.UserID][question.ID] = question
	for _, examID := range examIDs {
		m.relations[question.UserID] = append(m.relations[question.UserID], domain.QuestionMockExam{
			QuestionID: question.ID,
			MockExamID: examID,
			UserID:     question.UserID,
			CreatedAt:  question.CreatedAt,
		})
	}
	return nil
}

func (m *MockRepository) UpdateQuestion(ctx context.Context, question domain.Question) error {
	if err := m.checkError("UpdateQuestion"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[question.UserID][question.ID]; !ok {
		return appErrors.NewNotFound("question not found")
	}
	m.questions[question.UserID][question.ID] = question
	return nil
}

func (m *MockRepository) ReplaceQuestionRelations(ctx context.Context, userID, questionID string, examIDs []string) error {
	if err := m.checkError("ReplaceQuestionRelations"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	question, ok := m.questions[userID][questionID]
	if !ok {
		return appErrors.NewNotFound("question not found")
	}
	kept := m.relations[userID][:0]
	for _, rel := range m.relations[userID] {
		if rel.QuestionID != questionID {
			kept = append(kept, rel)
		}
	}
	for _, examID := range examIDs {
		kept = append(kept, domain.QuestionMockExam{
			QuestionID: questionID,
			MockExamID: examID,
			UserID:     userID,
			CreatedAt:  question.CreatedAt,
		})
	}
	m.relations[userID] = kept
	return nil
}

func (m *MockRepository) FindQuestionByID(ctx context.Context, userID, questionID string) (*domain.Question, error) {
	if err := m.checkError("FindQuestionByID"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if question, ok := m.questions[userID][questionID]; ok {
		questionCopy := question
		return &questionCopy, nil
	}
	return nil, nil
}

func (m *MockRepository) FindQuestions(ctx context.Context, userID string) ([]domain.Question, error) {
	if err := m.checkError("FindQuestions"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	questions := make([]domain.Question, 0, len(m.questions[userID]))
	for _, question := range m.questions[userID] {
		questions = append(questions, question)
	}
	return questions, nil
}

func (m *MockRepository) FindRelationsByQuestion(ctx context.Context, userID, questionID string) ([]domain.QuestionMockExam, error) {
	if err := m.checkError("FindRelationsByQuestion"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rels []domain.QuestionMockExam
	for _, rel := range m.relations[userID] {
		if rel.QuestionID == questionID {
			rels = append(rels, rel)
		}
	}
	return rels, nil
}

func (m *MockRepository) FindRelationsByExam(ctx context.Context, userID, examID string) ([]domain.QuestionMockExam, error) {
	if err := m.checkError("FindRelationsByExam"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rels []domain.QuestionMockExam
	for _, rel := range m.relations[userID] {
		if rel.MockExamID == examID {
			rels = append(rels, rel)
		}
	}
	return rels, nil
}

func (m *MockRepository) FindAllRelations(ctx context.Context, userID string) ([]domain.QuestionMockExam, error) {
	if err := m.checkError("FindAllRelations"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rels := make([]domain.QuestionMockExam, len(m.relations[userID]))
	copy(rels, m.relations[userID])
	return rels, nil
}

// Trash operations

func (m *MockRepository) MoveQuestionToTrash(ctx context.Context, snapshot domain.TrashedQuestion) error {
	if err := m.checkError("MoveQuestionToTrash"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[snapshot.UserID][snapshot.OriginalID]; !ok {
		return appErrors.NewNotFound("question not found")
	}
	delete(m.questions[snapshot.UserID], snapshot.OriginalID)
	kept := m.relations[snapshot.UserID][:0]
	for _, rel := range m.relations[snapshot.UserID] {
		if rel.QuestionID != snapshot.OriginalID {
			kept = append(kept, rel)
		}
	}
	m.relations[snapshot.UserID] = kept
	if m.trash[snapshot.UserID] == nil {
		m.trash[snapshot.UserID] = make(map[string]domain.TrashedQuestion)
	}
	m.trash[snapshot.UserID][snapshot.ID] = snapshot
	return nil
}

func (m *MockRepository) RestoreTrashedQuestion(ctx context.Context, question domain.Question, examIDs []string, trashID string) error {
	if err := m.checkError("RestoreTrashedQuestion"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trash[question.UserID][trashID]; !ok {
		return appErrors.NewNotFound("trash entry not found")
	}
	if m.questions[question.UserID] == nil {
		m.questions[question.UserID] = make(map[string]domain.Question)
	}
	m.questions[question.UserID][question.ID] = question
	for _, examID := range examIDs {
		m.relations[question.UserID] = append(m.relations[question.UserID], domain.QuestionMockExam{
			QuestionID: question.ID,
			MockExamID: examID,
			UserID:     question.UserID,
			CreatedAt:  question.CreatedAt,
		})
	}
	delete(m.trash[question.UserID], trashID)
	return nil
}

func (m *MockRepository) FindTrashedQuestionByID(ctx context.Context, userID, trashID string) (*domain.TrashedQuestion, error) {
	if err := m.checkError("FindTrashedQuestionByID"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if snapshot, ok := m.trash[userID][trashID]; ok {
		snapshotCopy := snapshot
		return &snapshotCopy, nil
	}
	return nil, nil
}

func (m *MockRepository) FindTrashedQuestions(ctx context.Context, userID string) ([]domain.TrashedQuestion, error) {
	if err := m.checkError("FindTrashedQuestions"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshots := make([]domain.TrashedQuestion, 0, len(m.trash[userID]))
	for _, snapshot := range m.trash[userID] {
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (m *MockRepository) PurgeTrashedQuestion(ctx context.Context, userID, trashID string) error {
	if err := m.checkError("PurgeTrashedQuestion"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trash[userID][trashID]; !ok {
		return appErrors.NewNotFound("trash entry not found")
	}
	delete(m.trash[userID], trashID)
	return nil
}

func (m *MockRepository) PurgeAllTrash(ctx context.Context, userID string) (int, error) {
	if err := m.checkError("PurgeAllTrash"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := len(m.trash[userID])
	delete(m.trash, userID)
	return count, nil
}
