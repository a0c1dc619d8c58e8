package ddb

import (
	"context"

	"studytrack-backend/internal/domain"
	appErrors "studytrack-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Mock exam operations

func (r *ddbRepository) CreateMockExam(ctx context.Context, exam domain.MockExam) error {
	av, err := attributevalue.MarshalMap(toDDBMockExam(exam))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal mock exam item")
	}
	if err := r.putItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewConflict("mock exam already exists")
		}
		return appErrors.Wrap(err, "failed to create mock exam")
	}
	return nil
}

func (r *ddbRepository) UpdateMockExam(ctx context.Context, exam domain.MockExam) error {
	av, err := attributevalue.MarshalMap(toDDBMockExam(exam))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal mock exam item")
	}
	if err := r.putItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("mock exam not found")
		}
		return appErrors.Wrap(err, "failed to update mock exam")
	}
	return nil
}

func (r *ddbRepository) DeleteMockExam(ctx context.Context, userID, examID string) error {
	if err := r.deleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(userID, skExamPrefix+examID),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("mock exam not found")
		}
		return appErrors.Wrap(err, "failed to delete mock exam")
	}
	return nil
}

// DeleteMockExamWithRelations removes the exam and its relation rows in one
// transaction, so no reader can observe a relation pointing at a deleted exam.
func (r *ddbRepository) DeleteMockExamWithRelations(ctx context.Context, userID, examID string) error {
	relations, err := r.FindRelationsByExam(ctx, userID, examID)
	if err != nil {
		return appErrors.Wrap(err, "failed to look up relations before exam delete")
	}

	transactItems := []types.TransactWriteItem{{
		Delete: &types.Delete{
			TableName:           aws.String(r.tableName),
			Key:                 itemKey(userID, skExamPrefix+examID),
			ConditionExpression: aws.String("attribute_exists(SK)"),
		},
	}}
	for _, rel := range relations {
		transactItems = append(transactItems, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       itemKey(userID, relationSK(rel.QuestionID, rel.MockExamID)),
			},
		})
	}

	if err := r.transactWrite(ctx, transactItems); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("mock exam not found")
		}
		return appErrors.Wrap(err, "transaction to delete mock exam with relations failed")
	}
	return nil
}

func (r *ddbRepository) FindMockExamByID(ctx context.Context, userID, examID string) (*domain.MockExam, error) {
	out, err := r.getItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(userID, skExamPrefix+examID),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to get mock exam")
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var item ddbMockExam
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, appErrors.Wrap(err, "failed to unmarshal mock exam item")
	}
	exam := item.toDomain()
	return &exam, nil
}

func (r *ddbRepository) FindMockExams(ctx context.Context, userID string) ([]domain.MockExam, error) {
	items, err := r.queryByPrefix(ctx, userID, skExamPrefix)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query mock exams")
	}
	exams := make([]domain.MockExam, 0, len(items))
	for _, raw := range items {
		var item ddbMockExam
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal mock exam item")
		}
		exams = append(exams, item.toDomain())
	}
	return exams, nil
}

// Subject operations

func (r *ddbRepository) CreateSubject(ctx context.Context, subject domain.Subject) error {
	av, err := attributevalue.MarshalMap(toDDBSubject(subject))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal subject item")
	}
	if err := r.putItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewConflict("subject already exists")
		}
		return appErrors.Wrap(err, "failed to create subject")
	}
	return nil
}

func (r *ddbRepository) UpdateSubject(ctx context.Context, subject domain.Subject) error {
	av, err := attributevalue.MarshalMap(toDDBSubject(subject))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal subject item")
	}
	if err := r.putItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("subject not found")
		}
		return appErrors.Wrap(err, "failed to update subject")
	}
	return nil
}

func (r *ddbRepository) DeleteSubject(ctx context.Context, userID, subjectID string) error {
	if err := r.deleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(userID, skSubjectPrefix+subjectID),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("subject not found")
		}
		return appErrors.Wrap(err, "failed to delete subject")
	}
	return nil
}

func (r *ddbRepository) FindSubjectByID(ctx context.Context, userID, subjectID string) (*domain.Subject, error) {
	out, err := r.getItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(userID, skSubjectPrefix+subjectID),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to get subject")
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var item ddbSubject
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, appErrors.Wrap(err, "failed to unmarshal subject item")
	}
	subject := item.toDomain()
	return &subject, nil
}

func (r *ddbRepository) FindSubjects(ctx context.Context, userID string) ([]domain.Subject, error) {
	items, err := r.queryByPrefix(ctx, userID, skSubjectPrefix)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query subjects")
	}
	subjects := make([]domain.Subject, 0, len(items))
	for _, raw := range items {
		var item ddbSubject
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal subject item")
		}
		subjects = append(subjects, item.toDomain())
	}
	return subjects, nil
}

// Topic operations

func (r *ddbRepository) CreateTopic(ctx context.Context, topic domain.Topic) error {
	av, err := attributevalue.MarshalMap(toDDBTopic(topic))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal topic item")
	}
	if err := r.putItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewConflict("topic already exists")
		}
		return appErrors.Wrap(err, "failed to create topic")
	}
	return nil
}

func (r *ddbRepository) UpdateTopic(ctx context.Context, topic domain.Topic) error {
	av, err := attributevalue.MarshalMap(toDDBTopic(topic))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal topic item")
	}
	if err := r.putItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("topic not found")
		}
		return appErrors.Wrap(err, "failed to update topic")
	}
	return nil
}

func (r *ddbRepository) DeleteTopic(ctx context.Context, userID, topicID string) error {
	if err := r.deleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(userID, skTopicPrefix+topicID),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("topic not found")
		}
		return appErrors.Wrap(err, "failed to delete topic")
	}
	return nil
}

func (r *ddbRepository) FindTopicByID(ctx context.Context, userID, topicID string) (*domain.Topic, error) {
	out, err := r.getItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(userID, skTopicPrefix+topicID),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to get topic")
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var item ddbTopic
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, appErrors.Wrap(err, "failed to unmarshal topic item")
	}
	topic := item.toDomain()
	return &topic, nil
}

func (r *ddbRepository) FindTopics(ctx context.Context, userID string) ([]domain.Topic, error) {
	items, err := r.queryByPrefix(ctx, userID, skTopicPrefix)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query topics")
	}
	topics := make([]domain.Topic, 0, len(items))
	for _, raw := range items {
		var item ddbTopic
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal topic item")
		}
		topics = append(topics, item.toDomain())
	}
	return topics, nil
}
