package ddb

import (
	"context"

	"studytrack-backend/internal/domain"
	appErrors "studytrack-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CreateQuestionWithRelations transactionally saves a question and one
// relation row per mock exam — all-or-nothing, so a concurrent reader never
// sees the question with a partial exam set.
func (r *ddbRepository) CreateQuestionWithRelations(ctx context.Context, question domain.Question, examIDs []string) error {
	questionItem, err := attributevalue.MarshalMap(toDDBQuestion(question))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal question item")
	}

	transactItems := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:           aws.String(r.tableName),
			Item:                questionItem,
			ConditionExpression: aws.String("attribute_not_exists(SK)"),
		},
	}}
	for _, examID := range examIDs {
		relItem, err := attributevalue.MarshalMap(toDDBRelation(domain.QuestionMockExam{
			QuestionID: question.ID,
			MockExamID: examID,
			UserID:     question.UserID,
			CreatedAt:  question.CreatedAt,
		}))
		if err != nil {
			return appErrors.Wrap(err, "failed to marshal relation item")
		}
		transactItems = append(transactItems, types.TransactWriteItem{
			Put: &types.Put{TableName: aws.String(r.tableName), Item: relItem},
		})
	}

	if err := r.transactWrite(ctx, transactItems); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewConflict("question already exists")
		}
		return appErrors.Wrap(err, "transaction to create question with relations failed")
	}
	return nil
}

func (r *ddbRepository) UpdateQuestion(ctx context.Context, question domain.Question) error {
	av, err := attributevalue.MarshalMap(toDDBQuestion(question))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal question item")
	}
	if err := r.putItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("question not found")
		}
		return appErrors.Wrap(err, "failed to update question")
	}
	return nil
}

// ReplaceQuestionRelations swaps the question's relation rows for the new exam
// set in a single transaction. A transaction cannot touch the same item twice,
// so rows present in both the old and new set are left alone and only the
// difference is written.
func (r *ddbRepository) ReplaceQuestionRelations(ctx context.Context, userID, questionID string, examIDs []string) error {
	existing, err := r.FindRelationsByQuestion(ctx, userID, questionID)
	if err != nil {
		return appErrors.Wrap(err, "failed to look up existing relations")
	}

	oldSet := make(map[string]bool, len(existing))
	for _, rel := range existing {
		oldSet[rel.MockExamID] = true
	}
	newSet := make(map[string]bool, len(examIDs))
	for _, examID := range examIDs {
		newSet[examID] = true
	}

	var transactItems []types.TransactWriteItem
	for _, rel := range existing {
		if !newSet[rel.MockExamID] {
			transactItems = append(transactItems, types.TransactWriteItem{
				Delete: &types.Delete{
					TableName: aws.String(r.tableName),
					Key:       itemKey(userID, relationSK(questionID, rel.MockExamID)),
				},
			})
		}
	}
	for _, examID := range examIDs {
		if oldSet[examID] {
			continue
		}
		relItem, err := attributevalue.MarshalMap(toDDBRelation(domain.QuestionMockExam{
			QuestionID: questionID,
			MockExamID: examID,
			UserID:     userID,
		}))
		if err != nil {
			return appErrors.Wrap(err, "failed to marshal relation item")
		}
		transactItems = append(transactItems, types.TransactWriteItem{
			Put: &types.Put{TableName: aws.String(r.tableName), Item: relItem},
		})
	}

	if len(transactItems) == 0 {
		return nil
	}
	if err := r.transactWrite(ctx, transactItems); err != nil {
		return appErrors.Wrap(err, "transaction to replace question relations failed")
	}
	return nil
}

func (r *ddbRepository) FindQuestionByID(ctx context.Context, userID, questionID string) (*domain.Question, error) {
	out, err := r.getItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(userID, skQuestionPrefix+questionID),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to get question")
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var item ddbQuestion
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, appErrors.Wrap(err, "failed to unmarshal question item")
	}
	question := item.toDomain()
	return &question, nil
}

func (r *ddbRepository) FindQuestions(ctx context.Context, userID string) ([]domain.Question, error) {
	items, err := r.queryByPrefix(ctx, userID, skQuestionPrefix)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query questions")
	}
	questions := make([]domain.Question, 0, len(items))
	for _, raw := range items {
		var item ddbQuestion
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal question item")
		}
		questions = append(questions, item.toDomain())
	}
	return questions, nil
}

func (r *ddbRepository) FindRelationsByQuestion(ctx context.Context, userID, questionID string) ([]domain.QuestionMockExam, error) {
	items, err := r.queryByPrefix(ctx, userID, skRelationPrefix+questionID+"#")
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query question relations")
	}
	return unmarshalRelations(items)
}

// FindRelationsByExam queries GSI1, where relation rows are keyed by exam id.
func (r *ddbRepository) FindRelationsByExam(ctx context.Context, userID, examID string) ([]domain.QuestionMockExam, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(examGSI1PK(userID, examID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build relation query expression")
	}
	items, err := r.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query exam relations")
	}
	return unmarshalRelations(items)
}

func (r *ddbRepository) FindAllRelations(ctx context.Context, userID string) ([]domain.QuestionMockExam, error) {
	items, err := r.queryByPrefix(ctx, userID, skRelationPrefix)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query all relations")
	}
	return unmarshalRelations(items)
}

func unmarshalRelations(items []map[string]types.AttributeValue) ([]domain.QuestionMockExam, error) {
	rels := make([]domain.QuestionMockExam, 0, len(items))
	for _, raw := range items {
		var item ddbRelation
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal relation item")
		}
		rels = append(rels, item.toDomain())
	}
	return rels, nil
}
