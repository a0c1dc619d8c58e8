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

// MoveQuestionToTrash deletes the question and its relation rows and writes
// the snapshot in one transaction. The snapshot carries the relation exam ids,
// which identify the rows to remove.
func (r *ddbRepository) MoveQuestionToTrash(ctx context.Context, snapshot domain.TrashedQuestion) error {
	trashItem, err := attributevalue.MarshalMap(toDDBTrashedQuestion(snapshot))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal trash item")
	}

	transactItems := []types.TransactWriteItem{
		{
			Delete: &types.Delete{
				TableName:           aws.String(r.tableName),
				Key:                 itemKey(snapshot.UserID, skQuestionPrefix+snapshot.OriginalID),
				ConditionExpression: aws.String("attribute_exists(SK)"),
			},
		},
		{
			Put: &types.Put{TableName: aws.String(r.tableName), Item: trashItem},
		},
	}
	for _, examID := range snapshot.MockExamIDs {
		transactItems = append(transactItems, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       itemKey(snapshot.UserID, relationSK(snapshot.OriginalID, examID)),
			},
		})
	}

	if err := r.transactWrite(ctx, transactItems); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("question not found")
		}
		return appErrors.Wrap(err, "transaction to move question to trash failed")
	}
	return nil
}

// RestoreTrashedQuestion materializes a new question plus its relation rows
// and removes the trash row, all in one transaction.
func (r *ddbRepository) RestoreTrashedQuestion(ctx context.Context, question domain.Question, examIDs []string, trashID string) error {
	questionItem, err := attributevalue.MarshalMap(toDDBQuestion(question))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal question item")
	}

	transactItems := []types.TransactWriteItem{
		{
			Put: &types.Put{TableName: aws.String(r.tableName), Item: questionItem},
		},
		{
			Delete: &types.Delete{
				TableName:           aws.String(r.tableName),
				Key:                 itemKey(question.UserID, skTrashPrefix+trashID),
				ConditionExpression: aws.String("attribute_exists(SK)"),
			},
		},
	}
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
			return appErrors.NewNotFound("trash entry not found")
		}
		return appErrors.Wrap(err, "transaction to restore trashed question failed")
	}
	return nil
}

func (r *ddbRepository) FindTrashedQuestionByID(ctx context.Context, userID, trashID string) (*domain.TrashedQuestion, error) {
	out, err := r.getItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(userID, skTrashPrefix+trashID),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to get trash entry")
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var item ddbTrashedQuestion
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, appErrors.Wrap(err, "failed to unmarshal trash item")
	}
	snapshot := item.toDomain()
	return &snapshot, nil
}

func (r *ddbRepository) FindTrashedQuestions(ctx context.Context, userID string) ([]domain.TrashedQuestion, error) {
	items, err := r.queryByPrefix(ctx, userID, skTrashPrefix)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to query trash")
	}
	snapshots := make([]domain.TrashedQuestion, 0, len(items))
	for _, raw := range items {
		var item ddbTrashedQuestion
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal trash item")
		}
		snapshots = append(snapshots, item.toDomain())
	}
	return snapshots, nil
}

// PurgeTrashedQuestion deletes the trash row. Purging an id that is already
// gone reports not-found rather than succeeding silently, which keeps the
// operation idempotent but observable.
func (r *ddbRepository) PurgeTrashedQuestion(ctx context.Context, userID, trashID string) error {
	if err := r.deleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(userID, skTrashPrefix+trashID),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	}); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewNotFound("trash entry not found")
		}
		return appErrors.Wrap(err, "failed to purge trash entry")
	}
	return nil
}

// PurgeAllTrash removes every trash row for the owner with batched deletes.
func (r *ddbRepository) PurgeAllTrash(ctx context.Context, userID string) (int, error) {
	items, err := r.queryByPrefix(ctx, userID, skTrashPrefix)
	if err != nil {
		return 0, appErrors.Wrap(err, "failed to query trash for purge")
	}
	if len(items) == 0 {
		return 0, nil
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, raw := range items {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": raw["PK"],
					"SK": raw["SK"],
				},
			},
		})
	}
	if err := r.batchWrite(ctx, requests); err != nil {
		return 0, appErrors.Wrap(err, "failed to purge trash")
	}
	return len(items), nil
}
