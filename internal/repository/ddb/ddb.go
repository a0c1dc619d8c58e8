// Package ddb implements the repository interface using AWS DynamoDB.
// This is the only layer that should have knowledge of DynamoDB specifics.
//
// Single-table layout: every item lives under PK "USER#<ownerID>" with an SK
// prefix per entity type (EXAM#, SUBJECT#, TOPIC#, QUESTION#, REL#, TRASH#).
// Relation rows additionally project into GSI1 keyed by exam id so relations
// can be looked up from the exam side.
package ddb

import (
	"context"
	"errors"
	"fmt"

	"studytrack-backend/internal/repository"
	appErrors "studytrack-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	skExamPrefix     = "EXAM#"
	skSubjectPrefix  = "SUBJECT#"
	skTopicPrefix    = "TOPIC#"
	skQuestionPrefix = "QUESTION#"
	skRelationPrefix = "REL#"
	skTrashPrefix    = "TRASH#"
)

// ddbRepository is the concrete implementation for DynamoDB.
type ddbRepository struct {
	dbClient  *dynamodb.Client
	tableName string
	indexName string
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewRepository creates a new instance of the DynamoDB repository. All SDK
// calls go through a circuit breaker so a struggling table fails fast instead
// of stacking up request timeouts.
func NewRepository(dbClient *dynamodb.Client, tableName, indexName string, logger *zap.Logger) repository.Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dynamodb",
		MaxRequests: 3,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &ddbRepository{
		dbClient:  dbClient,
		tableName: tableName,
		indexName: indexName,
		breaker:   cb,
		logger:    logger,
	}
}

// Key builders

func userPK(userID string) string {
	return "USER#" + userID
}

func relationSK(questionID, examID string) string {
	return fmt.Sprintf("%s%s#%s", skRelationPrefix, questionID, examID)
}

func examGSI1PK(userID, examID string) string {
	return fmt.Sprintf("USER#%s#EXAM#%s", userID, examID)
}

func itemKey(userID, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// Breaker-guarded SDK primitives. Every repository method funnels its
// DynamoDB calls through one of these.

func (r *ddbRepository) getItem(ctx context.Context, input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.dbClient.GetItem(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	return out.(*dynamodb.GetItemOutput), nil
}

func (r *ddbRepository) putItem(ctx context.Context, input *dynamodb.PutItemInput) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.dbClient.PutItem(ctx, input)
	})
	return err
}

func (r *ddbRepository) deleteItem(ctx context.Context, input *dynamodb.DeleteItemInput) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.dbClient.DeleteItem(ctx, input)
	})
	return err
}

func (r *ddbRepository) query(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		out, err := r.breaker.Execute(func() (interface{}, error) {
			return r.dbClient.Query(ctx, input)
		})
		if err != nil {
			return nil, err
		}
		page := out.(*dynamodb.QueryOutput)
		items = append(items, page.Items...)
		if page.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

func (r *ddbRepository) transactWrite(ctx context.Context, items []types.TransactWriteItem) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.dbClient.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: items,
		})
	})
	return err
}

func (r *ddbRepository) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	// BatchWriteItem accepts at most 25 requests per call.
	for start := 0; start < len(requests); start += 25 {
		end := start + 25
		if end > len(requests) {
			end = len(requests)
		}
		_, err := r.breaker.Execute(func() (interface{}, error) {
			return r.dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					r.tableName: requests[start:end],
				},
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// queryByPrefix runs a Query for PK = USER#<userID> AND begins_with(SK, prefix).
func (r *ddbRepository) queryByPrefix(ctx context.Context, userID, prefix string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(prefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build query expression")
	}
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

// Error helpers

// isConditionalCheckFailed reports whether err was caused by a failed
// condition expression, either on a single-item call or inside a cancelled
// transaction.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}
