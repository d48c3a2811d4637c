package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/smarthome-panel/internal/domain"
)

// UsageLogRepo provides typed DynamoDB operations for the usage-log table.
type UsageLogRepo struct {
	client    API
	tableName string
}

func NewUsageLogRepo(client API, tableName string) *UsageLogRepo {
	return &UsageLogRepo{client: client, tableName: tableName}
}

func (r *UsageLogRepo) Put(ctx context.Context, l *domain.UsageLog) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal usage log: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Query returns a user's logs with timestamp in [start, end]; empty bounds are open.
func (r *UsageLogRepo) Query(ctx context.Context, username, start, end string) ([]domain.UsageLog, error) {
	input, err := newQueryInput(r.tableName, rangeKeyCondition(fieldUsername, username, fieldTimestamp, start, end))
	if err != nil {
		return nil, err
	}
	items, err := queryAll(ctx, r.client, input)
	if err != nil {
		return nil, err
	}
	logs := []domain.UsageLog{}
	if err := attributevalue.UnmarshalListOfMaps(items, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Scan reads the whole table. Admin-only: cost is linear in table size.
func (r *UsageLogRepo) Scan(ctx context.Context) ([]domain.UsageLog, error) {
	items, err := scanAll(ctx, r.client, r.tableName)
	if err != nil {
		return nil, err
	}
	logs := []domain.UsageLog{}
	if err := attributevalue.UnmarshalListOfMaps(items, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// DeleteBatch removes the given logs by (username, timestamp).
func (r *UsageLogRepo) DeleteBatch(ctx context.Context, logs []domain.UsageLog) error {
	keys := make([]map[string]types.AttributeValue, len(logs))
	for i, l := range logs {
		keys[i] = compositeKey(fieldUsername, l.Username, fieldTimestamp, l.Timestamp)
	}
	return batchDelete(ctx, r.client, r.tableName, keys)
}
