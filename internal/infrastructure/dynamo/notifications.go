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

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    API
	tableName string
}

func NewNotificationRepo(client API, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByUser returns every notification for username in ascending timestamp order.
func (r *NotificationRepo) ListByUser(ctx context.Context, username string) ([]domain.Notification, error) {
	input, err := newQueryInput(r.tableName, rangeKeyCondition(fieldUsername, username, fieldTimestamp, "", ""))
	if err != nil {
		return nil, err
	}
	items, err := queryAll(ctx, r.client, input)
	if err != nil {
		return nil, err
	}
	notifications := []domain.Notification{}
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Delete removes one notification. Deleting a missing key is not an error.
func (r *NotificationRepo) Delete(ctx context.Context, username, timestamp string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldUsername, username, fieldTimestamp, timestamp),
	})
	return err
}

// DeleteBatch removes the given notifications by (username, timestamp).
func (r *NotificationRepo) DeleteBatch(ctx context.Context, notifications []domain.Notification) error {
	keys := make([]map[string]types.AttributeValue, len(notifications))
	for i, n := range notifications {
		keys[i] = compositeKey(fieldUsername, n.Username, fieldTimestamp, n.Timestamp)
	}
	return batchDelete(ctx, r.client, r.tableName, keys)
}
