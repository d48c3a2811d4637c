package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/smarthome-panel/internal/domain"
)

// StatusRepo provides typed DynamoDB operations for the device-status table.
// Rows are only ever appended; the latest row per device is the current state.
type StatusRepo struct {
	client    API
	tableName string
}

func NewStatusRepo(client API, tableName string) *StatusRepo {
	return &StatusRepo{client: client, tableName: tableName}
}

func (r *StatusRepo) Put(ctx context.Context, s *domain.DeviceStatus) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal device status: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Latest returns the status row with the greatest timestamp for deviceID.
func (r *StatusRepo) Latest(ctx context.Context, deviceID string) (*domain.DeviceStatus, error) {
	input, err := newQueryInput(r.tableName, expression.Key(fieldDeviceID).Equal(expression.Value(deviceID)))
	if err != nil {
		return nil, err
	}
	input.ScanIndexForward = aws.Bool(false)
	input.Limit = aws.Int32(1)

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("device %q: %w", deviceID, domain.ErrNotFound)
	}
	var s domain.DeviceStatus
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}
