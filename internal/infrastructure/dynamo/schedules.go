package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/smarthome-panel/internal/domain"
)

// ScheduleRepo provides typed DynamoDB operations for the schedules table.
type ScheduleRepo struct {
	client    API
	tableName string
}

func NewScheduleRepo(client API, tableName string) *ScheduleRepo {
	return &ScheduleRepo{client: client, tableName: tableName}
}

// Put writes s, replacing any schedule already stored for the same room and device.
func (r *ScheduleRepo) Put(ctx context.Context, s *domain.Schedule) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
