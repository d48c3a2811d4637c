package dynamo

import (
	"context"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/smarthome-panel/internal/domain"
)

// batchWriteMax is DynamoDB's ceiling on requests per BatchWriteItem call.
const batchWriteMax = 25

// compositeKey builds a DynamoDB primary key with two string attributes (PK + SK).
func compositeKey(pkName, pkValue, skName, skValue string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkName: &types.AttributeValueMemberS{Value: pkValue},
		skName: &types.AttributeValueMemberS{Value: skValue},
	}
}

// rangeKeyCondition matches every item in the pkValue partition whose sort key
// lies within [start, end]. An empty bound leaves that side open.
func rangeKeyCondition(pkName, pkValue, skName, start, end string) expression.KeyConditionBuilder {
	cond := expression.Key(pkName).Equal(expression.Value(pkValue))
	sk := expression.Key(skName)
	switch {
	case start != "" && end != "":
		cond = cond.And(sk.Between(expression.Value(start), expression.Value(end)))
	case start != "":
		cond = cond.And(sk.GreaterThanEqual(expression.Value(start)))
	case end != "":
		cond = cond.And(sk.LessThanEqual(expression.Value(end)))
	}
	return cond
}

// newQueryInput builds a QueryInput for table from a key condition.
func newQueryInput(table string, cond expression.KeyConditionBuilder) (*dynamodb.QueryInput, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("build key condition: %w", err)
	}
	return &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}

// queryAll follows LastEvaluatedKey until every page of the query is read.
func queryAll(ctx context.Context, client dynamodb.QueryAPIClient, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	p := dynamodb.NewQueryPaginator(client, input)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

// scanAll reads every page of a full-table scan. Cost grows with table size.
func scanAll(ctx context.Context, client dynamodb.ScanAPIClient, table string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	p := dynamodb.NewScanPaginator(client, &dynamodb.ScanInput{TableName: aws.String(table)})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

// batchDelete removes keys from table in sequential chunks of batchWriteMax.
// A failed chunk stops the run; chunks already written stay deleted.
// Unprocessed items are reported as ErrPartialDelete and not retried.
func batchDelete(ctx context.Context, client API, table string, keys []map[string]types.AttributeValue) error {
	for chunk := range slices.Chunk(keys, batchWriteMax) {
		reqs := make([]types.WriteRequest, len(chunk))
		for i, key := range chunk {
			reqs[i] = types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}}
		}
		out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{table: reqs},
		})
		if err != nil {
			return fmt.Errorf("batch delete from %s: %w", table, err)
		}
		if n := len(out.UnprocessedItems[table]); n > 0 {
			return fmt.Errorf("%w: %d of %d in %s", domain.ErrPartialDelete, n, len(reqs), table)
		}
	}
	return nil
}
