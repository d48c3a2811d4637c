package dynamo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/smarthome-panel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records calls and serves canned query/scan items in a single page.
type fakeAPI struct {
	items       []map[string]types.AttributeValue
	queries     []*dynamodb.QueryInput
	puts        []*dynamodb.PutItemInput
	deletes     []*dynamodb.DeleteItemInput
	batches     []*dynamodb.BatchWriteItemInput
	batchErrAt  int // 1-based batch call that fails; 0 = never
	unprocessed bool
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	return &dynamodb.QueryOutput{Items: f.items}, nil
}

func (f *fakeAPI) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{Items: f.items}, nil
}

func (f *fakeAPI) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.batches = append(f.batches, in)
	if f.batchErrAt == len(f.batches) {
		return nil, errors.New("throttled")
	}
	out := &dynamodb.BatchWriteItemOutput{}
	if f.unprocessed {
		for table, reqs := range in.RequestItems {
			out.UnprocessedItems = map[string][]types.WriteRequest{table: reqs[:1]}
		}
	}
	return out, nil
}

func batchSizes(f *fakeAPI, table string) []int {
	sizes := make([]int, len(f.batches))
	for i, b := range f.batches {
		sizes[i] = len(b.RequestItems[table])
	}
	return sizes
}

func notificationItems(t *testing.T, username string, n int) []map[string]types.AttributeValue {
	t.Helper()
	items := make([]map[string]types.AttributeValue, n)
	for i := range items {
		item, err := attributevalue.MarshalMap(domain.Notification{
			Username:  username,
			Timestamp: fmt.Sprintf("2024-01-01T00:00:%02d.000Z", i),
			Message:   "lights off",
		})
		require.NoError(t, err)
		items[i] = item
	}
	return items
}

func TestCompositeKey(t *testing.T) {
	key := compositeKey("username", "alice", "timestamp", "2024-01-01T00:00:00.000Z")
	assert.Equal(t, &types.AttributeValueMemberS{Value: "alice"}, key["username"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2024-01-01T00:00:00.000Z"}, key["timestamp"])
}

func TestNewQueryInput_BetweenBounds(t *testing.T) {
	in, err := newQueryInput("logs", rangeKeyCondition("username", "alice", "timestamp", "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "logs", *in.TableName)
	assert.Contains(t, *in.KeyConditionExpression, "BETWEEN")
	assert.Len(t, in.ExpressionAttributeValues, 3)
}

func TestNewQueryInput_HalfOpenBounds(t *testing.T) {
	in, err := newQueryInput("logs", rangeKeyCondition("username", "alice", "timestamp", "a", ""))
	require.NoError(t, err)
	assert.Contains(t, *in.KeyConditionExpression, ">=")

	in, err = newQueryInput("logs", rangeKeyCondition("username", "alice", "timestamp", "", "b"))
	require.NoError(t, err)
	assert.Contains(t, *in.KeyConditionExpression, "<=")

	in, err = newQueryInput("logs", rangeKeyCondition("username", "alice", "timestamp", "", ""))
	require.NoError(t, err)
	assert.Len(t, in.ExpressionAttributeValues, 1)
}

func TestBatchDelete_ChunksOf25(t *testing.T) {
	api := &fakeAPI{}
	keys := make([]map[string]types.AttributeValue, 57)
	for i := range keys {
		keys[i] = compositeKey("username", "alice", "timestamp", fmt.Sprint(i))
	}

	require.NoError(t, batchDelete(context.Background(), api, "Notifications", keys))
	assert.Equal(t, []int{25, 25, 7}, batchSizes(api, "Notifications"))
}

func TestBatchDelete_NoKeysNoCalls(t *testing.T) {
	api := &fakeAPI{}
	require.NoError(t, batchDelete(context.Background(), api, "Notifications", nil))
	assert.Empty(t, api.batches)
}

func TestBatchDelete_StopsAtFailedChunk(t *testing.T) {
	api := &fakeAPI{batchErrAt: 2}
	keys := make([]map[string]types.AttributeValue, 60)
	for i := range keys {
		keys[i] = compositeKey("username", "alice", "timestamp", fmt.Sprint(i))
	}

	err := batchDelete(context.Background(), api, "Notifications", keys)
	assert.ErrorContains(t, err, "throttled")
	assert.Len(t, api.batches, 2)
}

func TestBatchDelete_UnprocessedIsPartialDelete(t *testing.T) {
	api := &fakeAPI{unprocessed: true}
	keys := []map[string]types.AttributeValue{compositeKey("username", "alice", "timestamp", "1")}

	err := batchDelete(context.Background(), api, "Notifications", keys)
	assert.ErrorIs(t, err, domain.ErrPartialDelete)
}

func TestNotificationRepo_DeleteAllFor57Rows(t *testing.T) {
	api := &fakeAPI{items: notificationItems(t, "alice", 57)}
	repo := NewNotificationRepo(api, "Notifications")
	ctx := context.Background()

	notifications, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notifications, 57)

	require.NoError(t, repo.DeleteBatch(ctx, notifications))
	assert.Equal(t, []int{25, 25, 7}, batchSizes(api, "Notifications"))

	first := api.batches[0].RequestItems["Notifications"][0].DeleteRequest.Key
	assert.Equal(t, &types.AttributeValueMemberS{Value: "alice"}, first["username"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2024-01-01T00:00:00.000Z"}, first["timestamp"])
}

func TestNotificationRepo_DeleteOne(t *testing.T) {
	api := &fakeAPI{}
	repo := NewNotificationRepo(api, "Notifications")

	require.NoError(t, repo.Delete(context.Background(), "alice", "2024-01-01T00:00:00.000Z"))
	require.Len(t, api.deletes, 1)
	assert.Equal(t, compositeKey("username", "alice", "timestamp", "2024-01-01T00:00:00.000Z"), api.deletes[0].Key)
}

func TestStatusRepo_LatestQueriesDescendingLimitOne(t *testing.T) {
	item, err := attributevalue.MarshalMap(domain.DeviceStatus{DeviceID: "led", Timestamp: "2024-01-02T00:00:00.000Z", Status: "ON"})
	require.NoError(t, err)
	api := &fakeAPI{items: []map[string]types.AttributeValue{item}}
	repo := NewStatusRepo(api, "DeviceStatus")

	s, err := repo.Latest(context.Background(), "led")
	require.NoError(t, err)
	assert.Equal(t, "ON", s.Status)

	require.Len(t, api.queries, 1)
	assert.False(t, *api.queries[0].ScanIndexForward)
	assert.Equal(t, int32(1), *api.queries[0].Limit)
}

func TestStatusRepo_LatestNotFound(t *testing.T) {
	repo := NewStatusRepo(&fakeAPI{}, "DeviceStatus")
	_, err := repo.Latest(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUsageLogRepo_ScanEmptyTable(t *testing.T) {
	repo := NewUsageLogRepo(&fakeAPI{}, "DeviceUsageLogs")
	logs, err := repo.Scan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestScheduleRepo_PutMarshalsKeys(t *testing.T) {
	api := &fakeAPI{}
	repo := NewScheduleRepo(api, "ScheduleDev")
	require.NoError(t, repo.Put(context.Background(), &domain.Schedule{
		RoomName: "kitchen", DeviceName: "lamp", TurnOnTime: "07:00", TurnOffTime: "23:00", CreatedAt: "2024-01-01T00:00:00.000Z",
	}))
	require.Len(t, api.puts, 1)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "kitchen"}, api.puts[0].Item["roomName"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "lamp"}, api.puts[0].Item["deviceName"])
}
