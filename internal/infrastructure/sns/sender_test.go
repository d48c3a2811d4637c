package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthome-panel/internal/config"
	"github.com/smarthome-panel/internal/domain"
)

type fakeAPI struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeAPI) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{}, f.err
}

func TestPublishNotification(t *testing.T) {
	api := &fakeAPI{}
	s := NewSenderWithClient(api, "arn:aws:sns:eu-west-2:123:notifications")

	n := domain.Notification{Username: "alice", Timestamp: "2024-01-01T10:00:00.000Z", Message: "Lamp on", Device: "lamp", Room: "living"}
	require.NoError(t, s.PublishNotification(context.Background(), n))

	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "arn:aws:sns:eu-west-2:123:notifications", aws.ToString(in.TopicArn))
	assert.Equal(t, "alice", aws.ToString(in.MessageAttributes["username"].StringValue))
	assert.Contains(t, aws.ToString(in.Message), `"message":"Lamp on"`)
}

func TestPublishNotification_Error(t *testing.T) {
	s := NewSenderWithClient(&fakeAPI{err: errors.New("denied")}, "arn")
	assert.Error(t, s.PublishNotification(context.Background(), domain.Notification{Username: "bob"}))
}

func TestNewSender_DisabledWithoutTopic(t *testing.T) {
	assert.Nil(t, NewSender(&config.Config{}))
}
