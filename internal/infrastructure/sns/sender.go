package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/smarthome-panel/internal/config"
	"github.com/smarthome-panel/internal/domain"
	"github.com/smarthome-panel/internal/infrastructure/awsx"
)

// API is the subset of the SNS client used by Sender.
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender fans saved notifications out to an SNS topic.
type Sender struct {
	client   API
	topicARN string
}

// NewSender returns nil when no topic is configured.
func NewSender(cfg *config.Config) *Sender {
	if cfg.NotificationsTopicARN == "" {
		return nil
	}
	client := sns.NewFromConfig(awsx.LoadConfig(cfg), func(o *sns.Options) {
		o.BaseEndpoint = awsx.Endpoint(cfg)
	})
	return NewSenderWithClient(client, cfg.NotificationsTopicARN)
}

func NewSenderWithClient(client API, topicARN string) *Sender {
	return &Sender{client: client, topicARN: topicARN}
}

// PublishNotification sends n as a JSON message. The username is carried as a
// message attribute so subscribers can filter per user.
func (s *Sender) PublishNotification(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("Smart home notification"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"username": {DataType: aws.String("String"), StringValue: aws.String(n.Username)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
