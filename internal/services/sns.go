package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"nelson-infra-automation/internal/models"
)

// SNSAPI is the subset of the SNS client used to publish alerts
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier publishes notification messages to SNS topics
type Notifier struct {
	client SNSAPI
}

// NewNotifier creates a notifier
func NewNotifier(client SNSAPI) *Notifier {
	return &Notifier{client: client}
}

// Publish sends the message and returns the SNS message ID
func (n *Notifier) Publish(ctx context.Context, msg models.NotificationMessage) (string, error) {
	output, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(msg.TopicArn),
		Message:  aws.String(msg.Body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", msg.TopicArn, err)
	}
	return aws.ToString(output.MessageId), nil
}
