// Package notify publishes release events to an SNS topic.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/goccy/go-json"
)

// maxSubject is the SNS limit for email subjects.
const maxSubject = 100

// NewService creates a notifier for topicARN.
func NewService(cfg aws.Config, topicARN string) Service {
	return &service{client: sns.NewFromConfig(cfg), topicARN: topicARN}
}

func (s *service) Publish(ctx context.Context, event Event) (string, error) {
	if s.topicARN == "" {
		return "", fmt.Errorf("sns topic is not configured")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to encode release event: %w", err)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String(Subject(event)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"release_type": {DataType: aws.String("String"), StringValue: aws.String(event.ReleaseType)},
			"project":      {DataType: aws.String("String"), StringValue: aws.String(event.Project)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish release event: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// Subject renders the notification subject within the SNS length limit,
// counted in characters.
func Subject(event Event) string {
	subject := fmt.Sprintf("%s %s released (%s)", event.Project, event.Tag, event.ReleaseType)
	if runes := []rune(subject); len(runes) > maxSubject {
		subject = string(runes[:maxSubject-3]) + "..."
	}
	return subject
}
