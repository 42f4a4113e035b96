package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClientAPI is the interface for the AWS SNS client methods used by the notifier.
type SNSClientAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Event is the JSON message published for every release.
type Event struct {
	Project     string   `json:"name"`
	Version     string   `json:"version"`
	Tag         string   `json:"tag"`
	ReleaseType string   `json:"release_type"`
	Reason      string   `json:"reason"`
	Trigger     string   `json:"trigger"`
	Prerelease  bool     `json:"prerelease"`
	URL         string   `json:"url,omitempty"`
	Assets      []string `json:"assets"`
}

type service struct {
	client   SNSClientAPI
	topicARN string
}

// Service is the interface for release notifications.
type Service interface {
	Publish(ctx context.Context, event Event) (string, error)
}
