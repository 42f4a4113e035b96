package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestPublish(t *testing.T) {
	client := &fakeSNS{}
	svc := &service{client: client, topicARN: "arn:aws:sns:eu-west-1:123456789012:releases"}

	id, err := svc.Publish(context.Background(), Event{
		Project:     "rules",
		Version:     "1.2.0",
		Tag:         "v1.2.0",
		ReleaseType: "minor",
		Reason:      "New features",
		Assets:      []string{"rules-v1.2.0.tar.gz"},
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "rules v1.2.0 released (minor)", aws.ToString(client.input.Subject))
	assert.Equal(t, "minor", aws.ToString(client.input.MessageAttributes["release_type"].StringValue))

	var got Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.input.Message)), &got))
	assert.Equal(t, "v1.2.0", got.Tag)
	assert.Equal(t, []string{"rules-v1.2.0.tar.gz"}, got.Assets)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.input.Message)), &raw))
	assert.Equal(t, "rules", raw["name"])
	assert.NotContains(t, raw, "project")
}

func TestPublishErrors(t *testing.T) {
	_, err := (&service{client: &fakeSNS{}}).Publish(context.Background(), Event{})
	assert.Error(t, err)

	_, err = (&service{client: &fakeSNS{err: errors.New("AuthorizationError")}, topicARN: "arn"}).Publish(context.Background(), Event{})
	assert.Error(t, err)
}

func TestSubjectTruncates(t *testing.T) {
	s := Subject(Event{Project: strings.Repeat("x", 120), Tag: "v1.0.0", ReleaseType: "patch"})
	assert.Len(t, s, maxSubject)
	assert.True(t, strings.HasSuffix(s, "..."))
}

func TestSubjectTruncatesByRune(t *testing.T) {
	s := Subject(Event{Project: strings.Repeat("é", 120), Tag: "v1.0.0", ReleaseType: "patch"})
	if !utf8.ValidString(s) {
		t.Fatalf("subject split a multi-byte character: %q", s)
	}
	assert.Equal(t, maxSubject, utf8.RuneCountInString(s))
	assert.True(t, strings.HasSuffix(s, "..."))
}
