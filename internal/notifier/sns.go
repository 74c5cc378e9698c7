package notifier

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/ewu-ics-cal/ewucal/internal/logger"
)

// maxSubject is the SNS limit on email subjects
const maxSubject = 100

// Publisher is the subset of the SNS client used by SNSNotifier
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes one SNS message per change
type SNSNotifier struct {
	client   Publisher
	topicARN string
}

// NewSNSNotifier creates a notifier using the default AWS credential chain
func NewSNSNotifier(ctx context.Context, topicARN string) (*SNSNotifier, error) {
	if topicARN == "" {
		return nil, fmt.Errorf("missing SNS topic ARN")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return NewSNSNotifierWithClient(sns.NewFromConfig(cfg), topicARN), nil
}

// NewSNSNotifierWithClient creates a notifier around an existing publisher
func NewSNSNotifierWithClient(client Publisher, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

// Notify publishes each change to the topic
func (n *SNSNotifier) Notify(ctx context.Context, changes []Change) error {
	for _, c := range changes {
		subject := truncate(c.Subject(), maxSubject)

		out, err := n.client.Publish(ctx, &sns.PublishInput{
			TopicArn: aws.String(n.topicARN),
			Subject:  aws.String(subject),
			Message:  aws.String(c.Message()),
		})
		if err != nil {
			logger.IncrCounter("notifier.sns_error")
			return fmt.Errorf("publishing change for %s: %w", c.Path, err)
		}

		logger.IncrCounter("notifier.sns_published")
		logger.Debug("revision published", logger.Fields{
			"path":       c.Path,
			"message_id": aws.ToString(out.MessageId),
		})
	}
	return nil
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
