package notify

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sesTypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/outofoffice3/tag-compliance/internal/awsclientmgr"
)

// sns rejects subjects longer than 100 characters
const maxSubjectLength = 100

// Broadcaster publishes a notification to every subscriber of a channel.
type Broadcaster interface {
	Publish(ctx context.Context, subject string, body string) error
}

// DirectSender delivers a notification to a single address.
type DirectSender interface {
	Send(ctx context.Context, toAddress string, subject string, body string) error
}

type _SNSBroadcaster struct {
	client   awsclientmgr.SNSAPI
	topicArn string
}

func NewSNSBroadcaster(client awsclientmgr.SNSAPI, topicArn string) Broadcaster {
	return &_SNSBroadcaster{
		client:   client,
		topicArn: topicArn,
	}
}

func (b *_SNSBroadcaster) Publish(ctx context.Context, subject string, body string) error {
	if b.topicArn == "" {
		return errors.New("sns topic arn is not set")
	}
	_, err := b.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(b.topicArn),
		Subject:  aws.String(TruncateSubject(subject)),
		Message:  aws.String(body),
	})
	return err
}

type _SESSender struct {
	client      awsclientmgr.SESAPI
	fromAddress string
}

func NewSESSender(client awsclientmgr.SESAPI, fromAddress string) DirectSender {
	return &_SESSender{
		client:      client,
		fromAddress: fromAddress,
	}
}

func (s *_SESSender) Send(ctx context.Context, toAddress string, subject string, body string) error {
	if s.fromAddress == "" {
		return errors.New("sender address is not set")
	}
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromAddress),
		Destination:      &sesTypes.Destination{ToAddresses: []string{toAddress}},
		Content: &sesTypes.EmailContent{
			Simple: &sesTypes.Message{
				Subject: &sesTypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &sesTypes.Body{
					Text: &sesTypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	return err
}

// TruncateSubject shortens subject to the sns limit.
func TruncateSubject(subject string) string {
	runes := []rune(subject)
	if len(runes) <= maxSubjectLength {
		return subject
	}
	return string(runes[:maxSubjectLength-3]) + "..."
}
