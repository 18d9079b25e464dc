package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewMailer(t *testing.T) {
	logger := discardLogger()

	m, err := NewMailer(MailerConfig{Provider: "noop"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "no-reply@eventhub.com", SES: SESConfig{Region: "us-east-1"}}, logger)
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses"}, logger)
	require.Error(t, err)

	_, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "not an address"}, logger)
	require.Error(t, err)

	m, err = NewMailer(MailerConfig{}, logger)
	require.NoError(t, err)
	require.NoError(t, m.Send(context.Background(), "to@example.com", "Hi", "", ""))
}

func TestSESMailer_Send(t *testing.T) {
	fake := &fakeSES{}
	m := &sesMailer{client: fake, source: MailerConfig{FromAddress: "no-reply@eventhub.com", FromName: "EventHub"}.from(), logger: discardLogger()}

	require.NoError(t, m.Send(context.Background(), "to@example.com", "Hi", "<p>hi</p>", ""))
	require.NotNil(t, fake.input)
	assert.Equal(t, "EventHub <no-reply@eventhub.com>", aws.ToString(fake.input.Source))
	assert.Equal(t, []string{"to@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(fake.input.Message.Subject.Data))
	require.NotNil(t, fake.input.Message.Body.Html)
	assert.Nil(t, fake.input.Message.Body.Text)

	fake.err = errors.New("throttled")
	err := m.Send(context.Background(), "to@example.com", "Hi", "", "hi")
	require.ErrorContains(t, err, "throttled")
}
