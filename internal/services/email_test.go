package services

import (
	"context"
	"errors"
	"testing"

	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, html, text string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, html, text})
	return nil
}

type fakeRenderer struct {
	names []string
	err   error
}

func (r *fakeRenderer) Render(name string, _ any) (string, string, string, error) {
	r.names = append(r.names, name)
	if r.err != nil {
		return "", "", "", r.err
	}
	return "subject " + name, "<p>" + name + "</p>", name, nil
}

func TestEmailService_SendWelcomeMessage(t *testing.T) {
	mailer := &fakeMailer{}
	renderer := &fakeRenderer{}
	svc := NewEmailService(mailer, renderer, discardLogger())

	err := svc.SendWelcomeMessage(context.Background(), &domain.WelcomeMessageEmailData{Email: "a@example.com", FirstName: "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome"}, renderer.names)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, sentMail{"a@example.com", "subject welcome", "<p>welcome</p>", "welcome"}, mailer.sent[0])

	require.Error(t, svc.SendWelcomeMessage(context.Background(), nil))
}

func TestEmailService_SendRegistrationConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	renderer := &fakeRenderer{}
	svc := NewEmailService(mailer, renderer, discardLogger())
	data := &domain.RegistrationConfirmationEmailData{Email: "b@example.com", EventTitle: "Hack"}

	require.NoError(t, svc.SendRegistrationConfirmation(context.Background(), data))
	assert.Equal(t, []string{"registration_confirmation"}, renderer.names)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "b@example.com", mailer.sent[0].to)

	mailer.err = errors.New("throttled")
	err := svc.SendRegistrationConfirmation(context.Background(), data)
	require.ErrorContains(t, err, "throttled")

	renderer.err = errors.New("bad template")
	err = svc.SendRegistrationConfirmation(context.Background(), data)
	require.ErrorContains(t, err, "bad template")
}
