package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventhub/internal/domain"
)

// Template names under the email adapter's templates folder.
const (
	welcomeTemplate                  = "welcome"
	registrationConfirmationTemplate = "registration_confirmation"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	if err := s.send(ctx, welcomeTemplate, data.Email, data); err != nil {
		return err
	}
	s.logger.Info("welcome email sent", "to", data.Email)
	return nil
}

// SendRegistrationConfirmation sends the "registration_confirmation" email for an event registration.
func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration confirmation data is nil")
	}
	if err := s.send(ctx, registrationConfirmationTemplate, data.Email, data); err != nil {
		return err
	}
	s.logger.Info("registration confirmation sent", "to", data.Email, "event", data.EventTitle)
	return nil
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	return nil
}
