package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"eventhub/internal/domain"
)

// Providers understood by NewMailer.
const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"
)

// MailerConfig selects and configures the outgoing mail provider.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// from formats the sender as an RFC 5322 address.
func (c MailerConfig) from() string {
	return (&mail.Address{Name: c.FromName, Address: c.FromAddress}).String()
}

// NewMailer returns the mailer for config.Provider. An empty provider means
// noop; an unknown one is logged and also falls back to noop.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch strings.ToLower(config.Provider) {
	case ProviderSES:
		if config.FromAddress == "" {
			return nil, fmt.Errorf("ses mailer: from address is required")
		}
		if _, err := mail.ParseAddress(config.FromAddress); err != nil {
			return nil, fmt.Errorf("ses mailer: invalid from address: %w", err)
		}
		return newSESMailer(config, logger), nil
	case ProviderNoop, "":
	default:
		logger.Warn("unknown email provider, emails will not be sent", "provider", config.Provider)
	}
	return &noopMailer{logger: logger}, nil
}

// noopMailer only logs what it would have sent.
type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, _, _ string) error {
	n.logger.DebugContext(ctx, "email not sent (noop provider)", "to", to, "subject", subject)
	return nil
}
