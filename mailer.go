package auth

import (
	"context"
	"net/url"
	"strings"
)

// VerificationLink builds the email verification URL delivered to a
// pending account.
func VerificationLink(siteURL, token string) string {
	return buildLink(siteURL, "/verify-email", token)
}

// PasswordResetLink builds the reset URL delivered to an account that
// requested a password reset.
func PasswordResetLink(siteURL, token string) string {
	return buildLink(siteURL, "/reset-password", token)
}

func buildLink(siteURL, path, token string) string {
	base := strings.TrimRight(strings.TrimSpace(siteURL), "/")
	return base + path + "?token=" + url.QueryEscape(token)
}

// logMailer writes links to the logger instead of delivering mail. Useful
// in development and as the default when no mailer is wired.
type logMailer struct {
	logger Logger
}

// NewLogMailer returns a LinkMailer that only logs.
func NewLogMailer(logger Logger) LinkMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &logMailer{logger: logger}
}

func (m *logMailer) SendLink(_ context.Context, address, link string) error {
	m.logger.Info("sending email notification", "to", address, "link", link)
	return nil
}
