package sandbox

import (
	"context"
	"log/slog"
)

// Mailer delivers verification codes.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// LogMailer writes codes to the log instead of sending mail. It is meant for
// dev and test environments only.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "sandbox verification code", "email", email, "code", code)
	return nil
}
