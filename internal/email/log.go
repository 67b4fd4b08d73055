package email

import (
	"context"
	"log/slog"
)

// LogSender writes deliveries to the log instead of sending mail. Used in
// development when no Resend API key is configured.
type LogSender struct{}

func (LogSender) SendOTP(ctx context.Context, to, code string) error {
	slog.Info("email (dev): otp", "to", to, "code", code)
	return nil
}

func (LogSender) SendMagicLink(ctx context.Context, to, link string) error {
	slog.Info("email (dev): magic link", "to", to, "link", link)
	return nil
}

func (LogSender) SendVoteConfirmation(ctx context.Context, to string, categoryCount int) error {
	slog.Info("email (dev): vote confirmation", "to", to, "categories", categoryCount)
	return nil
}
