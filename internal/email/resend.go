package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendSender struct {
	client  *resend.Client
	from    string
	appName string
}

func NewResendSender(apiKey, from, appName string) *ResendSender {
	return &ResendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		appName: appName,
	}
}

func (s *ResendSender) SendOTP(ctx context.Context, to, code string) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Your %s verification code", s.appName),
		Text: fmt.Sprintf(
			"Your verification code is %s.\n\nIt expires in 15 minutes. If you did not request it, ignore this email.",
			code,
		),
	})
	return err
}

func (s *ResendSender) SendMagicLink(ctx context.Context, to, link string) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Sign in to %s", s.appName),
		Text: fmt.Sprintf(
			"Click the link below to sign in:\n\n%s\n\nThe link expires in 15 minutes. If you did not request it, ignore this email.",
			link,
		),
	})
	return err
}

func (s *ResendSender) SendVoteConfirmation(ctx context.Context, to string, categoryCount int) error {
	noun := "categories"
	if categoryCount == 1 {
		noun = "category"
	}
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Vote confirmation - %s", s.appName),
		Text: fmt.Sprintf(
			"Your votes in %d %s have been recorded. Votes are final and cannot be changed.",
			categoryCount, noun,
		),
	})
	return err
}
