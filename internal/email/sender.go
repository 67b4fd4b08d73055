// Package email is the outbound notification sink. Deliveries are
// best-effort: callers dispatch them off the request path and a failed send
// never fails the operation that triggered it.
package email

import "context"

type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
	SendMagicLink(ctx context.Context, to, link string) error
	SendVoteConfirmation(ctx context.Context, to string, categoryCount int) error
}
