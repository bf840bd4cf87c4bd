package services

import "context"

type ctxKey int

const emailKey ctxKey = iota

// WithEmail binds the signed-in user's email to ctx. Backend calls made with
// the returned context carry that user's bearer token.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext returns the email bound by WithEmail, or "".
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}
