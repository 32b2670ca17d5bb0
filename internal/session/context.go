package session

import (
	"context"
	"errors"
)

type ctxKey int

const ctxToken ctxKey = iota

// WithToken stores the request's bearer credential in context. The route
// guard sets it after the presence check; handlers read it back instead of
// touching the cookie themselves.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxToken, token)
}

func Token(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(ctxToken).(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("session: token not in context")
}
