package utils

import (
	"context"
)

type contextKey string

const (
	ContextUsernameKey  contextKey = "username"
	ContextRequestIDKey contextKey = "requestID"
)

// WithUsername returns ctx carrying the resolved identity.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ContextUsernameKey, username)
}

// GetUsernameFromContext reports the identity resolved for the request, if any.
// Anonymous requests return ("", false).
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextUsernameKey).(string)
	return username, ok && username != ""
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextRequestIDKey, id)
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextRequestIDKey).(string)
	return id
}
