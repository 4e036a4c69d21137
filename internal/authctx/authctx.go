package authctx

import (
	"context"

	"github.com/White1313devil/medicals/internal/model"
)

type contextKey string

const (
	adminContextKey  contextKey = "currentAdmin"
	clientContextKey contextKey = "client"
)

type CurrentAdmin struct {
	ID       uint
	Username string
	Role     model.AdminRole
}

// Client describes where a request came from.
type Client struct {
	IP        string
	UserAgent string
}

func WithCurrentAdmin(ctx context.Context, admin CurrentAdmin) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

func FromContext(ctx context.Context) *CurrentAdmin {
	val, ok := ctx.Value(adminContextKey).(CurrentAdmin)
	if !ok {
		return nil
	}
	return &val
}

func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, clientContextKey, client)
}

func ClientFromContext(ctx context.Context) Client {
	client, _ := ctx.Value(clientContextKey).(Client)
	return client
}
