package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress contextKey = "client_ip"
	ctxKeyUserAgent contextKey = "client_ua"
)

// Client identifies who started an import or export.
type Client struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// ContextWithClient stores the caller's address and User-Agent so that
// runs started with ctx record them.
func ContextWithClient(ctx context.Context, c Client) context.Context {
	if c.IP != "" {
		ctx = context.WithValue(ctx, ctxKeyIPAddress, c.IP)
	}
	if c.UserAgent != "" {
		ctx = context.WithValue(ctx, ctxKeyUserAgent, c.UserAgent)
	}
	return ctx
}

// ClientFromContext returns the caller recorded by ContextWithClient.
// Missing values are empty.
func ClientFromContext(ctx context.Context) Client {
	var c Client
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		c.IP = v
	}
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		c.UserAgent = v
	}
	return c
}
