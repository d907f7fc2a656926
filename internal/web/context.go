package web

import (
	"context"
	"net"
	"net/http"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/core"
)

// withClient records the caller on ctx so import runs can report it.
func withClient(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, core.Client{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})
}

// clientIP is RemoteAddr without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
