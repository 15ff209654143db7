// Package middleware contains the request pipeline stages that run ahead of
// the route handlers.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// ErrorHandler writes the response for an error raised by a stage. Stages that
// fail hand the error over instead of writing their own response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type contextKey string

const (
	bodyKey      contextKey = "body"
	requestIDKey contextKey = "request_id"
)

// bodyHolder is mutable so that stages wrapping the body parsers, such as
// Recover, can still see the parsed body when the error reaches them.
type bodyHolder struct {
	value any
}

// BodyFromContext returns the body parsed by JSONBody or URLEncodedBody, or nil.
func BodyFromContext(ctx context.Context) any {
	if h, ok := ctx.Value(bodyKey).(*bodyHolder); ok {
		return h.value
	}
	return nil
}

func withBodyHolder(r *http.Request) *http.Request {
	if _, ok := r.Context().Value(bodyKey).(*bodyHolder); ok {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), bodyKey, &bodyHolder{}))
}

func withBody(r *http.Request, body any) *http.Request {
	r = withBodyHolder(r)
	r.Context().Value(bodyKey).(*bodyHolder).value = body
	return r
}

// RequestIDFromContext returns the id assigned by RequestLogger.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ClientIP resolves the caller address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get(constants.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}
	return PeerIP(r)
}

// PeerIP is the address of the socket peer. Unlike ClientIP it cannot be set
// by the caller.
func PeerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
