// Package requestcontext carries request-scoped values between middleware
// and domain services without leaking http.Request into business logic.
package requestcontext

import (
	"context"

	id "veritas/pkg/domain"
)

type requestIDKey struct{}
type callerKey struct{}
type rolesKey struct{}
type deviceKey struct{}

// WithRequestID stores the request correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request correlation ID, or "" if absent.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithCaller stores the authenticated caller identity.
func WithCaller(ctx context.Context, caller id.PartyID) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// Caller returns the authenticated caller identity, or the zero PartyID.
func Caller(ctx context.Context) id.PartyID {
	if v, ok := ctx.Value(callerKey{}).(id.PartyID); ok {
		return v
	}
	return id.PartyID{}
}

// WithRoles stores the caller's role claims.
func WithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, rolesKey{}, roles)
}

// HasRole reports whether the caller carries the given role claim.
func HasRole(ctx context.Context, role string) bool {
	roles, ok := ctx.Value(rolesKey{}).([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// WithDevice stores a short device summary derived from the User-Agent.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceKey{}, device)
}

// Device returns the device summary, or "" if absent.
func Device(ctx context.Context) string {
	if v, ok := ctx.Value(deviceKey{}).(string); ok {
		return v
	}
	return ""
}
