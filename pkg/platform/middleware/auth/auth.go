package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "veritas/pkg/domain"
	"veritas/pkg/requestcontext"
)

// TokenValidator defines the interface for validating party tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the claims we expect from the token validator.
type Claims struct {
	PartyID string
	Roles   []string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth returns middleware that validates bearer tokens and populates
// the context with the caller's typed PartyID and role claims. Downstream
// access control decides what each party may do; this layer only establishes
// who is calling.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			caller, err := id.ParsePartyID(claims.PartyID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed token claims",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithCaller(ctx, caller)
			ctx = requestcontext.WithRoles(ctx, claims.Roles)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
