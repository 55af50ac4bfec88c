package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "veritas/pkg/domain"
	"veritas/pkg/requestcontext"
)

type stubValidator struct {
	claims *Claims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*Claims, error) {
	return s.claims, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuth_PopulatesContext(t *testing.T) {
	party := uuid.New()
	validator := &stubValidator{claims: &Claims{PartyID: party.String(), Roles: []string{"holder"}}}

	var gotCaller id.PartyID
	var gotRole bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller = requestcontext.Caller(r.Context())
		gotRole = requestcontext.HasRole(r.Context(), "holder")
	})

	req := httptest.NewRequest(http.MethodGet, "/records/1", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	RequireAuth(validator, discardLogger())(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, party.String(), gotCaller.String())
	assert.True(t, gotRole)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	validator := &stubValidator{claims: &Claims{}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/records/1", nil)

	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	RequireAuth(validator, discardLogger())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	validator := &stubValidator{err: errors.New("bad signature")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/records/1", nil)
	req.Header.Set("Authorization", "Bearer nope")

	RequireAuth(validator, discardLogger())(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedPartyID(t *testing.T) {
	validator := &stubValidator{claims: &Claims{PartyID: "not-a-uuid"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/records/1", nil)
	req.Header.Set("Authorization", "Bearer token")

	RequireAuth(validator, discardLogger())(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
