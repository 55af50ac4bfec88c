// Package jwtauth issues and validates the party tokens the registry trusts
// as its identity substrate. Every boundary call carries a bearer token whose
// claims name the calling party and its roles; the core never authenticates
// parties itself.
package jwtauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Role claims recognized by the access control layer.
const (
	RoleIssuer    = "issuer"
	RoleHolder    = "holder"
	RoleAuthority = "authority"
	RoleOracle    = "oracle"
)

// PartyClaims represents the JWT claims for party tokens.
type PartyClaims struct {
	PartyID string   `json:"party_id"`
	Roles   []string `json:"roles"`
	jwt.RegisteredClaims
}

// Service handles party token creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

func NewService(signingKey string, issuer string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// GenerateToken mints a signed party token carrying the given roles.
func (s *Service) GenerateToken(party id.PartyID, roles []string) (string, error) {
	if party.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "party ID required")
	}
	if len(roles) == 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "roles cannot be empty")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, PartyClaims{
		PartyID: party.String(),
		Roles:   roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	return token.SignedString(s.signingKey)
}

// ValidateToken verifies signature, algorithm, expiry, and issuer.
func (s *Service) ValidateToken(tokenString string) (*PartyClaims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "empty token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &PartyClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*PartyClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	if claims.Issuer != s.issuer {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}

	return claims, nil
}
