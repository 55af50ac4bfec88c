package jwtauth

import (
	"veritas/pkg/platform/middleware/auth"
)

// MiddlewareAdapter bridges the token service to the auth middleware's
// validator interface without the middleware importing jwt types.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &auth.Claims{
		PartyID: claims.PartyID,
		Roles:   claims.Roles,
	}, nil
}
