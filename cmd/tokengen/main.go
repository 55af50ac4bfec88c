// Package main provides a CLI tool for generating party tokens for local use.
// These tokens use the dev signing key and will NOT work in production.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"veritas/internal/jwtauth"
	id "veritas/pkg/domain"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer   = "veritas"
	defaultTokenTTL = 15 * time.Minute
)

var validRoles = map[string]bool{
	jwtauth.RoleIssuer:    true,
	jwtauth.RoleHolder:    true,
	jwtauth.RoleAuthority: true,
	jwtauth.RoleOracle:    true,
}

type tokenOutput struct {
	Token     string   `json:"token"`
	PartyID   string   `json:"party_id"`
	Roles     []string `json:"roles"`
	ExpiresIn string   `json:"expires_in"`
	Usage     string   `json:"usage"`
}

func main() {
	partyFlag := flag.String("party-id", "", "Party ID (UUID). Generated if empty.")
	rolesFlag := flag.String("roles", jwtauth.RoleHolder, "Comma-separated roles: issuer,holder,authority,oracle")
	ttlFlag := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	keyFlag := flag.String("signing-key", devSigningKey, "JWT signing key (must match the server)")
	issuerFlag := flag.String("token-issuer", defaultIssuer, "Token issuer (must match the server)")
	jsonFlag := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	party, err := resolveParty(*partyFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	roles := strings.Split(*rolesFlag, ",")
	for i, role := range roles {
		roles[i] = strings.TrimSpace(role)
		if !validRoles[roles[i]] {
			fmt.Fprintf(os.Stderr, "error: unknown role %q\n", roles[i])
			os.Exit(1)
		}
	}

	tokens := jwtauth.NewService(*keyFlag, *issuerFlag, *ttlFlag)
	token, err := tokens.GenerateToken(party, roles)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if *jsonFlag {
		out := tokenOutput{
			Token:     token,
			PartyID:   party.String(),
			Roles:     roles,
			ExpiresIn: ttlFlag.String(),
			Usage:     "Authorization: Bearer <token>",
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Printf("party_id: %s\n", party.String())
	fmt.Printf("roles:    %s\n", strings.Join(roles, ","))
	fmt.Printf("expires:  %s\n", ttlFlag.String())
	fmt.Printf("\n%s\n", token)
}

func resolveParty(raw string) (id.PartyID, error) {
	if raw == "" {
		return id.PartyID(uuid.New()), nil
	}
	return id.ParsePartyID(raw)
}
