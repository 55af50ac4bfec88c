package config

import (
	"os"
	"time"

	id "veritas/pkg/domain"
)

// Server captures process-level configuration. Collaborator identities that
// the original deployment kept as ambient globals (the oracle address, the
// substrate binding context) are explicit fields here and are passed into
// the engine at construction.
type Server struct {
	Addr          string
	Environment   string
	JWTSigningKey string
	TokenIssuer   string
	TokenTTL      time.Duration

	// OracleParty is the only identity allowed to resolve reveal requests.
	OracleParty id.PartyID
	// SubstrateKey seeds the deterministic substrate; SubstrateContext is
	// the deployment context attestation proofs are bound to.
	SubstrateKey     string
	SubstrateContext string
	// OracleEmbedded runs the decryption oracle worker in-process (dev/demo).
	OracleEmbedded bool
	OracleInterval time.Duration

	// DBPath selects sqlite persistence; empty means in-memory stores.
	DBPath string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:             getEnv("VERITAS_ADDR", ":8080"),
		Environment:      getEnv("VERITAS_ENV", "dev"),
		JWTSigningKey:    getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenIssuer:      getEnv("TOKEN_ISSUER", "veritas"),
		TokenTTL:         getDuration("TOKEN_TTL", 15*time.Minute),
		SubstrateKey:     getEnv("SUBSTRATE_KEY", "dev-substrate-key"),
		SubstrateContext: getEnv("SUBSTRATE_CONTEXT", "veritas-dev"),
		OracleEmbedded:   os.Getenv("ORACLE_EMBEDDED") == "true",
		OracleInterval:   getDuration("ORACLE_INTERVAL", 2*time.Second),
		DBPath:           os.Getenv("VERITAS_DB_PATH"),
	}

	if raw := os.Getenv("ORACLE_PARTY_ID"); raw != "" {
		if party, err := id.ParsePartyID(raw); err == nil {
			cfg.OracleParty = party
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
