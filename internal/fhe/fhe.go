// Package fhe defines the capability interfaces for the external
// encrypted-computation substrate. The registry never sees plaintext and
// never performs cryptography itself: it validates input attestations,
// requests homomorphic comparisons, and checks the oracle's resolution
// attestations, all through these interfaces so the core stays testable
// against a deterministic in-process implementation (see sim).
package fhe

import (
	"context"

	id "veritas/pkg/domain"
)

// Handle is an opaque reference to a ciphertext held by the substrate.
// The substrate is the sole owner of the underlying ciphertext; the registry
// only stores and routes handles.
type Handle string

// Proof is an attestation produced by the substrate: either an input proof
// binding a ciphertext to its producer, or a resolution proof accompanying
// an oracle decryption.
type Proof string

// Binding names who produced a ciphertext and for what context and field.
// Input proofs must verify against the full binding, which is what prevents
// a handle minted for one caller or field being replayed for another.
type Binding struct {
	Caller  id.PartyID
	Context string
	Field   string
}

// Operator selects the comparison predicate.
type Operator string

const (
	OpGE Operator = "ge"
	OpEQ Operator = "eq"
)

// ParseOperator validates an operator at trust boundaries.
func ParseOperator(s string) (Operator, bool) {
	switch Operator(s) {
	case OpGE, OpEQ:
		return Operator(s), true
	}
	return "", false
}

// Operand is either a plaintext value known to the caller (e.g. a
// scholarship cutoff) or another ciphertext handle. Exactly one is set.
type Operand struct {
	Plaintext *uint64
	Handle    *Handle
}

// PlaintextOperand builds a plaintext operand.
func PlaintextOperand(v uint64) Operand {
	return Operand{Plaintext: &v}
}

// HandleOperand builds a ciphertext operand.
func HandleOperand(h Handle) Operand {
	return Operand{Handle: &h}
}

// ProofValidator verifies that an externally produced handle plus its
// accompanying proof was honestly produced for the given binding.
type ProofValidator interface {
	VerifyInput(handle Handle, proof Proof, binding Binding) error
}

// Comparator evaluates a predicate over a ciphertext and an operand,
// returning the handle of an encrypted boolean. It never decrypts.
type Comparator interface {
	Compare(ctx context.Context, h Handle, op Operator, operand Operand) (Handle, error)
}

// ResolutionVerifier checks the oracle's proof that a reported plaintext is
// the correct decryption of a handle.
type ResolutionVerifier interface {
	VerifyResolution(handle Handle, plaintext string, attestation Proof) error
}

// Substrate groups the capabilities the registry consumes.
type Substrate interface {
	ProofValidator
	Comparator
	ResolutionVerifier
}

// Decryptor is the oracle-side capability. The registry core never holds
// one; only the external oracle collaborator (or its embedded stand-in) does.
type Decryptor interface {
	Decrypt(ctx context.Context, h Handle) (string, error)
	AttestResolution(h Handle, plaintext string) Proof
}
