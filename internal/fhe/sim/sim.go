// Package sim is a deterministic in-process stand-in for the encrypted
// computation substrate, playing the role the mock fhevm environment plays
// in contract test harnesses. Handles are random references into a plaintext
// vault; proofs are keyed MACs over the handle and its binding. Nothing here
// is cryptographically private. The point is to exercise the registry's
// contracts (admission, comparison, reveal) with honest verification
// mechanics, not to hide data from the host process.
package sim

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/crypto/sha3"

	"veritas/internal/fhe"
	"veritas/internal/sentinel"
	dErrors "veritas/pkg/domain-errors"
)

// Substrate implements fhe.Substrate and fhe.Decryptor over an in-memory
// plaintext vault. Safe for concurrent use.
type Substrate struct {
	key []byte

	mu    sync.RWMutex
	vault map[fhe.Handle]string
}

// New creates a substrate keyed by the deployment's substrate key. Two
// substrates with the same key verify each other's proofs, which lets an
// out-of-process oracle attest resolutions the registry accepts.
func New(key string) *Substrate {
	return &Substrate{
		key:   []byte(key),
		vault: make(map[fhe.Handle]string),
	}
}

// Encrypt is the caller-side operation: it stores the plaintext in the vault
// and returns a fresh handle plus an input proof bound to (caller, context, field).
func (s *Substrate) Encrypt(plaintext string, binding fhe.Binding) (fhe.Handle, fhe.Proof, error) {
	h, err := s.newHandle()
	if err != nil {
		return "", "", err
	}

	s.mu.Lock()
	s.vault[h] = plaintext
	s.mu.Unlock()

	return h, s.inputProof(h, binding), nil
}

// EncryptUint is a convenience for numeric fields.
func (s *Substrate) EncryptUint(v uint64, binding fhe.Binding) (fhe.Handle, fhe.Proof, error) {
	return s.Encrypt(strconv.FormatUint(v, 10), binding)
}

// VerifyInput checks that the proof matches the handle and binding and that
// the handle references a ciphertext this substrate holds.
func (s *Substrate) VerifyInput(handle fhe.Handle, proof fhe.Proof, binding fhe.Binding) error {
	s.mu.RLock()
	_, ok := s.vault[handle]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown ciphertext handle: %w", sentinel.ErrNotFound)
	}

	expected := s.inputProof(handle, binding)
	if !hmac.Equal([]byte(expected), []byte(proof)) {
		return fmt.Errorf("input proof mismatch: %w", sentinel.ErrInvalidInput)
	}
	return nil
}

// Compare evaluates the predicate over the vault plaintexts and mints a new
// handle for the boolean result. The caller only ever sees the handle.
func (s *Substrate) Compare(_ context.Context, h fhe.Handle, op fhe.Operator, operand fhe.Operand) (fhe.Handle, error) {
	s.mu.RLock()
	left, ok := s.vault[h]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown ciphertext handle: %w", sentinel.ErrNotFound)
	}

	right, err := s.operandValue(operand)
	if err != nil {
		return "", err
	}

	var result bool
	switch op {
	case fhe.OpEQ:
		result = left == right
	case fhe.OpGE:
		l, lerr := strconv.ParseUint(left, 10, 64)
		r, rerr := strconv.ParseUint(right, 10, 64)
		if lerr != nil || rerr != nil {
			return "", fmt.Errorf("threshold comparison needs numeric operands: %w", sentinel.ErrInvalidInput)
		}
		result = l >= r
	default:
		return "", fmt.Errorf("unsupported operator %q: %w", op, sentinel.ErrInvalidInput)
	}

	out, err := s.newHandle()
	if err != nil {
		return "", err
	}

	encoded := "0"
	if result {
		encoded = "1"
	}
	s.mu.Lock()
	s.vault[out] = encoded
	s.mu.Unlock()

	return out, nil
}

// Decrypt is the oracle-side operation.
func (s *Substrate) Decrypt(_ context.Context, h fhe.Handle) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vault[h]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown ciphertext handle: %w", sentinel.ErrNotFound)
}

// AttestResolution produces the oracle's proof of correct decryption.
func (s *Substrate) AttestResolution(h fhe.Handle, plaintext string) fhe.Proof {
	return s.resolutionProof(h, plaintext)
}

// VerifyResolution checks an oracle resolution attestation.
func (s *Substrate) VerifyResolution(handle fhe.Handle, plaintext string, attestation fhe.Proof) error {
	expected := s.resolutionProof(handle, plaintext)
	if !hmac.Equal([]byte(expected), []byte(attestation)) {
		return fmt.Errorf("resolution attestation mismatch: %w", sentinel.ErrInvalidInput)
	}
	return nil
}

func (s *Substrate) operandValue(operand fhe.Operand) (string, error) {
	switch {
	case operand.Plaintext != nil:
		return strconv.FormatUint(*operand.Plaintext, 10), nil
	case operand.Handle != nil:
		s.mu.RLock()
		v, ok := s.vault[*operand.Handle]
		s.mu.RUnlock()
		if !ok {
			return "", fmt.Errorf("unknown operand handle: %w", sentinel.ErrNotFound)
		}
		return v, nil
	default:
		return "", fmt.Errorf("empty operand: %w", sentinel.ErrInvalidInput)
	}
}

func (s *Substrate) newHandle() (fhe.Handle, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint handle")
	}
	digest := sha3.Sum256(append(append([]byte{}, s.key...), nonce...))
	return fhe.Handle("0x" + hex.EncodeToString(digest[:])), nil
}

func (s *Substrate) inputProof(h fhe.Handle, binding fhe.Binding) fhe.Proof {
	mac := hmac.New(sha3.New256, s.key)
	mac.Write([]byte("input|"))
	mac.Write([]byte(h))
	mac.Write([]byte("|"))
	mac.Write([]byte(binding.Caller.String()))
	mac.Write([]byte("|"))
	mac.Write([]byte(binding.Context))
	mac.Write([]byte("|"))
	mac.Write([]byte(binding.Field))
	return fhe.Proof(hex.EncodeToString(mac.Sum(nil)))
}

func (s *Substrate) resolutionProof(h fhe.Handle, plaintext string) fhe.Proof {
	mac := hmac.New(sha3.New256, s.key)
	mac.Write([]byte("resolution|"))
	mac.Write([]byte(h))
	mac.Write([]byte("|"))
	mac.Write([]byte(plaintext))
	return fhe.Proof(hex.EncodeToString(mac.Sum(nil)))
}

// Interface guards.
var (
	_ fhe.Substrate = (*Substrate)(nil)
	_ fhe.Decryptor = (*Substrate)(nil)
)
