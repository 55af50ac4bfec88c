// Package attest admits externally produced ciphertext handles into the
// registry. It separates "this ciphertext is well-formed and was produced by
// the claimed party for this exact call" from all downstream business logic:
// once admitted, the rest of the system treats handles as trusted references.
package attest

import (
	"sync"

	"veritas/internal/fhe"
	"veritas/internal/transcript/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Input is one externally produced handle plus its accompanying proof.
type Input struct {
	Field  models.Field
	Handle fhe.Handle
	Proof  fhe.Proof
}

// Validator verifies input proofs against the substrate and tracks which
// record each handle was admitted for, rejecting cross-record reuse.
// Proofs are consulted only during admission and never retained.
type Validator struct {
	proofs  fhe.ProofValidator
	context string

	mu       sync.Mutex
	admitted map[fhe.Handle]id.RecordID
}

// New creates a validator bound to the deployment context the proofs were
// produced for.
func New(proofs fhe.ProofValidator, context string) *Validator {
	return &Validator{
		proofs:   proofs,
		context:  context,
		admitted: make(map[fhe.Handle]id.RecordID),
	}
}

// Admit verifies every input proof against (caller, context, field) and
// registers the handles against the record. All proofs are verified before
// any handle is registered, so a failing input leaves no admission behind.
func (v *Validator) Admit(recordID id.RecordID, caller id.PartyID, inputs ...Input) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, in := range inputs {
		if in.Handle == "" {
			return dErrors.New(dErrors.CodeAttestation, "empty ciphertext handle")
		}
		if owner, ok := v.admitted[in.Handle]; ok && owner != recordID {
			return dErrors.New(dErrors.CodeAttestation, "handle already admitted for another record")
		}
		binding := fhe.Binding{Caller: caller, Context: v.context, Field: string(in.Field)}
		if err := v.proofs.VerifyInput(in.Handle, in.Proof, binding); err != nil {
			return dErrors.Wrap(err, dErrors.CodeAttestation, "input proof verification failed")
		}
	}

	for _, in := range inputs {
		v.admitted[in.Handle] = recordID
	}
	return nil
}

// Release withdraws handles admitted for a record, undoing an admission
// whose surrounding operation failed to persist. Handles owned by another
// record are left untouched.
func (v *Validator) Release(recordID id.RecordID, handles ...fhe.Handle) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, h := range handles {
		if owner, ok := v.admitted[h]; ok && owner == recordID {
			delete(v.admitted, h)
		}
	}
}

// Restore registers handles from already persisted records without proof
// checks, rebuilding the cross-record reuse guard after a restart. The
// proofs were verified when the records were minted.
func (v *Validator) Restore(recordID id.RecordID, handles ...fhe.Handle) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, h := range handles {
		if h != "" {
			v.admitted[h] = recordID
		}
	}
}
