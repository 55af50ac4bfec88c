package oracle

// Package oracle hosts the stable wire contract between the registry and the
// external decryption oracle. Keep it versioned independently from internal
// registry schemas so out-of-process oracles can pin or roll forward.

// ContractVersion identifies the contract schema version for compatibility checks.
// Bump on breaking changes to the shapes below; consumers can pin or roll forward.
const ContractVersion = "v0.1.0"

// PendingReveal is what the oracle sees when it polls for work: the request
// it must answer and the ciphertext handle to decrypt. No plaintext, no
// party identities beyond what the oracle needs.
type PendingReveal struct {
	RecordID uint64 `json:"record_id"`
	Field    string `json:"field"`
	Seq      uint64 `json:"seq"`
	Handle   string `json:"handle"`
}

// ResolutionRequest is the oracle's callback payload. The sequence number
// must match the pending request it answers; the attestation is the oracle's
// proof of correct decryption.
type ResolutionRequest struct {
	RecordID    uint64 `json:"record_id"`
	Field       string `json:"field"`
	Seq         uint64 `json:"seq"`
	Plaintext   string `json:"plaintext"`
	Attestation string `json:"attestation"`
}
