package handler

import (
	"time"

	"veritas/internal/transcript/models"
)

type fieldInputDTO struct {
	Handle string `json:"handle"`
	Proof  string `json:"proof"`
}

type mintRequest struct {
	RecordID uint64        `json:"record_id"`
	Holder   string        `json:"holder"`
	CID      fieldInputDTO `json:"cid"`
	Score    fieldInputDTO `json:"score"`
}

type compareRequest struct {
	Field         string  `json:"field"`
	Operator      string  `json:"operator"`
	Plaintext     *uint64 `json:"plaintext,omitempty"`
	OperandHandle string  `json:"operand_handle,omitempty"`
}

type revealRequest struct {
	Field string `json:"field"`
}

type recordResponse struct {
	ID          uint64     `json:"id"`
	Issuer      string     `json:"issuer"`
	Holder      string     `json:"holder"`
	Status      string     `json:"status"`
	CIDRevealed bool       `json:"cid_revealed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

func newRecordResponse(record *models.Record) recordResponse {
	return recordResponse{
		ID:          uint64(record.ID),
		Issuer:      record.Issuer.String(),
		Holder:      record.Holder.String(),
		Status:      string(record.Status),
		CIDRevealed: record.RevealedCID != nil,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		RevokedAt:   record.RevokedAt,
	}
}

type fieldResponse struct {
	RecordID uint64 `json:"record_id"`
	Field    string `json:"field"`
	Handle   string `json:"handle"`
}

type compareResponse struct {
	RecordID     uint64 `json:"record_id"`
	Field        string `json:"field"`
	Operator     string `json:"operator"`
	ResultHandle string `json:"result_handle"`
}

type revealResponse struct {
	RecordID uint64 `json:"record_id"`
	Field    string `json:"field"`
	Seq      uint64 `json:"seq"`
	Status   string `json:"status"`
}

type resolvedResponse struct {
	RecordID uint64 `json:"record_id"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}
