package service

//go:generate mockgen -source=../store/store.go -destination=mocks/store_mocks.go -package=mocks RecordStore,RevealStore
//go:generate mockgen -source=../../fhe/fhe.go -destination=mocks/fhe_mocks.go -package=mocks Substrate,Decryptor

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"veritas/internal/audit"
	"veritas/internal/fhe"
	"veritas/internal/fhe/sim"
	"veritas/internal/transcript/attest"
	"veritas/internal/transcript/models"
	"veritas/internal/transcript/store"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/requestcontext"
)

const (
	testSubstrateKey = "test-substrate-key"
	testContext      = "veritas-test"

	testCID   = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
	testScore = uint64(352)
)

type ServiceSuite struct {
	suite.Suite
	ctx context.Context

	substrate  *sim.Substrate
	records    *store.InMemoryRecordStore
	reveals    *store.InMemoryRevealStore
	auditStore *audit.InMemoryStore
	svc        *Service

	issuer    id.PartyID
	holder    id.PartyID
	authority id.PartyID
	oracle    id.PartyID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.substrate = sim.New(testSubstrateKey)
	s.records = store.NewMemoryRecords()
	s.reveals = store.NewMemoryReveals()
	s.auditStore = audit.NewInMemoryStore()

	s.issuer = id.PartyID(uuid.New())
	s.holder = id.PartyID(uuid.New())
	s.authority = id.PartyID(uuid.New())
	s.oracle = id.PartyID(uuid.New())

	s.svc = New(
		s.records,
		s.reveals,
		s.substrate,
		attest.New(s.substrate, testContext),
		s.oracle,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(audit.NewPublisher(s.auditStore)),
	)
}

// encryptField plays the caller-side role: encrypt a plaintext and obtain the
// input proof bound to (caller, context, field).
func (s *ServiceSuite) encryptField(caller id.PartyID, field models.Field, plaintext string) FieldInput {
	s.T().Helper()
	h, proof, err := s.substrate.Encrypt(plaintext, fhe.Binding{
		Caller:  caller,
		Context: testContext,
		Field:   string(field),
	})
	s.Require().NoError(err)
	return FieldInput{Handle: h, Proof: proof}
}

func (s *ServiceSuite) mintInput(recordID id.RecordID) MintInput {
	return MintInput{
		RecordID: recordID,
		Holder:   s.holder,
		CID:      s.encryptField(s.issuer, models.FieldCID, testCID),
		Score:    s.encryptField(s.issuer, models.FieldScore, strconv.FormatUint(testScore, 10)),
	}
}

func (s *ServiceSuite) mint(recordID id.RecordID) *models.Record {
	s.T().Helper()
	record, err := s.svc.Mint(s.ctx, s.issuer, s.mintInput(recordID))
	s.Require().NoError(err)
	return record
}

// decrypt reads a result handle through the oracle-side capability. Tests
// only; the registry itself never decrypts.
func (s *ServiceSuite) decrypt(h fhe.Handle) string {
	s.T().Helper()
	v, err := s.substrate.Decrypt(s.ctx, h)
	s.Require().NoError(err)
	return v
}

func (s *ServiceSuite) resolvePending(recordID id.RecordID) *models.RevealRequest {
	s.T().Helper()
	pending, err := s.reveals.FindPending(s.ctx, recordID, models.FieldCID)
	s.Require().NoError(err)

	record, err := s.records.FindByID(s.ctx, recordID)
	s.Require().NoError(err)
	plaintext := s.decrypt(record.CIDHandle)

	resolved, err := s.svc.ResolveReveal(s.ctx, s.oracle, Resolution{
		RecordID:    recordID,
		Field:       models.FieldCID,
		Seq:         pending.Seq,
		Plaintext:   plaintext,
		Attestation: s.substrate.AttestResolution(record.CIDHandle, plaintext),
	})
	s.Require().NoError(err)
	return resolved
}

func (s *ServiceSuite) TestMint() {
	record := s.mint(1)

	s.Equal(id.RecordID(1), record.ID)
	s.Equal(s.issuer, record.Issuer)
	s.Equal(s.holder, record.Holder)
	s.Equal(models.StatusActive, record.Status)
	s.NotEmpty(record.CIDHandle)
	s.NotEqual(testCID, string(record.CIDHandle))
	s.NotEqual("352", string(record.ScoreHandle))
}

func (s *ServiceSuite) TestMint_DuplicateIDLeavesOriginalUnchanged() {
	s.mint(1)

	in := s.mintInput(1)
	in.Holder = id.PartyID(uuid.New())
	_, err := s.svc.Mint(s.ctx, s.issuer, in)
	s.True(dErrors.HasCode(err, dErrors.CodeLifecycle))

	record, err := s.svc.GetRecord(s.ctx, s.holder, 1)
	s.Require().NoError(err)
	s.Equal(s.holder, record.Holder)
}

func (s *ServiceSuite) TestMint_RejectedProof() {
	in := s.mintInput(1)
	in.Score.Proof = "tampered"

	_, err := s.svc.Mint(s.ctx, s.issuer, in)
	s.True(dErrors.HasCode(err, dErrors.CodeAttestation))

	_, err = s.svc.GetRecord(s.ctx, s.issuer, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestMint_ProofBoundToIssuer() {
	in := MintInput{
		RecordID: 1,
		Holder:   s.holder,
		CID:      s.encryptField(s.authority, models.FieldCID, testCID),
		Score:    s.encryptField(s.issuer, models.FieldScore, "352"),
	}
	_, err := s.svc.Mint(s.ctx, s.issuer, in)
	s.True(dErrors.HasCode(err, dErrors.CodeAttestation))
}

func (s *ServiceSuite) TestMint_HandleReuseAcrossRecords() {
	in := s.mintInput(1)
	s.Require().NoError(s.svc.attestor.Admit(99, s.issuer,
		attest.Input{Field: models.FieldCID, Handle: in.CID.Handle, Proof: in.CID.Proof}))

	_, err := s.svc.Mint(s.ctx, s.issuer, in)
	s.True(dErrors.HasCode(err, dErrors.CodeAttestation))
}

func (s *ServiceSuite) TestGetEncryptedField_Access() {
	record := s.mint(1)

	for _, caller := range []id.PartyID{s.issuer, s.holder} {
		h, err := s.svc.GetEncryptedField(s.ctx, caller, 1, models.FieldScore)
		s.Require().NoError(err)
		s.Equal(record.ScoreHandle, h)
	}

	_, err := s.svc.GetEncryptedField(s.ctx, s.authority, 1, models.FieldScore)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.svc.GetEncryptedField(s.ctx, s.holder, 404, models.FieldScore)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestGetEncryptedField_RefusedAfterRevoke() {
	s.mint(1)
	_, err := s.svc.Revoke(s.ctx, s.issuer, 1)
	s.Require().NoError(err)

	_, err = s.svc.GetEncryptedField(s.ctx, s.holder, 1, models.FieldCID)
	s.True(dErrors.HasCode(err, dErrors.CodeLifecycle))
}

func (s *ServiceSuite) TestGetRecord_MetadataAccess() {
	s.mint(1)

	record, err := s.svc.GetRecord(s.ctx, s.issuer, 1)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, record.Status)

	_, err = s.svc.GetRecord(s.ctx, s.authority, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestCompare_ThresholdAgainstPlaintext() {
	s.mint(1)

	cutoff := uint64(350)
	result, err := s.svc.Compare(s.ctx, s.authority, CompareInput{
		RecordID:  1,
		Field:     models.FieldScore,
		Operator:  fhe.OpGE,
		Plaintext: &cutoff,
	})
	s.Require().NoError(err)

	// The result is an opaque ciphertext handle, never a plaintext outcome.
	s.NotEmpty(result)
	s.NotEqual("true", string(result))
	s.NotEqual("3.52", string(result))
	s.NotEqual("352", string(result))
	s.Equal("1", s.decrypt(result))

	cutoff = 360
	result, err = s.svc.Compare(s.ctx, s.authority, CompareInput{
		RecordID:  1,
		Field:     models.FieldScore,
		Operator:  fhe.OpGE,
		Plaintext: &cutoff,
	})
	s.Require().NoError(err)
	s.Equal("0", s.decrypt(result))
}

func (s *ServiceSuite) TestCompare_EncryptedOperand() {
	s.mint(1)

	// The authority supplies its own encrypted cutoff; it never learns the
	// score, the registry never learns the cutoff.
	cutoffHandle, _, err := s.substrate.EncryptUint(350, fhe.Binding{
		Caller:  s.authority,
		Context: testContext,
		Field:   string(models.FieldScore),
	})
	s.Require().NoError(err)

	result, err := s.svc.Compare(s.ctx, s.authority, CompareInput{
		RecordID:      1,
		Field:         models.FieldScore,
		Operator:      fhe.OpGE,
		OperandHandle: &cutoffHandle,
	})
	s.Require().NoError(err)
	s.Equal("1", s.decrypt(result))
}

func (s *ServiceSuite) TestCompare_OperandValidation() {
	s.mint(1)
	cutoff := uint64(350)
	h := fhe.Handle("0xoperand")

	_, err := s.svc.Compare(s.ctx, s.authority, CompareInput{RecordID: 1, Field: models.FieldScore, Operator: fhe.OpGE})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.svc.Compare(s.ctx, s.authority, CompareInput{
		RecordID: 1, Field: models.FieldScore, Operator: fhe.OpGE,
		Plaintext: &cutoff, OperandHandle: &h,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.svc.Compare(s.ctx, s.authority, CompareInput{
		RecordID: 1, Field: models.FieldScore, Operator: fhe.OpGE,
		OperandHandle: &h,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCompare_RefusedAfterRevoke() {
	s.mint(1)
	_, err := s.svc.Revoke(s.ctx, s.issuer, 1)
	s.Require().NoError(err)

	cutoff := uint64(350)
	_, err = s.svc.Compare(s.ctx, s.authority, CompareInput{
		RecordID: 1, Field: models.FieldScore, Operator: fhe.OpGE, Plaintext: &cutoff,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeLifecycle))
}

func (s *ServiceSuite) TestRequestReveal() {
	s.mint(1)

	req, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.Equal(models.RevealPending, req.Status)
	s.NotZero(req.Seq)
	s.Equal(s.holder, req.Requester)
}

func (s *ServiceSuite) TestRequestReveal_HolderOnly() {
	s.mint(1)

	for _, caller := range []id.PartyID{s.issuer, s.authority, s.oracle} {
		_, err := s.svc.RequestReveal(s.ctx, caller, 1, models.FieldCID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	}
}

func (s *ServiceSuite) TestRequestReveal_ScoreNotRevealable() {
	s.mint(1)
	_, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldScore)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestRequestReveal_SecondWhilePending() {
	s.mint(1)
	_, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)

	_, err = s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.True(dErrors.HasCode(err, dErrors.CodeProtocol))
}

func (s *ServiceSuite) TestRequestReveal_RefusedAfterRevoke() {
	s.mint(1)
	_, err := s.svc.Revoke(s.ctx, s.issuer, 1)
	s.Require().NoError(err)

	_, err = s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.True(dErrors.HasCode(err, dErrors.CodeLifecycle))
}

func (s *ServiceSuite) TestListPendingReveals() {
	s.mint(1)
	s.mint(2)

	queue, err := s.svc.ListPendingReveals(s.ctx, s.oracle)
	s.Require().NoError(err)
	s.Empty(queue)

	_, err = s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	_, err = s.svc.RequestReveal(s.ctx, s.holder, 2, models.FieldCID)
	s.Require().NoError(err)

	queue, err = s.svc.ListPendingReveals(s.ctx, s.oracle)
	s.Require().NoError(err)
	s.Require().Len(queue, 2)
	s.Equal(id.RecordID(1), queue[0].Request.RecordID)
	s.NotEmpty(queue[0].Handle)

	s.resolvePending(1)
	queue, err = s.svc.ListPendingReveals(s.ctx, s.oracle)
	s.Require().NoError(err)
	s.Require().Len(queue, 1)
	s.Equal(id.RecordID(2), queue[0].Request.RecordID)
}

func (s *ServiceSuite) TestListPendingReveals_OracleOnly() {
	for _, caller := range []id.PartyID{s.issuer, s.holder, s.authority} {
		_, err := s.svc.ListPendingReveals(s.ctx, caller)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	}
}

func (s *ServiceSuite) TestResolveReveal_OracleOnly() {
	s.mint(1)
	req, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)

	res := Resolution{RecordID: 1, Field: models.FieldCID, Seq: req.Seq, Plaintext: testCID}
	for _, caller := range []id.PartyID{s.issuer, s.holder, s.authority} {
		_, err := s.svc.ResolveReveal(s.ctx, caller, res)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	}
}

func (s *ServiceSuite) TestResolveReveal_StaleSequenceLeavesPending() {
	s.mint(1)
	req, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)

	record, err := s.records.FindByID(s.ctx, 1)
	s.Require().NoError(err)

	_, err = s.svc.ResolveReveal(s.ctx, s.oracle, Resolution{
		RecordID:    1,
		Field:       models.FieldCID,
		Seq:         req.Seq + 1,
		Plaintext:   testCID,
		Attestation: s.substrate.AttestResolution(record.CIDHandle, testCID),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeProtocol))

	pending, err := s.reveals.FindPending(s.ctx, 1, models.FieldCID)
	s.Require().NoError(err)
	s.Equal(req.Seq, pending.Seq)
	s.Equal(models.RevealPending, pending.Status)
}

func (s *ServiceSuite) TestResolveReveal_NoPending() {
	s.mint(1)
	_, err := s.svc.ResolveReveal(s.ctx, s.oracle, Resolution{
		RecordID: 1, Field: models.FieldCID, Seq: 1, Plaintext: testCID,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeProtocol))
}

func (s *ServiceSuite) TestResolveReveal_BadAttestation() {
	s.mint(1)
	req, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)

	_, err = s.svc.ResolveReveal(s.ctx, s.oracle, Resolution{
		RecordID:    1,
		Field:       models.FieldCID,
		Seq:         req.Seq,
		Plaintext:   "not-the-real-pointer",
		Attestation: "forged",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeAttestation))

	_, err = s.svc.ReadResolved(s.ctx, s.holder, 1, models.FieldCID)
	s.True(dErrors.HasCode(err, dErrors.CodeProtocol))
}

func (s *ServiceSuite) TestResolveReveal_PendingAtRevocationStaysSealed() {
	s.mint(1)
	req, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)

	record, err := s.records.FindByID(s.ctx, 1)
	s.Require().NoError(err)
	plaintext := s.decrypt(record.CIDHandle)

	_, err = s.svc.Revoke(s.ctx, s.issuer, 1)
	s.Require().NoError(err)

	// The revoked record's request disappears from the oracle work queue.
	queue, err := s.svc.ListPendingReveals(s.ctx, s.oracle)
	s.Require().NoError(err)
	s.Empty(queue)

	// Even a correctly attested resolution is refused after revocation.
	_, err = s.svc.ResolveReveal(s.ctx, s.oracle, Resolution{
		RecordID:    1,
		Field:       models.FieldCID,
		Seq:         req.Seq,
		Plaintext:   plaintext,
		Attestation: s.substrate.AttestResolution(record.CIDHandle, plaintext),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeLifecycle))

	// The plaintext never became readable.
	_, err = s.svc.ReadResolved(s.ctx, s.holder, 1, models.FieldCID)
	s.True(dErrors.HasCode(err, dErrors.CodeProtocol))
}

func (s *ServiceSuite) TestRevealRoundTrip() {
	s.mint(1)
	_, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)

	resolved := s.resolvePending(1)
	s.Equal(models.RevealResolved, resolved.Status)

	value, err := s.svc.ReadResolved(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.Equal(testCID, value)

	// Only the holder may read the disclosed value.
	_, err = s.svc.ReadResolved(s.ctx, s.issuer, 1, models.FieldCID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestRevealRoundTrip_ReRequestAfterResolved() {
	s.mint(1)
	first, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.resolvePending(1)

	second, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.Greater(second.Seq, first.Seq)
}

func (s *ServiceSuite) TestReadResolved_BeforeResolution() {
	s.mint(1)
	_, err := s.svc.ReadResolved(s.ctx, s.holder, 1, models.FieldCID)
	s.True(dErrors.HasCode(err, dErrors.CodeProtocol))
}

func (s *ServiceSuite) TestRevoke() {
	s.mint(1)

	record, err := s.svc.Revoke(s.ctx, s.issuer, 1)
	s.Require().NoError(err)
	s.Equal(models.StatusRevoked, record.Status)
	s.NotNil(record.RevokedAt)

	_, err = s.svc.Revoke(s.ctx, s.issuer, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeLifecycle))
}

func (s *ServiceSuite) TestRevoke_IssuerOnly() {
	s.mint(1)
	for _, caller := range []id.PartyID{s.holder, s.authority, s.oracle} {
		_, err := s.svc.Revoke(s.ctx, caller, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	}
}

func (s *ServiceSuite) TestRevoke_ResolvedRevealSurvives() {
	s.mint(1)
	_, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.resolvePending(1)

	_, err = s.svc.Revoke(s.ctx, s.issuer, 1)
	s.Require().NoError(err)

	value, err := s.svc.ReadResolved(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.Equal(testCID, value)
}

func (s *ServiceSuite) TestAuditTrail() {
	ctx := requestcontext.WithDevice(s.ctx, "Firefox on Linux")

	record, err := s.svc.Mint(ctx, s.issuer, s.mintInput(1))
	s.Require().NoError(err)
	_, err = s.svc.RequestReveal(ctx, s.holder, record.ID, models.FieldCID)
	s.Require().NoError(err)
	_, err = s.svc.GetEncryptedField(ctx, s.authority, record.ID, models.FieldScore)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	events := s.auditStore.All()
	s.Require().Len(events, 3)
	s.Equal(string(audit.EventRecordMinted), events[0].Action)
	s.Equal(string(audit.EventRevealRequested), events[1].Action)
	s.Equal("Firefox on Linux", events[1].Device)
	s.Equal(string(audit.EventAccessDenied), events[2].Action)
	s.Equal(s.authority.String(), events[2].Party)
}

// TestEndToEnd walks the full scholarship scenario: mint, encrypted
// threshold check by a third-party authority, holder reveal of the document
// pointer, revocation, and post-revocation behavior.
func (s *ServiceSuite) TestEndToEnd() {
	s.mint(1)

	cutoff := uint64(350)
	result, err := s.svc.Compare(s.ctx, s.authority, CompareInput{
		RecordID: 1, Field: models.FieldScore, Operator: fhe.OpGE, Plaintext: &cutoff,
	})
	s.Require().NoError(err)
	s.NotEmpty(result)
	s.NotEqual("3.52", string(result))
	s.NotEqual("true", string(result))

	req, err := s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.Equal(models.RevealPending, req.Status)

	s.resolvePending(1)

	value, err := s.svc.ReadResolved(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.Equal(testCID, value)

	_, err = s.svc.Revoke(s.ctx, s.issuer, 1)
	s.Require().NoError(err)

	_, err = s.svc.RequestReveal(s.ctx, s.holder, 1, models.FieldCID)
	s.True(dErrors.HasCode(err, dErrors.CodeLifecycle))

	value, err = s.svc.ReadResolved(s.ctx, s.holder, 1, models.FieldCID)
	s.Require().NoError(err)
	s.Equal(testCID, value)
}
