// Package oracle is the embedded decryption oracle used in dev and demo
// deployments. It plays the external collaborator's role in-process: it polls
// the registry's pending reveal queue, decrypts each ciphertext through the
// substrate's oracle-side capability, and answers with an attested
// resolution. Production deployments run a real oracle out of process against
// the same contract, polling GET /oracle/pending and posting to
// POST /oracle/resolutions.
package oracle

import (
	"context"
	"log/slog"
	"time"

	"veritas/internal/fhe"
	"veritas/internal/transcript/models"
	"veritas/internal/transcript/service"
	id "veritas/pkg/domain"
)

// Registry is the slice of the registry service the oracle needs.
type Registry interface {
	ListPendingReveals(ctx context.Context, caller id.PartyID) ([]service.PendingReveal, error)
	ResolveReveal(ctx context.Context, caller id.PartyID, res service.Resolution) (*models.RevealRequest, error)
}

// Result summarizes one polling run.
type Result struct {
	Resolved int
	Failed   int
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// Worker resolves pending reveal requests through the decryptor capability.
type Worker struct {
	registry  Registry
	decryptor fhe.Decryptor
	party     id.PartyID

	logger   *slog.Logger
	interval time.Duration
}

// New constructs the worker. party must be the registry's configured oracle
// identity or every poll will be refused.
func New(registry Registry, decryptor fhe.Decryptor, party id.PartyID, opts ...Option) *Worker {
	w := &Worker{
		registry:  registry,
		decryptor: decryptor,
		party:     party,
		logger:    slog.Default(),
		interval:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start polls until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := w.RunOnce(ctx)
			if err != nil {
				w.logger.Error("oracle_poll_failed", "error", err)
				continue
			}
			if res.Resolved > 0 || res.Failed > 0 {
				w.logger.Info("oracle_poll_completed",
					"resolved", res.Resolved,
					"failed", res.Failed,
				)
			}

		case <-ctx.Done():
			w.logger.Info("oracle worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce resolves every currently pending request. A failure on one request
// does not stop the run; the request stays pending for the next poll.
func (w *Worker) RunOnce(ctx context.Context) (Result, error) {
	var res Result

	pending, err := w.registry.ListPendingReveals(ctx, w.party)
	if err != nil {
		return res, err
	}

	for _, p := range pending {
		if err := w.resolve(ctx, p); err != nil {
			res.Failed++
			w.logger.Warn("failed to resolve reveal request",
				"record_id", p.Request.RecordID,
				"field", p.Request.Field,
				"seq", p.Request.Seq,
				"error", err,
			)
			continue
		}
		res.Resolved++
	}
	return res, nil
}

func (w *Worker) resolve(ctx context.Context, p service.PendingReveal) error {
	plaintext, err := w.decryptor.Decrypt(ctx, p.Handle)
	if err != nil {
		return err
	}

	_, err = w.registry.ResolveReveal(ctx, w.party, service.Resolution{
		RecordID:    p.Request.RecordID,
		Field:       p.Request.Field,
		Seq:         p.Request.Seq,
		Plaintext:   plaintext,
		Attestation: w.decryptor.AttestResolution(p.Handle, plaintext),
	})
	return err
}
