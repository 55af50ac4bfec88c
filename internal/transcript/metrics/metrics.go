package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RecordsMinted    prometheus.Counter
	RecordsRevoked   prometheus.Counter
	Comparisons      prometheus.Counter
	RevealsRequested prometheus.Counter
	RevealsResolved  prometheus.Counter
	RevealLatency    prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		RecordsMinted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_records_minted_total",
			Help: "Total number of transcript records minted",
		}),
		RecordsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_records_revoked_total",
			Help: "Total number of transcript records revoked",
		}),
		Comparisons: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_comparisons_total",
			Help: "Total number of encrypted comparisons evaluated",
		}),
		RevealsRequested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_reveals_requested_total",
			Help: "Total number of reveal requests issued",
		}),
		RevealsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_reveals_resolved_total",
			Help: "Total number of reveal requests resolved by the oracle",
		}),
		RevealLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veritas_reveal_roundtrip_seconds",
			Help:    "Time from reveal request to oracle resolution",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
		}),
	}
}

func (m *Metrics) IncrementMinted()           { m.RecordsMinted.Inc() }
func (m *Metrics) IncrementRevoked()          { m.RecordsRevoked.Inc() }
func (m *Metrics) IncrementComparisons()      { m.Comparisons.Inc() }
func (m *Metrics) IncrementRevealsRequested() { m.RevealsRequested.Inc() }

func (m *Metrics) ObserveRevealResolved(requestedAt time.Time) {
	m.RevealsResolved.Inc()
	m.RevealLatency.Observe(time.Since(requestedAt).Seconds())
}
