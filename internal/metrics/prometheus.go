// Package metrics provides Prometheus exporters for engine metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the reputation and lifecycle engine.
var (
	// Counters.
	VotesCastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_cast_total",
			Help: "Total number of vote casts by type and outcome",
		},
		[]string{"vote_type", "outcome"},
	)

	VoteFlipsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vote_flips_total",
			Help: "Total number of votes flipped from one type to the other",
		},
	)

	VerificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "location_verifications_total",
			Help: "Total number of locations transitioned to verified",
		},
	)

	BadgesAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Total number of badges awarded",
		},
		[]string{"badge"},
	)

	PointsAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Total points granted to users",
		},
		[]string{"reason"},
	)

	SweeperTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweeper_ticks_total",
			Help: "Total expiration sweeper tick executions",
		},
		[]string{"status"},
	)

	LocationsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "locations_expired_total",
			Help: "Total locations deleted by the expiration sweeper",
		},
	)

	// Histograms.
	SweeperTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sweeper_tick_duration_seconds",
			Help:    "Duration of expiration sweeper ticks",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
	)

	CastVoteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cast_vote_duration_seconds",
			Help:    "Duration of vote cast operations",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)
)

// RecordVoteCast records a vote cast attempt with its outcome.
func RecordVoteCast(voteType, outcome string) {
	VotesCastTotal.WithLabelValues(voteType, outcome).Inc()
}

// RecordVoteFlip records a vote flipping from one type to the other.
func RecordVoteFlip() {
	VoteFlipsTotal.Inc()
}

// RecordVerification records a verification transition.
func RecordVerification() {
	VerificationsTotal.Inc()
}

// RecordBadgeAwarded records a badge being awarded.
func RecordBadgeAwarded(badgeID string) {
	BadgesAwardedTotal.WithLabelValues(badgeID).Inc()
}

// RecordPointsAwarded records points granted for a reason.
func RecordPointsAwarded(reason string, amount int) {
	PointsAwardedTotal.WithLabelValues(reason).Add(float64(amount))
}

// RecordSweeperTick records a completed sweeper tick.
func RecordSweeperTick(status string, deleted int64, duration time.Duration) {
	SweeperTicksTotal.WithLabelValues(status).Inc()
	SweeperTickDuration.Observe(duration.Seconds())
	if deleted > 0 {
		LocationsExpiredTotal.Add(float64(deleted))
	}
}

// ObserveCastVote records the duration of a vote cast operation.
func ObserveCastVote(duration time.Duration) {
	CastVoteDuration.Observe(duration.Seconds())
}
