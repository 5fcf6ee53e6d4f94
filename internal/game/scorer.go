package game

import (
	"context"

	"github.com/sketchaa/sketchaa/internal/domain"
)

// Scorer turns a finished round into a ranked standing. The default
// ranks by average score; alternative strategies (median, trimmed
// mean) plug in here without touching the coordinator.
type Scorer interface {
	Rank(players []*domain.Player, subs *domain.SubmissionStore, scores *domain.Scoreboard) []domain.RoundResult
}

type averageScorer struct{}

func (averageScorer) Rank(players []*domain.Player, subs *domain.SubmissionStore, scores *domain.Scoreboard) []domain.RoundResult {
	return domain.Rank(players, subs, scores)
}

// NewAverageScorer returns the standard ranking strategy.
func NewAverageScorer() Scorer {
	return averageScorer{}
}

// AuditSink receives room lifecycle events for out-of-process
// consumers. Implementations must not block the caller.
type AuditSink interface {
	Publish(ctx context.Context, log *domain.RoomAuditLog)
}

type nopAuditSink struct{}

func (nopAuditSink) Publish(context.Context, *domain.RoomAuditLog) {}

// NopAuditSink discards every event; used when messaging is disabled.
func NopAuditSink() AuditSink {
	return nopAuditSink{}
}
