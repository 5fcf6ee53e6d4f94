package domain

import (
	"math"
	"sort"
)

const (
	MinScore = 1
	MaxScore = 10
)

type scorePair struct {
	Scorer string
	Target string
}

// Totals are the aggregates for one target player.
type Totals struct {
	TotalScore   int
	TotalVotes   int
	AverageScore float64
}

// Scoreboard collects peer ratings for submitted drawings. Per target
// it keeps the received values in arrival order; a separate set of
// (scorer, target) pairs enforces at-most-once per ordered pair.
type Scoreboard struct {
	received map[string][]int
	pairs    map[scorePair]struct{}
	signaled bool
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		received: make(map[string][]int),
		pairs:    make(map[scorePair]struct{}),
	}
}

// Submit validates and records one rating. Validation order matters:
// self-scoring, then range, then duplicate — each with its own error.
// A rejected submission leaves the aggregates untouched.
func (s *Scoreboard) Submit(scorerID, targetID string, value int) (Totals, error) {
	if scorerID == targetID {
		return Totals{}, ErrSelfScore
	}
	if value < MinScore || value > MaxScore {
		return Totals{}, ErrScoreOutOfRange
	}

	pair := scorePair{Scorer: scorerID, Target: targetID}
	if _, dup := s.pairs[pair]; dup {
		return Totals{}, ErrDuplicateScore
	}

	s.received[targetID] = append(s.received[targetID], value)
	s.pairs[pair] = struct{}{}

	return s.Totals(targetID), nil
}

func (s *Scoreboard) Totals(targetID string) Totals {
	values := s.received[targetID]
	if len(values) == 0 {
		return Totals{}
	}

	sum := 0
	for _, v := range values {
		sum += v
	}

	return Totals{
		TotalScore:   sum,
		TotalVotes:   len(values),
		AverageScore: math.Round(float64(sum)/float64(len(values))*100) / 100,
	}
}

func (s *Scoreboard) Values(targetID string) []int {
	values := s.received[targetID]
	out := make([]int, len(values))
	copy(out, values)
	return out
}

func (s *Scoreboard) HasScored(scorerID, targetID string) bool {
	_, ok := s.pairs[scorePair{Scorer: scorerID, Target: targetID}]
	return ok
}

// ScoredBy returns the targets a scorer has already rated, for
// rebuilding a rejoining client's scoring history.
func (s *Scoreboard) ScoredBy(scorerID string) []string {
	var targets []string
	for pair := range s.pairs {
		if pair.Scorer == scorerID {
			targets = append(targets, pair.Target)
		}
	}
	sort.Strings(targets)
	return targets
}

// Complete reports whether every player has scored every other player
// with a recorded submission. Players without submissions still have
// to finish their own scoring duties.
func (s *Scoreboard) Complete(players []*Player, subs *SubmissionStore) bool {
	if subs.Len() == 0 {
		return false
	}

	for _, scorer := range players {
		for _, target := range players {
			if target.ID == scorer.ID || !subs.Has(target.ID) {
				continue
			}
			if !s.HasScored(scorer.ID, target.ID) {
				return false
			}
		}
	}
	return true
}

// MarkSignaled flips the once-per-round completion latch. It returns
// true only for the caller that actually flipped it.
func (s *Scoreboard) MarkSignaled() bool {
	if s.signaled {
		return false
	}
	s.signaled = true
	return true
}

func (s *Scoreboard) Signaled() bool {
	return s.signaled
}

func (s *Scoreboard) Reset() {
	s.received = make(map[string][]int)
	s.pairs = make(map[scorePair]struct{})
	s.signaled = false
}

// RoundResult is one row of the final ranking.
type RoundResult struct {
	Player       *Player
	Image        string
	HasSubmitted bool
	Totals       Totals
	Scores       []int
	Rank         int
}

// Rank produces the final standing: average descending, then vote
// count descending, then submitters above non-submitters. The sort is
// stable so remaining ties keep join order, and reapplying it to the
// same inputs yields the same output.
func Rank(players []*Player, subs *SubmissionStore, scores *Scoreboard) []RoundResult {
	results := make([]RoundResult, 0, len(players))
	for _, p := range players {
		sub, has := subs.Get(p.ID)
		results = append(results, RoundResult{
			Player:       p,
			Image:        sub.Image,
			HasSubmitted: has,
			Totals:       scores.Totals(p.ID),
			Scores:       scores.Values(p.ID),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Totals.AverageScore != b.Totals.AverageScore {
			return a.Totals.AverageScore > b.Totals.AverageScore
		}
		if a.Totals.TotalVotes != b.Totals.TotalVotes {
			return a.Totals.TotalVotes > b.Totals.TotalVotes
		}
		if a.HasSubmitted != b.HasSubmitted {
			return a.HasSubmitted
		}
		return false
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}
