package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threePlayers() []*Player {
	return []*Player{
		{ID: "p1", Name: "Alice"},
		{ID: "p2", Name: "Bob"},
		{ID: "p3", Name: "Carol"},
	}
}

func TestScoreboard_Submit(t *testing.T) {
	s := NewScoreboard()

	totals, err := s.Submit("p1", "p2", 8)
	require.NoError(t, err)
	assert.Equal(t, Totals{TotalScore: 8, TotalVotes: 1, AverageScore: 8.00}, totals)

	totals, err = s.Submit("p3", "p2", 5)
	require.NoError(t, err)
	assert.Equal(t, Totals{TotalScore: 13, TotalVotes: 2, AverageScore: 6.5}, totals)
}

func TestScoreboard_SelfScoreRejected(t *testing.T) {
	s := NewScoreboard()

	_, err := s.Submit("p1", "p1", 5)
	assert.ErrorIs(t, err, ErrSelfScore)
	assert.Equal(t, Totals{}, s.Totals("p1"))
}

func TestScoreboard_OutOfRangeRejected(t *testing.T) {
	s := NewScoreboard()

	_, err := s.Submit("p1", "p2", 0)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = s.Submit("p1", "p2", 11)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	assert.Equal(t, Totals{}, s.Totals("p2"))
}

func TestScoreboard_DuplicateLeavesTotalsUntouched(t *testing.T) {
	s := NewScoreboard()

	_, err := s.Submit("p1", "p2", 8)
	require.NoError(t, err)

	_, err = s.Submit("p1", "p2", 3)
	assert.ErrorIs(t, err, ErrDuplicateScore)

	assert.Equal(t, Totals{TotalScore: 8, TotalVotes: 1, AverageScore: 8.00}, s.Totals("p2"))
}

func TestScoreboard_ValidationOrder(t *testing.T) {
	s := NewScoreboard()

	// Self beats range.
	_, err := s.Submit("p1", "p1", 99)
	assert.ErrorIs(t, err, ErrSelfScore)

	// Range beats duplicate.
	_, err = s.Submit("p1", "p2", 8)
	require.NoError(t, err)
	_, err = s.Submit("p1", "p2", 99)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)
}

func TestScoreboard_AverageRounding(t *testing.T) {
	s := NewScoreboard()

	_, err := s.Submit("p1", "p3", 3)
	require.NoError(t, err)
	totals, err := s.Submit("p2", "p3", 4)
	require.NoError(t, err)

	assert.Equal(t, 3.5, totals.AverageScore)

	s2 := NewScoreboard()
	s2.Submit("a", "t", 1)
	s2.Submit("b", "t", 1)
	s2.Submit("c", "t", 2)
	assert.Equal(t, 1.33, s2.Totals("t").AverageScore)
}

func TestScoreboard_Complete(t *testing.T) {
	players := threePlayers()
	subs := NewSubmissionStore()
	s := NewScoreboard()

	// Nobody has submitted yet.
	assert.False(t, s.Complete(players, subs))

	now := time.Now()
	subs.Submit("p1", "img1", now)
	subs.Submit("p2", "img2", now)
	// p3 never submits; nobody owes p3 a score.

	s.Submit("p2", "p1", 7)
	s.Submit("p3", "p1", 6)
	s.Submit("p1", "p2", 9)
	assert.False(t, s.Complete(players, subs))

	s.Submit("p3", "p2", 4)
	assert.True(t, s.Complete(players, subs))
}

func TestScoreboard_SignaledLatchesOnce(t *testing.T) {
	s := NewScoreboard()

	assert.True(t, s.MarkSignaled())
	assert.False(t, s.MarkSignaled())
	assert.True(t, s.Signaled())

	s.Reset()
	assert.False(t, s.Signaled())
	assert.True(t, s.MarkSignaled())
}

func TestScoreboard_ScoredBy(t *testing.T) {
	s := NewScoreboard()
	s.Submit("p1", "p3", 5)
	s.Submit("p1", "p2", 6)
	s.Submit("p2", "p1", 7)

	assert.Equal(t, []string{"p2", "p3"}, s.ScoredBy("p1"))
	assert.Empty(t, s.ScoredBy("p3"))
}

func TestRank_Ordering(t *testing.T) {
	players := threePlayers()
	now := time.Now()

	subs := NewSubmissionStore()
	subs.Submit("p1", "img1", now)
	subs.Submit("p2", "img2", now)

	s := NewScoreboard()
	s.Submit("p2", "p1", 6)
	s.Submit("p3", "p1", 6)
	s.Submit("p1", "p2", 9)
	s.Submit("p3", "p2", 9)

	results := Rank(players, subs, s)
	require.Len(t, results, 3)

	assert.Equal(t, "p2", results[0].Player.ID)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "p1", results[1].Player.ID)
	assert.Equal(t, 2, results[1].Rank)
	// Non-submitter sinks to the bottom.
	assert.Equal(t, "p3", results[2].Player.ID)
	assert.False(t, results[2].HasSubmitted)
}

func TestRank_TiesKeepJoinOrderAndAreStable(t *testing.T) {
	players := threePlayers()
	now := time.Now()

	subs := NewSubmissionStore()
	for _, p := range players {
		subs.Submit(p.ID, "img-"+p.ID, now)
	}

	s := NewScoreboard()
	s.Submit("p2", "p1", 5)
	s.Submit("p1", "p2", 5)
	s.Submit("p1", "p3", 5)

	first := Rank(players, subs, s)
	second := Rank(players, subs, s)

	for i := range first {
		assert.Equal(t, first[i].Player.ID, second[i].Player.ID)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
	// Equal averages and vote counts: join order decides.
	assert.Equal(t, "p1", first[0].Player.ID)
	assert.Equal(t, "p2", first[1].Player.ID)
	assert.Equal(t, "p3", first[2].Player.ID)
}

func TestRank_VoteCountBreaksAverageTie(t *testing.T) {
	players := []*Player{
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"},
	}
	now := time.Now()

	subs := NewSubmissionStore()
	subs.Submit("p1", "a", now)
	subs.Submit("p2", "b", now)

	s := NewScoreboard()
	s.Submit("p2", "p1", 6)
	s.Submit("p3", "p2", 6)
	s.Submit("p4", "p2", 6)

	results := Rank(players, subs, s)
	assert.Equal(t, "p2", results[0].Player.ID)
	assert.Equal(t, "p1", results[1].Player.ID)
}
