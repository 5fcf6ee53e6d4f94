package domain

import "time"

// Submission is a player's drawing artifact for the current round.
type Submission struct {
	PlayerID    string
	Image       string
	SubmittedAt time.Time
}

// SubmissionStore keeps at most one submission per player per round.
// Submissions are accepted whenever received, independent of phase;
// scoring only reads whatever is present at read time.
type SubmissionStore struct {
	byPlayer map[string]Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		byPlayer: make(map[string]Submission),
	}
}

// Submit upserts, keyed by player id. A second submission for the same
// player overwrites the image and refreshes the timestamp.
func (s *SubmissionStore) Submit(playerID, image string, now time.Time) {
	s.byPlayer[playerID] = Submission{
		PlayerID:    playerID,
		Image:       image,
		SubmittedAt: now,
	}
}

func (s *SubmissionStore) Get(playerID string) (Submission, bool) {
	sub, ok := s.byPlayer[playerID]
	return sub, ok
}

func (s *SubmissionStore) Has(playerID string) bool {
	_, ok := s.byPlayer[playerID]
	return ok
}

func (s *SubmissionStore) Len() int {
	return len(s.byPlayer)
}

func (s *SubmissionStore) Reset() {
	s.byPlayer = make(map[string]Submission)
}
