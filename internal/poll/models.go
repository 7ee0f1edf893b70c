package poll

import (
	"time"

	"github.com/pkg/errors"
)

const (
	// SubSystem is used by the logger package
	SubSystem = "Poll"

	MinTitleLength     = 3
	MaxTitleLength     = 200
	MaxCandidateLength = 100
	MinCandidates      = 2
	MaxCandidates      = 10
)

var (
	// ErrMismatchedResults occurs when a poll's vote counts don't line up with its candidates.
	ErrMismatchedResults = errors.New("Vote counts don't match candidates")

	// ErrNotEnoughCandidates occurs when a fetched poll has fewer than MinCandidates.
	ErrNotEnoughCandidates = errors.New("Poll has fewer than 2 candidates")
)

// Poll is a titled question with an ordered candidate list and one vote count
// per candidate, as read from the ledger for a specific user.
type Poll struct {
	ID         uint64   `json:"id"`
	Title      string   `json:"title"`
	Candidates []string `json:"candidates"`
	Votes      []uint64 `json:"votes"`
	HasVoted   bool     `json:"has_voted"`
	CreatedAt  int64    `json:"created_at"`
}

// Stats are derived from a full load of the polls.
type Stats struct {
	TotalPolls int `json:"total_polls"`

	// ActivePolls is always equal to TotalPolls. The contract has no way to
	// close a poll.
	ActivePolls int `json:"active_polls"`

	TotalVotes uint64 `json:"total_votes"`
	UserVotes  int    `json:"user_votes"`
}

// Winner is the leading candidate of a poll.
type Winner struct {
	Index      int     `json:"index"`
	Candidate  string  `json:"candidate"`
	Votes      uint64  `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// NewPoll defines what we require when creating a Poll.
type NewPoll struct {
	Title      string   `json:"title"`
	Candidates []string `json:"candidates"`
}

// Validate checks the shape of a poll read from the ledger.
func (p Poll) Validate() error {
	if len(p.Candidates) != len(p.Votes) {
		return errors.Wrapf(ErrMismatchedResults, "%d candidates, %d counts",
			len(p.Candidates), len(p.Votes))
	}
	if len(p.Candidates) < MinCandidates {
		return ErrNotEnoughCandidates
	}
	return nil
}

// TotalVotes returns the sum of all vote counts.
func (p Poll) TotalVotes() uint64 {
	total := uint64(0)
	for _, v := range p.Votes {
		total += v
	}
	return total
}

// Created returns the creation time.
func (p Poll) Created() time.Time {
	return time.Unix(p.CreatedAt, 0)
}

// Share returns the percentage of the poll's votes held by the candidate at
// index, rounded to one decimal. It is zero when no votes were cast.
func (p Poll) Share(index int) float64 {
	if index < 0 || index >= len(p.Votes) {
		return 0
	}
	return percentage(p.Votes[index], p.TotalVotes())
}
