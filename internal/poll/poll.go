package poll

import (
	"context"

	"github.com/tokenized/votechain/internal/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
	"go.opencensus.io/trace"
)

// LoadAll reads every poll from the ledger, in ascending id order, and the
// statistics derived from them. HasVoted is evaluated for user.
//
// A poll that can't be read, or that is malformed, is skipped and the load
// continues. Only a failure to read the poll count fails the load.
func LoadAll(ctx context.Context, r ledger.Reader, user common.Address) ([]Poll, Stats, error) {
	ctx, span := trace.StartSpan(ctx, "internal.poll.LoadAll")
	defer span.End()

	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	count, err := r.PollCount(ctx)
	if err != nil {
		return nil, Stats{}, errors.Wrap(err, "poll count")
	}

	polls := make([]Poll, 0, count)
	var stats Stats
	for id := uint64(0); id < count; id++ {
		p, err := Fetch(ctx, r, id, user)
		if err != nil {
			logger.Warn(ctx, "Skipping poll %d : %s", id, err)
			continue
		}

		stats.TotalVotes += p.TotalVotes()
		if p.HasVoted {
			stats.UserVotes++
		}
		polls = append(polls, *p)
	}

	stats.TotalPolls = len(polls)
	stats.ActivePolls = len(polls)

	logger.Verbose(ctx, "Loaded %d of %d polls", len(polls), count)
	return polls, stats, nil
}

// Fetch reads a single poll from the ledger and validates it.
func Fetch(ctx context.Context, r ledger.Reader, id uint64, user common.Address) (*Poll, error) {
	title, err := r.PollTitle(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "title")
	}

	candidates, err := r.Candidates(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "candidates")
	}

	votes, err := r.Results(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "results")
	}

	hasVoted, err := r.HasVoted(ctx, id, user)
	if err != nil {
		return nil, errors.Wrap(err, "has voted")
	}

	createdAt, err := r.CreatedAt(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "created at")
	}

	p := &Poll{
		ID:         id,
		Title:      title,
		Candidates: candidates,
		Votes:      votes,
		HasVoted:   hasVoted,
		CreatedAt:  createdAt,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}
