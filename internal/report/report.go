package report

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/tokenized/votechain/internal/identity"
	"github.com/tokenized/votechain/internal/poll"
	"github.com/tokenized/votechain/pkg/storage"

	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
)

const (
	// SubSystem is used by the logger package
	SubSystem = "Report"
)

// Report is a snapshot of every poll for one account.
type Report struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Account     identity.State `json:"account"`
	Stats       poll.Stats     `json:"stats"`
	Entries     []Entry        `json:"polls"`
}

// Entry is one poll with its derived totals.
type Entry struct {
	poll.Poll
	TotalVotes uint64       `json:"total_votes"`
	Winner     *poll.Winner `json:"winner,omitempty"`
}

// Build creates a report from loaded polls.
func Build(polls []poll.Poll, stats poll.Stats, account identity.State, now time.Time) Report {
	r := Report{
		GeneratedAt: now.UTC(),
		Account:     account,
		Stats:       stats,
		Entries:     make([]Entry, 0, len(polls)),
	}

	for _, p := range polls {
		e := Entry{
			Poll:       p,
			TotalVotes: p.TotalVotes(),
		}
		if w, ok := p.Winner(); ok {
			e.Winner = &w
		}
		r.Entries = append(r.Entries, e)
	}

	return r
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(r)
}

// Export writes the JSON report to the store under key.
func Export(ctx context.Context, store storage.Storage, key string, r Report) error {
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	b, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}

	if err := store.Write(ctx, key, b, nil); err != nil {
		return errors.Wrapf(err, "write %s", key)
	}

	logger.Info(ctx, "Exported %d polls to %s", len(r.Entries), key)
	return nil
}
