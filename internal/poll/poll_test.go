package poll

import (
	"context"
	"testing"
	"time"

	"github.com/tokenized/votechain/internal/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
)

var (
	admin = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
)

func testContext() context.Context {
	return logger.ContextWithNoLogger(context.Background())
}

func TestLoadAll(t *testing.T) {
	ctx := testContext()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	m := ledger.NewMemory(admin)
	m.SetClock(func() time.Time { return created })
	m.AddPoll("Lunch", []string{"Pizza", "Sushi"}, []uint64{2, 1})
	m.AddPoll("Color", []string{"Red", "Green", "Blue"}, []uint64{0, 0, 4})
	m.AddPoll("Empty", []string{"Yes", "No"}, nil)

	m.SetSender(alice)
	tx, err := m.Vote(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Failed to vote : %s", err)
	}
	if err := tx.Wait(ctx); err != nil {
		t.Fatalf("Failed to wait : %s", err)
	}

	polls, stats, err := LoadAll(ctx, m, alice)
	if err != nil {
		t.Fatalf("Failed to load polls : %s", err)
	}

	wantPolls := []Poll{
		{ID: 0, Title: "Lunch", Candidates: []string{"Pizza", "Sushi"},
			Votes: []uint64{2, 1}, CreatedAt: created.Unix()},
		{ID: 1, Title: "Color", Candidates: []string{"Red", "Green", "Blue"},
			Votes: []uint64{1, 0, 4}, HasVoted: true, CreatedAt: created.Unix()},
		{ID: 2, Title: "Empty", Candidates: []string{"Yes", "No"},
			Votes: []uint64{0, 0}, CreatedAt: created.Unix()},
	}
	if diff := cmp.Diff(wantPolls, polls); diff != "" {
		t.Errorf("Polls mismatch (-want +got):\n%s", diff)
	}

	wantStats := Stats{TotalPolls: 3, ActivePolls: 3, TotalVotes: 8, UserVotes: 1}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAll_skipsFailedPoll(t *testing.T) {
	ctx := testContext()

	m := ledger.NewMemory(admin)
	for i := 0; i < 5; i++ {
		m.AddPoll("Poll", []string{"A", "B"}, []uint64{uint64(i), 1})
	}
	m.FailReads(2, errors.New("connection reset"))

	polls, stats, err := LoadAll(ctx, m, alice)
	if err != nil {
		t.Fatalf("Failed to load polls : %s", err)
	}

	if len(polls) != 4 {
		t.Fatalf("Got %d polls, want %d", len(polls), 4)
	}

	var ids []uint64
	for _, p := range polls {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]uint64{0, 1, 3, 4}, ids); diff != "" {
		t.Errorf("Poll ids mismatch (-want +got):\n%s", diff)
	}

	// 0+1+3+4 for the first candidate, 1 each for the second.
	if stats.TotalVotes != 12 {
		t.Errorf("Got total votes %d, want %d", stats.TotalVotes, 12)
	}
	if stats.TotalPolls != 4 {
		t.Errorf("Got total polls %d, want %d", stats.TotalPolls, 4)
	}
}

func TestLoadAll_countFailure(t *testing.T) {
	ctx := testContext()
	want := errors.New("no route to host")

	_, _, err := LoadAll(ctx, failingCount{err: want}, alice)
	if errors.Cause(err) != want {
		t.Errorf("Got error %v, want %v", err, want)
	}
}

func TestLoadAll_skipsMalformedPoll(t *testing.T) {
	ctx := testContext()

	r := malformedResults{Memory: ledger.NewMemory(admin), bad: 1}
	r.AddPoll("Good", []string{"A", "B"}, []uint64{1, 1})
	r.AddPoll("Bad", []string{"A", "B"}, []uint64{1, 1})

	polls, stats, err := LoadAll(ctx, r, alice)
	if err != nil {
		t.Fatalf("Failed to load polls : %s", err)
	}
	if len(polls) != 1 || polls[0].Title != "Good" {
		t.Fatalf("Got polls %+v, want only Good", polls)
	}
	if stats.TotalVotes != 2 {
		t.Errorf("Got total votes %d, want %d", stats.TotalVotes, 2)
	}
}

func TestLoadAll_totalVotesMatchesSum(t *testing.T) {
	ctx := testContext()

	m := ledger.NewMemory(admin)
	m.AddPoll("One", []string{"A", "B", "C"}, []uint64{7, 0, 9})
	m.AddPoll("Two", []string{"A", "B"}, []uint64{0, 0})
	m.AddPoll("Three", []string{"A", "B", "C", "D"}, []uint64{1, 2, 3, 4})

	polls, stats, err := LoadAll(ctx, m, alice)
	if err != nil {
		t.Fatalf("Failed to load polls : %s", err)
	}

	sum := uint64(0)
	for _, p := range polls {
		for _, v := range p.Votes {
			sum += v
		}
	}
	if stats.TotalVotes != sum {
		t.Errorf("Got total votes %d, want %d", stats.TotalVotes, sum)
	}
}

type failingCount struct {
	ledger.Reader
	err error
}

func (f failingCount) PollCount(ctx context.Context) (uint64, error) {
	return 0, f.err
}

// malformedResults drops a vote count from one poll.
type malformedResults struct {
	*ledger.Memory
	bad uint64
}

func (r malformedResults) Results(ctx context.Context, id uint64) ([]uint64, error) {
	votes, err := r.Memory.Results(ctx, id)
	if err != nil || id != r.bad {
		return votes, err
	}
	return votes[:1], nil
}
