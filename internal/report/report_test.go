package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tokenized/votechain/internal/identity"
	"github.com/tokenized/votechain/internal/poll"
	"github.com/tokenized/votechain/pkg/storage"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/tokenized/pkg/logger"
)

var now = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func testReport() Report {
	polls := []poll.Poll{
		{ID: 0, Title: "Lunch", Candidates: []string{"Pizza", "Sushi", "Tacos"},
			Votes: []uint64{3, 3, 1}, HasVoted: true, CreatedAt: now.Add(-time.Hour).Unix()},
		{ID: 1, Title: "Color", Candidates: []string{"Red", "Blue"},
			Votes: []uint64{0, 0}, CreatedAt: now.Unix()},
	}
	stats := poll.Stats{TotalPolls: 2, ActivePolls: 2, TotalVotes: 7, UserVotes: 1}
	account := identity.State{
		Address:     common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		IsConnected: true,
	}

	return Build(polls, stats, account, now)
}

func TestBuild(t *testing.T) {
	r := testReport()

	if len(r.Entries) != 2 {
		t.Fatalf("Got %d entries, want 2", len(r.Entries))
	}

	want := &poll.Winner{Index: 0, Candidate: "Pizza", Votes: 3, Percentage: 42.9}
	if diff := cmp.Diff(want, r.Entries[0].Winner); diff != "" {
		t.Errorf("Winner mismatch (-want +got):\n%s", diff)
	}
	if r.Entries[0].TotalVotes != 7 {
		t.Errorf("Got total %d, want 7", r.Entries[0].TotalVotes)
	}
	if r.Entries[1].Winner != nil {
		t.Errorf("Want no winner without votes, got %+v", r.Entries[1].Winner)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, testReport()); err != nil {
		t.Fatalf("Failed to write text : %s", err)
	}

	out := buf.String()
	for _, want := range []string{
		"#0 Lunch (voted)",
		"Pizza",
		"42.9%",
		"Leading: Pizza with 3 votes (42.9%)",
		"#1 Color",
		"No votes yet",
		"TOTAL POLLS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteText_empty(t *testing.T) {
	var buf bytes.Buffer
	r := Build(nil, poll.Stats{}, identity.State{}, now)
	if err := WriteText(&buf, r); err != nil {
		t.Fatalf("Failed to write text : %s", err)
	}
	if !strings.Contains(buf.String(), "No polls yet.") {
		t.Errorf("Output missing empty message:\n%s", buf.String())
	}
}

func TestExport(t *testing.T) {
	ctx := logger.ContextWithNoLogger(context.Background())

	root, err := ioutil.TempDir("", "votechain-report")
	if err != nil {
		t.Fatalf("Failed to create temp dir : %s", err)
	}
	defer os.RemoveAll(root)

	store := storage.NewFilesystemStorage(storage.NewConfig("", "", "", "standalone", root))

	r := testReport()
	if err := Export(ctx, store, "reports/latest.json", r); err != nil {
		t.Fatalf("Failed to export : %s", err)
	}

	b, err := store.Read(ctx, "reports/latest.json")
	if err != nil {
		t.Fatalf("Failed to read export : %s", err)
	}

	var got Report
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Failed to unmarshal export : %s", err)
	}
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
}
